// internal/models/house_rules.go
package models

import (
	"fmt"

	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
)

// HouseRules captures the rule variants a table plays with. It is loaded
// from YAML by the config package and mapped onto engine.HouseRules by the
// game session.
type HouseRules struct {
	// ForcedPlayBeforeArrastre applies the follow-suit and trump obligations
	// while the deck still has cards. Off means anything may be played.
	ForcedPlayBeforeArrastre bool `json:"forcedPlayBeforeArrastre" yaml:"forced_play_before_arrastre"`

	// MustBeatLedSuit forces a player who follows suit to beat the best card
	// of the led suit when no trump has been played.
	MustBeatLedSuit bool `json:"mustBeatLedSuit" yaml:"must_beat_led_suit"`

	// PartidasPerCoto is how many won deals make a coto.
	PartidasPerCoto int `json:"partidasPerCoto" yaml:"partidas_per_coto"`

	// CotosPerMatch is how many cotos win the match.
	CotosPerMatch int `json:"cotosPerMatch" yaml:"cotos_per_match"`

	// TurnTimerSec is how many seconds a turn lasts before a forced play (0 => no limit).
	TurnTimerSec int `json:"turnTimerSec" yaml:"turn_timer_sec"`
}

// DefaultHouseRules returns the permissive table rules: forced play only in
// arrastre, two partidas per coto, two cotos per match, no turn timer.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		PartidasPerCoto: 2,
		CotosPerMatch:   2,
	}
}

// TurnTimeoutSeconds returns the configured turn timeout or 0 if no limit.
func (h HouseRules) TurnTimeoutSeconds() int {
	if h.TurnTimerSec < 0 {
		return 0
	}
	return h.TurnTimerSec
}

// Engine converts the rules to the engine's form and validates them.
func (h HouseRules) Engine() (engine.HouseRules, error) {
	if h.PartidasPerCoto < 0 || h.PartidasPerCoto > 255 {
		return engine.HouseRules{}, fmt.Errorf("partidas_per_coto %d out of range", h.PartidasPerCoto)
	}
	if h.CotosPerMatch < 0 || h.CotosPerMatch > 255 {
		return engine.HouseRules{}, fmt.Errorf("cotos_per_match %d out of range", h.CotosPerMatch)
	}
	if h.TurnTimerSec < 0 || h.TurnTimerSec > 0xFFFF {
		return engine.HouseRules{}, fmt.Errorf("turn_timer_sec %d out of range", h.TurnTimerSec)
	}
	rules := engine.HouseRules{
		ForcedPlayBeforeArrastre: h.ForcedPlayBeforeArrastre,
		MustBeatLedSuit:          h.MustBeatLedSuit,
		PartidasPerCoto:          uint8(h.PartidasPerCoto),
		CotosPerMatch:            uint8(h.CotosPerMatch),
		TurnTimerSec:             uint16(h.TurnTimerSec),
	}
	if err := rules.Validate(); err != nil {
		return engine.HouseRules{}, err
	}
	return rules, nil
}
