package engine

import "fmt"

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	// ForcedPlayBeforeArrastre applies follow-suit / trump / over-trump
	// obligations while the draw pile still has cards. House variants differ;
	// the default is permissive.
	ForcedPlayBeforeArrastre bool
	// MustBeatLedSuit forces a player following a non-trump lead to beat the
	// highest card of that suit when able and no trump has been played.
	MustBeatLedSuit bool
	PartidasPerCoto uint8 // partidas a team must win to take a coto
	CotosPerMatch   uint8 // cotos a team must win to take the match
	TurnTimerSec    uint16
}

// DefaultHouseRules returns the standard Guiñote house rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		ForcedPlayBeforeArrastre: false,
		MustBeatLedSuit:          false,
		PartidasPerCoto:          2,
		CotosPerMatch:            2,
		TurnTimerSec:             0,
	}
}

// Validate checks that the rules describe a playable match.
func (r HouseRules) Validate() error {
	if r.PartidasPerCoto == 0 {
		return fmt.Errorf("PartidasPerCoto must be > 0")
	}
	if r.CotosPerMatch == 0 {
		return fmt.Errorf("CotosPerMatch must be > 0")
	}
	return nil
}

// forcedPlay reports whether follow/trump obligations apply in phase.
func (r *HouseRules) forcedPlay(phase Phase) bool {
	return phase == PhaseArrastre || r.ForcedPlayBeforeArrastre
}

// partidasPerCoto returns the effective value, treating 0 as the default.
func (r *HouseRules) partidasPerCoto() uint8 {
	if r.PartidasPerCoto == 0 {
		return 2
	}
	return r.PartidasPerCoto
}

func (r *HouseRules) cotosPerMatch() uint8 {
	if r.CotosPerMatch == 0 {
		return 2
	}
	return r.CotosPerMatch
}
