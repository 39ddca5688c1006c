package models

import (
	"encoding/json"
	"testing"

	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardRecordKey(t *testing.T) {
	assert.Equal(t, "oros_1", CardRecord{Suit: "oros", Value: 1}.Key())
	assert.Equal(t, "bastos_12", CardRecord{Suit: "Bastos", Value: 12}.Key())
	assert.Equal(t, "custom", CardRecord{ID: "custom", Suit: "oros", Value: 1}.Key())
}

func TestServerSnapshotDecode(t *testing.T) {
	raw := `{
		"version": 7,
		"hands_by_seat": [[{"suit":"oros","value":1}], [], [{"id":"copas_3","suit":"copas","value":3}], []],
		"deck": [{"suit":"espadas","value":7}],
		"trump_card": {"suit":"espadas","value":2},
		"trump_suit": "espadas",
		"current_player_index": 2,
		"dealer_index": 3,
		"table_cards": [{"position": 1, "card": {"suit":"bastos","value":10}}],
		"phase": "playing",
		"team_scores": [20, 0],
		"is_vueltas": false
	}`
	var snap ServerSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	assert.EqualValues(t, 7, snap.Version)
	assert.Len(t, snap.HandsBySeat[0], 1)
	assert.Equal(t, "copas_3", snap.HandsBySeat[2][0].Key())
	require.NotNil(t, snap.TrumpCard)
	assert.Equal(t, "espadas_2", snap.TrumpCard.Key())
	require.Len(t, snap.TableCards, 1)
	assert.Equal(t, 1, snap.TableCards[0].Position)
	require.NotNil(t, snap.TeamScores)
	assert.Equal(t, [2]int{20, 0}, *snap.TeamScores)
	require.NotNil(t, snap.IsVueltas)
	assert.False(t, *snap.IsVueltas)
	assert.Nil(t, snap.TeamCardPoints)
	assert.Nil(t, snap.MatchScore)
}

func TestDefaultHouseRules(t *testing.T) {
	r := DefaultHouseRules()
	assert.False(t, r.ForcedPlayBeforeArrastre)
	assert.Equal(t, 2, r.PartidasPerCoto)
	assert.Equal(t, 2, r.CotosPerMatch)
	assert.Equal(t, 0, HouseRules{TurnTimerSec: -5}.TurnTimeoutSeconds())
}

func TestHouseRulesEngine(t *testing.T) {
	in := HouseRules{MustBeatLedSuit: true, PartidasPerCoto: 3, CotosPerMatch: 1, TurnTimerSec: 20}
	got, err := in.Engine()
	require.NoError(t, err)
	assert.Equal(t, engine.HouseRules{MustBeatLedSuit: true, PartidasPerCoto: 3, CotosPerMatch: 1, TurnTimerSec: 20}, got)

	for _, bad := range []HouseRules{
		{PartidasPerCoto: 0, CotosPerMatch: 2},
		{PartidasPerCoto: 2, CotosPerMatch: 0},
		{PartidasPerCoto: 300, CotosPerMatch: 2},
		{PartidasPerCoto: 2, CotosPerMatch: 2, TurnTimerSec: -1},
	} {
		_, err := bad.Engine()
		assert.Error(t, err, "%+v", bad)
	}
}
