// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
)

// ObfCard represents a card's state for client synchronization.
type ObfCard struct {
	ID     string `json:"id"`
	Suit   string `json:"suit"`
	Value  int    `json:"value"`
	Points int    `json:"points"`
	Idx    *int   `json:"idx,omitempty"` // Position in hand; omitted for table cards.
}

// ObfPlayerState represents one seat, obfuscated for a specific observer.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username"`
	Seat          int       `json:"seat"`
	Team          int       `json:"team"`
	HandSize      int       `json:"handSize"`
	TricksWon     int       `json:"tricksWon"`
	Connected     bool      `json:"connected"`
	IsBot         bool      `json:"isBot"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	// RevealedHand is populated only for the player requesting the state ('self').
	RevealedHand []ObfCard `json:"revealedHand,omitempty"`
}

// ObfCante is a declared cante. Hidden cantes show only their existence to
// the opposing team.
type ObfCante struct {
	Suit   string `json:"suit,omitempty"`
	Points int    `json:"points,omitempty"`
	Hidden bool   `json:"hidden"`
}

// ObfTeam is a team's standing as the observer may see it.
type ObfTeam struct {
	Score      int        `json:"score"`
	CardPoints int        `json:"cardPoints"`
	Cantes     []ObfCante `json:"cantes"`
}

// ObfTableCard is a card on the table with the seat that played it.
type ObfTableCard struct {
	Seat int     `json:"seat"`
	Card ObfCard `json:"card"`
}

// ObfGameState represents the overall game state, obfuscated for a specific observer.
type ObfGameState struct {
	GameID          uuid.UUID                `json:"gameId"`
	Mode            string                   `json:"mode"`
	Phase           string                   `json:"phase"`
	Version         int64                    `json:"version"`
	Reloading       bool                     `json:"reloading"`
	CurrentPlayerID uuid.UUID                `json:"currentPlayerId"`
	TurnID          int                      `json:"turnId"`
	Dealer          int                      `json:"dealer"`
	DeckSize        int                      `json:"deckSize"`
	TrumpSuit       string                   `json:"trumpSuit"`
	TrumpCard       *ObfCard                 `json:"trumpCard,omitempty"`
	TrumpExchanged  bool                     `json:"trumpExchanged"`
	IsVueltas       bool                     `json:"isVueltas"`
	Table           []ObfTableCard           `json:"table"`
	LastTrick       []ObfTableCard           `json:"lastTrick,omitempty"`
	Players         []ObfPlayerState         `json:"players"`
	Teams           [engine.NumTeams]ObfTeam `json:"teams"`
	Match           models.MatchScoreRecord  `json:"match"`
	Winner          *int                     `json:"winner,omitempty"`
	LegalCards      []string                 `json:"legalCards,omitempty"`
	CantableSuits   []string                 `json:"cantableSuits,omitempty"`
	CanCambiar7     bool                     `json:"canCambiar7"`
	HouseRules      models.HouseRules        `json:"houseRules"`
	Animation       map[string]bool          `json:"animation"`
}

func obfCard(c engine.Card) ObfCard {
	return ObfCard{ID: c.ID(), Suit: engine.SuitName(c.Suit()), Value: int(c.Rank()), Points: c.Points()}
}

func obfTable(plays []engine.TrickCard) []ObfTableCard {
	out := make([]ObfTableCard, 0, len(plays))
	for _, tc := range plays {
		out = append(out, ObfTableCard{Seat: int(tc.Player), Card: obfCard(tc.Card)})
	}
	return out
}

// GetCurrentObfuscatedGameState generates a snapshot of the game state,
// tailored to the perspective of the requesting user (`forUser`). Other
// players' hands are reduced to their size, and a hidden trump cante of the
// opposing team is left out of the visible score until it is revealed.
// This function assumes the game lock is HELD by the caller.
func (g *GuinoteGame) GetCurrentObfuscatedGameState(forUser uuid.UUID) ObfGameState {
	e := &g.Engine
	obf := ObfGameState{
		GameID:         g.ID,
		Mode:           g.Mode.Name(),
		Phase:          e.Phase.String(),
		Version:        g.reconciler.LastApplied(),
		Reloading:      g.Reloading,
		TurnID:         g.TurnID,
		Dealer:         int(e.Dealer),
		DeckSize:       int(e.DeckLen),
		TrumpSuit:      engine.SuitName(e.TrumpSuit),
		TrumpExchanged: e.TrumpExchanged,
		IsVueltas:      e.IsVueltas,
		Table:          obfTable(e.Trick.Plays()),
		HouseRules:     g.HouseRules,
		Match: models.MatchScoreRecord{
			Team1Partidas:   e.Match.Team1Partidas,
			Team2Partidas:   e.Match.Team2Partidas,
			Team1Cotos:      e.Match.Team1Cotos,
			Team2Cotos:      e.Match.Team2Cotos,
			CotosPerMatch:   int(e.Match.CotosPerMatch),
			PartidasPerCoto: int(e.Match.PartidasPerCoto),
		},
		Animation: map[string]bool{
			"dealing":          e.Phase == engine.PhaseDealing,
			"trick":            e.TrickAnimating,
			"postTrickDealing": e.PostTrickDealingAnimating,
		},
	}
	if e.TrumpCard.Valid() {
		tc := obfCard(e.TrumpCard)
		obf.TrumpCard = &tc
	}
	if e.TrickAnimating {
		obf.LastTrick = obfTable(e.LastTrick.Plays())
	}
	if e.Phase == engine.PhaseGameOver && e.Winner >= 0 {
		w := int(e.Winner)
		obf.Winner = &w
	}

	viewer, seated := g.seatOf(forUser)
	inPlay := e.Phase.InPlay()
	if inPlay {
		obf.CurrentPlayerID = g.playerIDAt(e.CurrentPlayer)
	}

	obf.Players = make([]ObfPlayerState, 0, engine.NumPlayers)
	for s := uint8(0); s < engine.NumPlayers; s++ {
		ps := ObfPlayerState{
			Seat:          int(s),
			Team:          int(engine.TeamOf(s)),
			HandSize:      int(e.HandLen(s)),
			TricksWon:     int(e.CollectedTricks[s]),
			IsCurrentTurn: inPlay && e.CurrentPlayer == s,
		}
		if p := g.Players[s]; p != nil {
			ps.PlayerID = p.ID
			ps.Username = p.Username
			ps.Connected = p.Connected
			ps.IsBot = p.IsBot
		}
		if seated && s == viewer {
			hand := e.Hand(s)
			ps.RevealedHand = make([]ObfCard, len(hand))
			for j, c := range hand {
				idx := j
				ps.RevealedHand[j] = obfCard(c)
				ps.RevealedHand[j].Idx = &idx
			}
		}
		obf.Players = append(obf.Players, ps)
	}

	for t := uint8(0); t < engine.NumTeams; t++ {
		team := &e.Teams[t]
		own := seated && engine.TeamOf(viewer) == t
		ot := ObfTeam{Score: team.Score, CardPoints: team.CardPoints, Cantes: []ObfCante{}}
		for _, c := range team.CanteList() {
			if c.Visible || own {
				ot.Cantes = append(ot.Cantes, ObfCante{Suit: engine.SuitName(c.Suit), Points: c.Points, Hidden: !c.Visible})
				continue
			}
			ot.Cantes = append(ot.Cantes, ObfCante{Hidden: true})
			ot.Score -= c.Points
		}
		obf.Teams[t] = ot
	}

	if seated && g.Mode.IsMyTurn(viewer) {
		for _, c := range e.LegalCards(viewer) {
			obf.LegalCards = append(obf.LegalCards, c.ID())
		}
		for _, s := range g.cantableSuits(viewer) {
			obf.CantableSuits = append(obf.CantableSuits, engine.SuitName(s))
		}
		obf.CanCambiar7 = g.canCambiar7(viewer)
	}
	return obf
}
