// internal/game/player_actions.go
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
)

var (
	errSessionClosed = errors.New("session closed")
	errNotSeated     = errors.New("player not seated")
	errNotLocal      = errors.New("seat is not driven from this client")
)

// actor resolves playerID to a seat this client may act for.
// Assumes lock is held by caller.
func (g *GuinoteGame) actor(playerID uuid.UUID, action string) (uint8, bool) {
	fail := func(err error) (uint8, bool) {
		g.rejectMove(playerID, action, err)
		return 0, false
	}
	if g.closed {
		return fail(errSessionClosed)
	}
	seat, ok := g.seatOf(playerID)
	if !ok {
		return fail(errNotSeated)
	}
	if !g.Mode.IsMyTurn(seat) {
		return fail(errNotLocal)
	}
	return seat, true
}

// PlayCard plays cardID for playerID. Offline the engine applies it; online
// a light check runs and the play is sent to the authority.
func (g *GuinoteGame) PlayCard(playerID uuid.UUID, cardID string) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.actor(playerID, "play_card")
	if !ok {
		return false
	}
	card, err := engine.ParseCardID(cardID)
	if err != nil {
		g.rejectMove(playerID, "play_card", fmt.Errorf("%w: %v", engine.ErrCardNotInHand, err))
		return false
	}

	if !g.Mode.LocalAuthoritative() {
		if err := g.precheckTurn(seat); err != nil {
			g.rejectMove(playerID, "play_card", err)
			return false
		}
		if !containsCard(g.Engine.Hand(seat), card) {
			g.rejectMove(playerID, "play_card", engine.ErrCardNotInHand)
			return false
		}
		return g.mirror(playerID, "play_card", func(ctx context.Context, a Authority) error {
			return a.PlayCard(ctx, playerID, cardID)
		})
	}
	return g.applyLocal(playerID, "play_card", func(e *engine.GameState) error {
		return e.PlayCard(seat, card)
	})
}

// Cantar declares the Rey+Caballo of suit for playerID's team.
func (g *GuinoteGame) Cantar(playerID uuid.UUID, suitName string) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.actor(playerID, "cantar")
	if !ok {
		return false
	}
	suit, err := engine.ParseSuit(suitName)
	if err != nil {
		g.rejectMove(playerID, "cantar", fmt.Errorf("%w: %v", engine.ErrCanteNotAllowed, err))
		return false
	}

	if !g.Mode.LocalAuthoritative() {
		if err := g.precheckTurn(seat); err != nil {
			g.rejectMove(playerID, "cantar", err)
			return false
		}
		return g.mirror(playerID, "cantar", func(ctx context.Context, a Authority) error {
			return a.Cantar(ctx, playerID, engine.SuitName(suit))
		})
	}
	return g.applyLocal(playerID, "cantar", func(e *engine.GameState) error {
		return e.Cantar(seat, suit)
	})
}

// Cambiar7 swaps playerID's trump seven for the face-up trump card.
func (g *GuinoteGame) Cambiar7(playerID uuid.UUID) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.actor(playerID, "cambiar7")
	if !ok {
		return false
	}
	if !g.Mode.LocalAuthoritative() {
		if err := g.precheckTurn(seat); err != nil {
			g.rejectMove(playerID, "cambiar7", err)
			return false
		}
		return g.mirror(playerID, "cambiar7", func(ctx context.Context, a Authority) error {
			return a.Cambiar7(ctx, playerID)
		})
	}
	return g.applyLocal(playerID, "cambiar7", func(e *engine.GameState) error {
		return e.Cambiar7(seat)
	})
}

// DeclareVictory claims the deal for playerID's team during vueltas.
func (g *GuinoteGame) DeclareVictory(playerID uuid.UUID) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.actor(playerID, "declare_victory")
	if !ok {
		return false
	}
	if !g.Mode.LocalAuthoritative() {
		return g.mirror(playerID, "declare_victory", func(ctx context.Context, a Authority) error {
			return a.DeclareVictory(ctx, playerID)
		})
	}
	return g.applyLocal(playerID, "declare_victory", func(e *engine.GameState) error {
		return e.DeclareVictory(seat)
	})
}

// DeclareRenuncio forfeits the deal for playerID's team.
func (g *GuinoteGame) DeclareRenuncio(playerID uuid.UUID, reason string) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.actor(playerID, "declare_renuncio")
	if !ok {
		return false
	}
	if !g.Mode.LocalAuthoritative() {
		return g.mirror(playerID, "declare_renuncio", func(ctx context.Context, a Authority) error {
			return a.DeclareRenuncio(ctx, playerID, reason)
		})
	}
	g.log.Infof("Seat %d renounces: %s", seat, reason)
	return g.applyLocal(playerID, "declare_renuncio", func(e *engine.GameState) error {
		return e.DeclareRenuncio(seat, reason)
	})
}

// precheckTurn is the online check run before a turn-bound operation is
// sent: the view must be trusted, idle and on this seat's turn.
func (g *GuinoteGame) precheckTurn(seat uint8) error {
	switch {
	case g.Reloading:
		return fmt.Errorf("%w: resynchronising", engine.ErrAnimationPending)
	case g.Engine.Phase == engine.PhaseGameOver:
		return engine.ErrGameOver
	case !g.Engine.Phase.InPlay():
		return fmt.Errorf("%w: %s", engine.ErrWrongPhase, g.Engine.Phase)
	case g.Engine.AnimationBusy():
		return engine.ErrAnimationPending
	case g.Engine.CurrentPlayer != seat:
		return fmt.Errorf("%w: seat %d, current %d", engine.ErrNotYourTurn, seat, g.Engine.CurrentPlayer)
	}
	return nil
}

func containsCard(hand []engine.Card, c engine.Card) bool {
	for _, h := range hand {
		if h == c {
			return true
		}
	}
	return false
}

// ContinueFromScoring leaves the scoring phase: the deal ends or vueltas
// begin. Online the server decides and the result arrives as a snapshot.
func (g *GuinoteGame) ContinueFromScoring() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return false
	}
	if !g.Mode.LocalAuthoritative() {
		g.requestSync("continue_from_scoring")
		return true
	}
	return g.applyLocal(uuid.Nil, "continue_from_scoring", func(e *engine.GameState) error {
		return e.ContinueFromScoring()
	})
}

// NextDeal starts the next partida after a finished deal, or a new match
// once the current one is decided.
func (g *GuinoteGame) NextDeal() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return false
	}
	if !g.Mode.LocalAuthoritative() {
		g.requestSync("next_deal")
		return true
	}
	return g.applyLocal(uuid.Nil, "next_deal", func(e *engine.GameState) error {
		if e.MatchOver && e.Phase == engine.PhaseGameOver {
			e.NewMatch()
			return nil
		}
		return e.NextDeal()
	})
}

// CompleteDealingAnimation acknowledges the dealing animation.
func (g *GuinoteGame) CompleteDealingAnimation() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return false
	}
	return g.applyAck("complete_dealing", func(e *engine.GameState) error {
		return e.CompleteDealingAnimation()
	})
}

// CompleteTrickAnimation acknowledges the trick-collection animation.
func (g *GuinoteGame) CompleteTrickAnimation() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return false
	}
	return g.applyAck("complete_trick", func(e *engine.GameState) error {
		return e.CompleteTrickAnimation()
	})
}

// CompletePostTrickDealing acknowledges the post-trick draw animation.
func (g *GuinoteGame) CompletePostTrickDealing() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return false
	}
	return g.applyAck("complete_post_trick_dealing", func(e *engine.GameState) error {
		return e.CompletePostTrickDealing()
	})
}

// ReorderHand moves a card within playerID's hand. Local in every mode.
func (g *GuinoteGame) ReorderHand(playerID uuid.UUID, from, to int) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.actor(playerID, "reorder_hand")
	if !ok {
		return false
	}
	if err := g.Engine.ReorderHand(seat, from, to); err != nil {
		g.rejectMove(playerID, "reorder_hand", err)
		return false
	}
	return true
}

// ReceiveSnapshot offers an authoritative snapshot to the session. Offline
// tables own their state and discard it.
func (g *GuinoteGame) ReceiveSnapshot(snap *models.ServerSnapshot) Outcome {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if snap == nil || g.closed {
		return OutcomeDiscarded
	}
	if g.Mode.LocalAuthoritative() {
		g.log.Warnf("Offline table discarding snapshot v%d", snap.Version)
		return OutcomeDiscarded
	}
	return g.offerSnapshot(snap)
}

// SendSyncState sends the player their view of the current state.
func (g *GuinoteGame) SendSyncState(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.sendSyncState(playerID)
}

// sendSyncState assumes lock is held by caller.
func (g *GuinoteGame) sendSyncState(playerID uuid.UUID) {
	if _, ok := g.seatOf(playerID); !ok {
		g.log.Warnf("SendSyncState: player %s not seated", playerID)
		return
	}
	state := g.GetCurrentObfuscatedGameState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// sendSyncStateToAll assumes lock is held by caller.
func (g *GuinoteGame) sendSyncStateToAll() {
	for _, p := range g.Players {
		if p != nil {
			g.sendSyncState(p.ID)
		}
	}
}
