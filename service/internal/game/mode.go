// internal/game/mode.go
package game

import (
	"context"

	"github.com/google/uuid"
	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
)

// Mode decides who may act from this client and where the truth lives.
type Mode interface {
	// LocalAuthoritative reports whether the local engine applies the rules.
	// When false, operations are mirrored to an Authority and the local view
	// changes only through snapshots.
	LocalAuthoritative() bool
	// IsMyTurn reports whether seat may be driven from this client.
	IsMyTurn(seat uint8) bool
	// ActingSeat returns the seat this client should act for now, if any.
	ActingSeat(g *engine.GameState) (uint8, bool)
	Name() string
}

// OfflineMode plays every seat locally: one human plus bots, or a shared
// screen. The local engine is authoritative.
type OfflineMode struct{}

func (OfflineMode) LocalAuthoritative() bool { return true }
func (OfflineMode) IsMyTurn(seat uint8) bool { return seat < engine.NumPlayers }
func (OfflineMode) Name() string { return "offline" }

func (OfflineMode) ActingSeat(g *engine.GameState) (uint8, bool) {
	if !g.Phase.InPlay() || g.AnimationBusy() {
		return 0, false
	}
	return g.CurrentPlayer, true
}

// OnlineMode drives a single local seat against a remote authority.
type OnlineMode struct {
	Seat uint8 // local seat of this client's player
}

func (OnlineMode) LocalAuthoritative() bool { return false }
func (m OnlineMode) IsMyTurn(seat uint8) bool { return seat == m.Seat }
func (OnlineMode) Name() string { return "online" }

func (m OnlineMode) ActingSeat(g *engine.GameState) (uint8, bool) {
	if !g.Phase.InPlay() || g.AnimationBusy() || g.CurrentPlayer != m.Seat {
		return 0, false
	}
	return m.Seat, true
}

// Authority is the remote service that owns the online game. Calls are
// fire-and-forget: their effect arrives later as a snapshot.
type Authority interface {
	PlayCard(ctx context.Context, playerID uuid.UUID, cardID string) error
	Cantar(ctx context.Context, playerID uuid.UUID, suit string) error
	Cambiar7(ctx context.Context, playerID uuid.UUID) error
	DeclareVictory(ctx context.Context, playerID uuid.UUID) error
	DeclareRenuncio(ctx context.Context, playerID uuid.UUID, reason string) error
	RequestSync(ctx context.Context, sinceVersion int64) error
}

// ResultSaver persists finished deals. database.ResultStore satisfies it.
type ResultSaver interface {
	SaveResult(ctx context.Context, res models.GameResult) error
}
