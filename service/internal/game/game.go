// internal/game/game.go
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/cache"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc defines the signature for a callback function executed when a deal ends.
// It receives the game ID, the winning team and the final team scores.
type OnGameEndFunc func(gameID uuid.UUID, winningTeam int, scores [engine.NumTeams]int)

// GameEventType represents the type of a game-related event delivered to UI callers.
type GameEventType string

// Constants defining the various GameEvent types.
const (
	EventCardPlayed         GameEventType = "card_played"          // Public: a card reached the table.
	EventTrickWon           GameEventType = "trick_won"            // Public: trick resolved, winner and points.
	EventCante              GameEventType = "cante"                // Public: a cante was declared or revealed.
	EventPrivateCante       GameEventType = "private_cante"        // Private: details of a hidden trump cante.
	EventTrumpExchanged     GameEventType = "trump_exchanged"      // Public: the trump seven replaced the face-up trump.
	EventPrivateCardDrawn   GameEventType = "private_card_drawn"   // Private: a card drawn after a trick.
	EventPhaseChanged       GameEventType = "phase_changed"        // Public: deal phase transition.
	EventDealStarted        GameEventType = "deal_started"         // Public: cards dealt for idas or vueltas.
	EventGamePlayerTurn     GameEventType = "game_player_turn"     // Public: notification of the current player's turn.
	EventGameOver           GameEventType = "game_over"            // Public: deal finished, includes results.
	EventMatchOver          GameEventType = "match_over"           // Public: a team won the match.
	EventSyncApplied        GameEventType = "sync_applied"         // Public: an authoritative snapshot was applied.
	EventReloadingState     GameEventType = "reloading_state"      // Public: local view diverged, full resync requested.
	EventPrivateIllegalMove GameEventType = "private_illegal_move" // Private: an operation was rejected.
	EventPrivateSyncState   GameEventType = "private_sync_state"   // Private: full state for a player.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Seat int       `json:"seat"`
}

// EventCard identifies a card within a GameEvent payload.
type EventCard struct {
	ID     string `json:"id"`
	Suit   string `json:"suit"`
	Value  int    `json:"value"`
	Points int    `json:"points"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type GameEventType `json:"type"`
	User *EventUser    `json:"user,omitempty"` // The user initiating or targeted by the event.
	Card *EventCard    `json:"card,omitempty"` // Primary card involved.

	Payload map[string]interface{} `json:"payload,omitempty"` // Additional arbitrary data.

	State *ObfGameState `json:"state,omitempty"` // Full obfuscated state for sync events.
}

// GuinoteGame is one four-seat Guiñote table as seen from this client. It
// owns the engine state and serialises every entry point under Mu.
type GuinoteGame struct {
	ID         uuid.UUID
	HouseRules models.HouseRules

	Players [engine.NumPlayers]*models.Player // indexed by local seat

	Engine    engine.GameState
	Mode      Mode
	Authority Authority   // remote mirror, required when Mode is not local-authoritative
	Results   ResultSaver // optional result persistence

	// Reloading is set while a full resync is outstanding after a desync.
	Reloading bool

	// Turn Management
	TurnID       int           // Increments each time the turn passes to another seat or phase.
	TurnDuration time.Duration // Configurable duration for each turn timer.
	turnTimer    *time.Timer   // Active timer for the current turn.
	turnKey      turnKey       // Turn the current TurnID was issued for.
	actionIndex  int           // Sequential index for logging actions via historian.
	dealIndex    int           // Deals finished in this session.

	// RemoteTimeout bounds each fire-and-forget call to the Authority.
	RemoteTimeout time.Duration

	reconciler Reconciler
	closed     bool

	Mu sync.Mutex

	// Communication Callbacks
	BroadcastFn         func(ev GameEvent)                     // Sends an event to every seat.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent) // Sends an event to a single player.
	OnGameEnd           OnGameEndFunc                          // Callback executed when a deal finishes.

	log *logrus.Entry
}

// turnKey identifies whose turn it is; a change issues a new TurnID.
type turnKey struct {
	phase   engine.Phase
	current uint8
	busy    bool
	tricks  uint8
	played  uint8
}

// NewGuinoteGame creates a table with the given rules and mode. Players are
// added with AddPlayer and the first deal is made by Start.
func NewGuinoteGame(rules models.HouseRules, mode Mode) *GuinoteGame {
	id, _ := uuid.NewRandom()
	g := &GuinoteGame{
		ID:            id,
		HouseRules:    rules,
		Mode:          mode,
		RemoteTimeout: 2 * time.Second,
	}
	if rules.TurnTimeoutSeconds() > 0 {
		g.TurnDuration = time.Duration(rules.TurnTimeoutSeconds()) * time.Second
	}
	g.log = logrus.WithFields(logrus.Fields{"game_id": g.ID, "mode": mode.Name()})
	return g
}

// SetID binds the session to an existing game id, such as the server's.
func (g *GuinoteGame) SetID(id uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.ID = id
	g.log = logrus.WithFields(logrus.Fields{"game_id": id, "mode": g.Mode.Name()})
}

// AddPlayer seats p at p.Seat, replacing whoever sat there.
func (g *GuinoteGame) AddPlayer(p *models.Player) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if p.Seat < 0 || p.Seat >= engine.NumPlayers {
		g.log.Warnf("AddPlayer: seat %d out of range for player %s", p.Seat, p.ID)
		return
	}
	g.Players[p.Seat] = p
	g.log.Infof("Player %s (%s) joined at seat %d", p.ID, p.Username, p.Seat)
}

// Start begins play. An offline table shuffles with seed and deals; an
// online table waits for the first snapshot and asks for it.
func (g *GuinoteGame) Start(seed uint64) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	g.Engine = engine.NewGame(seed, g.mapHouseRulesToEngine())
	if !g.Mode.LocalAuthoritative() {
		g.logAction(uuid.Nil, "game_join", nil)
		g.requestSync("start")
		return
	}
	prev := g.Engine
	g.Engine.Deal()
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"dealer": g.Engine.Dealer})
	g.emitTransition(&prev)
	g.onStateChanged()
}

// Close ends the session: the timer stops, any buffered snapshot is
// discarded and later calls are ignored.
func (g *GuinoteGame) Close() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.stopTurnTimer()
	g.reconciler.Reset()
	g.log.Info("Session closed")
}

// State returns a copy of the local engine state.
func (g *GuinoteGame) State() engine.GameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Engine
}

// LastAppliedVersion returns the highest snapshot version applied.
func (g *GuinoteGame) LastAppliedVersion() int64 {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.reconciler.LastApplied()
}

// fireEvent sends an event to every seat.
// Assumes lock is held by caller.
func (g *GuinoteGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn == nil {
		g.log.Warnf("BroadcastFn is nil, dropping %s event", ev.Type)
		return
	}
	g.BroadcastFn(ev)
}

// fireEventToPlayer sends an event to a single player.
// Assumes lock is held by caller.
func (g *GuinoteGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if playerID == uuid.Nil {
		return
	}
	if g.BroadcastToPlayerFn == nil {
		g.log.Warnf("BroadcastToPlayerFn is nil, dropping %s event for %s", ev.Type, playerID)
		return
	}
	g.BroadcastToPlayerFn(playerID, ev)
}

// fireEventToSeat sends a private event to whoever sits at seat.
func (g *GuinoteGame) fireEventToSeat(seat uint8, ev GameEvent) {
	if p := g.Players[seat]; p != nil {
		g.fireEventToPlayer(p.ID, ev)
	}
}

// seatOf resolves the local seat of playerID.
func (g *GuinoteGame) seatOf(playerID uuid.UUID) (uint8, bool) {
	for s, p := range g.Players {
		if p != nil && p.ID == playerID {
			return uint8(s), true
		}
	}
	return 0, false
}

// userAt returns the event user for seat, or nil for an empty seat.
func (g *GuinoteGame) userAt(seat uint8) *EventUser {
	if seat >= engine.NumPlayers {
		return nil
	}
	u := &EventUser{Seat: int(seat)}
	if p := g.Players[seat]; p != nil {
		u.ID = p.ID
	}
	return u
}

func (g *GuinoteGame) playerIDAt(seat uint8) uuid.UUID {
	if seat < engine.NumPlayers && g.Players[seat] != nil {
		return g.Players[seat].ID
	}
	return uuid.Nil
}

// endGame broadcasts the result of a finished deal, persists it and runs
// the OnGameEnd callback.
// Assumes lock is held by caller.
func (g *GuinoteGame) endGame() {
	g.stopTurnTimer()
	out, ok := g.Engine.Outcome()
	if !ok {
		g.log.Warn("endGame called without a decided winner")
		return
	}
	g.dealIndex++
	reason := "scoring"
	switch g.Engine.LastAction.Type {
	case engine.ActionRenuncio:
		reason = "renuncio"
	case engine.ActionDeclareVictory:
		reason = "declaration"
	}
	g.log.Infof("Deal %d over: team %d wins %d-%d (%s)", g.dealIndex, out.Winner, out.Scores[0], out.Scores[1], reason)

	g.fireEvent(GameEvent{
		Type: EventGameOver,
		Payload: map[string]interface{}{
			"winningTeam": out.Winner,
			"scores":      out.Scores,
			"cardPoints":  out.CardPoints,
			"vueltas":     out.Vueltas,
			"reason":      reason,
			"partidas":    [engine.NumTeams]int{g.Engine.Match.Partidas(0), g.Engine.Match.Partidas(1)},
			"cotos":       [engine.NumTeams]int{g.Engine.Match.Cotos(0), g.Engine.Match.Cotos(1)},
		},
	})
	g.logAction(uuid.Nil, string(EventGameOver), map[string]interface{}{
		"winningTeam": out.Winner, "scores": out.Scores, "reason": reason,
	})

	if out.MatchOver {
		winner, _ := g.Engine.Match.Winner()
		g.fireEvent(GameEvent{
			Type: EventMatchOver,
			Payload: map[string]interface{}{
				"winningTeam": winner,
				"cotos":       [engine.NumTeams]int{g.Engine.Match.Cotos(0), g.Engine.Match.Cotos(1)},
			},
		})
		g.logAction(uuid.Nil, string(EventMatchOver), map[string]interface{}{"winningTeam": winner})
	}

	g.persistResult(out, reason)

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, int(out.Winner), out.Scores)
	}
}

// persistResult stores the finished deal in the background.
// Assumes lock is held by caller.
func (g *GuinoteGame) persistResult(out engine.Outcome, reason string) {
	if g.Results == nil {
		return
	}
	res := models.GameResult{
		GameID:          g.ID,
		DealIndex:       g.dealIndex,
		WinningTeam:     int(out.Winner),
		Team1Score:      out.Scores[0],
		Team2Score:      out.Scores[1],
		Team1CardPoints: out.CardPoints[0],
		Team2CardPoints: out.CardPoints[1],
		Vueltas:         out.Vueltas,
		Reason:          reason,
		MatchOver:       out.MatchOver,
		Team1Cotos:      g.Engine.Match.Cotos(0),
		Team2Cotos:      g.Engine.Match.Cotos(1),
		FinishedAt:      time.Now(),
	}
	store, log := g.Results, g.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.SaveResult(ctx, res); err != nil {
			log.WithError(err).Errorf("Failed to persist deal %d", res.DealIndex)
		}
	}()
}

// logAction sends game action details to the historian service via Redis queue.
// Increments the internal action index for ordering.
// Assumes lock is held by caller.
func (g *GuinoteGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID, // Nil for game events.
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}

	log := g.log
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cache.Rdb == nil {
			return
		}
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.WithError(err).Errorf("Failed publishing action %d ('%s') to Redis", rec.ActionIndex, rec.ActionType)
		}
	}(record)
}
