// engine_adapter.go: bridge between engine.GameState and GuinoteGame.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
)

// engineCardToDetails converts an engine.Card to its event form.
func engineCardToDetails(c engine.Card) *EventCard {
	if !c.Valid() {
		return nil
	}
	return &EventCard{
		ID:     c.ID(),
		Suit:   engine.SuitName(c.Suit()),
		Value:  int(c.Rank()),
		Points: c.Points(),
	}
}

// engineCardToRecord converts an engine.Card to its wire form.
func engineCardToRecord(c engine.Card) models.CardRecord {
	return models.CardRecord{ID: c.ID(), Suit: engine.SuitName(c.Suit()), Value: int(c.Rank())}
}

// recordToEngineCard converts a wire card. Suit and value win over the id;
// without a suit the card is read from its Key. An id that parses must name
// the same card as the suit and value.
func recordToEngineCard(rec models.CardRecord) (engine.Card, error) {
	if rec.Suit == "" {
		return engine.ParseCardID(rec.Key())
	}
	suit, err := engine.ParseSuit(rec.Suit)
	if err != nil {
		return engine.EmptyCard, err
	}
	if rec.Value < 0 || rec.Value > 15 || !engine.ValidRank(uint8(rec.Value)) {
		return engine.EmptyCard, fmt.Errorf("invalid card value %d", rec.Value)
	}
	c := engine.NewCard(suit, uint8(rec.Value))
	if byID, err := engine.ParseCardID(rec.Key()); err == nil && byID != c {
		return engine.EmptyCard, fmt.Errorf("card id %q does not match %s", rec.ID, c)
	}
	return c, nil
}

func recordsToEngineCards(recs []models.CardRecord) ([]engine.Card, error) {
	out := make([]engine.Card, 0, len(recs))
	for _, r := range recs {
		c, err := recordToEngineCard(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// mapHouseRulesToEngine maps service HouseRules to engine.HouseRules.
// Invalid rules are reported and replaced by the defaults.
func (g *GuinoteGame) mapHouseRulesToEngine() engine.HouseRules {
	rules, err := g.HouseRules.Engine()
	if err != nil {
		g.log.WithError(err).Warn("Invalid house rules, playing with defaults")
		return engine.DefaultHouseRules()
	}
	return rules
}

// snapshotToRemote decodes a wire snapshot. Every decoding failure wraps
// engine.ErrDesync.
func snapshotToRemote(snap *models.ServerSnapshot) (engine.RemoteState, error) {
	var rs engine.RemoteState
	desync := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", engine.ErrDesync, fmt.Sprintf(format, args...))
	}

	for s, hand := range snap.HandsBySeat {
		cards, err := recordsToEngineCards(hand)
		if err != nil {
			return rs, desync("seat %d hand: %v", s, err)
		}
		rs.Hands[s] = cards
	}
	deck, err := recordsToEngineCards(snap.Deck)
	if err != nil {
		return rs, desync("deck: %v", err)
	}
	rs.Deck = deck

	rs.TrumpCard = engine.EmptyCard
	if snap.TrumpCard != nil {
		if rs.TrumpCard, err = recordToEngineCard(*snap.TrumpCard); err != nil {
			return rs, desync("trump card: %v", err)
		}
	}
	switch {
	case snap.TrumpSuit != "":
		if rs.TrumpSuit, err = engine.ParseSuit(snap.TrumpSuit); err != nil {
			return rs, desync("trump suit: %v", err)
		}
	case rs.TrumpCard.Valid():
		rs.TrumpSuit = rs.TrumpCard.Suit()
	default:
		return rs, desync("snapshot has no trump")
	}

	if snap.CurrentPlayerIndex < 0 || snap.CurrentPlayerIndex >= engine.NumPlayers ||
		snap.DealerIndex < 0 || snap.DealerIndex >= engine.NumPlayers {
		return rs, desync("seat index out of range (current %d, dealer %d)", snap.CurrentPlayerIndex, snap.DealerIndex)
	}
	rs.CurrentPlayer = uint8(snap.CurrentPlayerIndex)
	rs.Dealer = uint8(snap.DealerIndex)

	for _, tc := range snap.TableCards {
		if tc.Position < 0 || tc.Position >= engine.NumPlayers {
			return rs, desync("table position %d", tc.Position)
		}
		c, err := recordToEngineCard(tc.Card)
		if err != nil {
			return rs, desync("table card: %v", err)
		}
		rs.Table = append(rs.Table, engine.TrickCard{Player: uint8(tc.Position), Card: c})
	}

	if snap.Phase != "" {
		if p, err := engine.ParsePhase(snap.Phase); err == nil {
			rs.Phase, rs.HasPhase = p, true
		}
	}

	rs.Scores = snap.TeamScores
	rs.CardPoints = snap.TeamCardPoints
	rs.IsVueltas = snap.IsVueltas
	if m := snap.MatchScore; m != nil {
		rs.Match = &engine.MatchScore{
			Team1Partidas:   m.Team1Partidas,
			Team2Partidas:   m.Team2Partidas,
			Team1Cotos:      m.Team1Cotos,
			Team2Cotos:      m.Team2Cotos,
			CotosPerMatch:   uint8(m.CotosPerMatch),
			PartidasPerCoto: uint8(m.PartidasPerCoto),
		}
	}
	if w := snap.WinnerTeam; w != nil {
		if *w < 0 || *w >= engine.NumTeams {
			return rs, desync("winner team %d", *w)
		}
		team := uint8(*w)
		rs.Winner = &team
	}
	return rs, nil
}

// seatMapFor resolves server seats to local seats. Without seat assignments
// the server's seats are used as they are; otherwise the map rotates so the
// local player's server seat lands on their local seat. Other seats are
// re-bound to the identities the server reports.
// Assumes lock is held by caller.
func (g *GuinoteGame) seatMapFor(snap *models.ServerSnapshot) (engine.SeatMap, error) {
	if len(snap.Seats) == 0 {
		return engine.IdentitySeatMap(), nil
	}
	online, ok := g.Mode.(OnlineMode)
	if !ok {
		return engine.IdentitySeatMap(), nil
	}
	me := g.playerIDAt(online.Seat)
	mine := -1
	for _, a := range snap.Seats {
		if a.Seat < 0 || a.Seat >= engine.NumPlayers {
			return engine.SeatMap{}, fmt.Errorf("%w: seat assignment %d", engine.ErrDesync, a.Seat)
		}
		if a.PlayerID == me {
			mine = a.Seat
		}
	}
	if mine < 0 {
		return engine.SeatMap{}, fmt.Errorf("%w: player %s not seated in snapshot", engine.ErrDesync, me)
	}
	m := engine.RotatedSeatMap(uint8(mine))
	for s := range m {
		m[s] = (m[s] + online.Seat) % engine.NumPlayers
	}
	for _, a := range snap.Seats {
		local := m[a.Seat]
		if local == online.Seat {
			continue
		}
		if p := g.Players[local]; p == nil || p.ID != a.PlayerID {
			g.Players[local] = &models.Player{ID: a.PlayerID, Seat: int(local), Connected: true}
		}
	}
	return m, nil
}

// applySnapshot is the reconciler's apply step.
// Assumes lock is held by caller.
func (g *GuinoteGame) applySnapshot(snap *models.ServerSnapshot) error {
	rs, err := snapshotToRemote(snap)
	if err != nil {
		g.log.WithError(err).Warnf("Snapshot v%d could not be decoded", snap.Version)
		return err
	}
	seats, err := g.seatMapFor(snap)
	if err != nil {
		g.log.WithError(err).Warnf("Snapshot v%d seats could not be resolved", snap.Version)
		return err
	}
	prev := g.Engine
	diff, err := g.Engine.ApplyRemote(rs, seats)
	if err != nil {
		g.log.WithError(err).Warnf("Snapshot v%d rejected by engine", snap.Version)
		return err
	}
	if g.Reloading {
		g.Reloading = false
		g.log.Infof("Resynchronised at v%d", snap.Version)
	}
	g.log.Debugf("Applied snapshot v%d (%+v)", snap.Version, diff)
	payload := map[string]interface{}{
		"version":        snap.Version,
		"trickCompleted": diff.TrickCompleted,
		"newDeal":        diff.NewDeal,
		"phaseChanged":   diff.PhaseChanged,
	}
	if snap.LastAction != nil {
		payload["lastAction"] = remoteActionPayload(snap.LastAction, seats)
	}
	g.fireEvent(GameEvent{Type: EventSyncApplied, Payload: payload})
	g.emitTransition(&prev)
	return nil
}

// remoteActionPayload describes the server's last action in local seats.
func remoteActionPayload(la *models.SnapshotAction, seats engine.SeatMap) map[string]interface{} {
	out := map[string]interface{}{"type": la.Type}
	if la.PlayerIndex >= 0 && la.PlayerIndex < engine.NumPlayers {
		out["seat"] = seats.Local(uint8(la.PlayerIndex))
	}
	if la.Card != nil {
		if c, err := recordToEngineCard(*la.Card); err == nil {
			out["card"] = engineCardToDetails(c)
		}
	}
	if la.Suit != "" {
		out["suit"] = la.Suit
	}
	return out
}

// offerSnapshot routes snap through the reconciler and handles the outcome.
// Assumes lock is held by caller.
func (g *GuinoteGame) offerSnapshot(snap *models.ServerSnapshot) Outcome {
	out := g.reconciler.Offer(snap, g.Engine.AnimationBusy(), g.applySnapshot)
	g.afterReconcile(out, snap.Version)
	return out
}

// flushPending applies a buffered snapshot once animations are idle.
// Assumes lock is held by caller.
func (g *GuinoteGame) flushPending() {
	version, _ := g.reconciler.Pending()
	if out, ok := g.reconciler.Flush(g.Engine.AnimationBusy(), g.applySnapshot); ok {
		g.afterReconcile(out, version)
	}
}

func (g *GuinoteGame) afterReconcile(out Outcome, version int64) {
	switch out {
	case OutcomeApplied:
		g.onStateChanged()
	case OutcomeDeferred:
		g.log.Debugf("Snapshot v%d deferred until animation completes", version)
	case OutcomeStale:
		g.log.Debugf("Dropped stale snapshot v%d (applied v%d)", version, g.reconciler.LastApplied())
	case OutcomeDesync:
		g.enterReloading(version)
	}
}

// enterReloading marks the local view untrusted and asks for a full snapshot.
// Assumes lock is held by caller.
func (g *GuinoteGame) enterReloading(version int64) {
	g.stopTurnTimer()
	if !g.Reloading {
		g.Reloading = true
		g.fireEvent(GameEvent{
			Type:    EventReloadingState,
			Payload: map[string]interface{}{"version": version},
		})
	}
	g.logAction(uuid.Nil, string(EventReloadingState), map[string]interface{}{"version": version})
	g.requestSync("desync")
}

// requestSync asks the authority for a full snapshot in the background.
// Assumes lock is held by caller.
func (g *GuinoteGame) requestSync(reason string) {
	since := g.reconciler.LastApplied()
	g.mirror(uuid.Nil, "request_sync", func(ctx context.Context, a Authority) error {
		return a.RequestSync(ctx, since)
	})
	g.log.Debugf("Requested sync (%s) since v%d", reason, since)
}

// mirror forwards an operation to the authority without waiting for it.
// Failures are logged; the session keeps its last known good state.
// Assumes lock is held by caller.
func (g *GuinoteGame) mirror(actorID uuid.UUID, op string, call func(ctx context.Context, a Authority) error) bool {
	if g.Authority == nil {
		g.log.Warnf("No authority configured, cannot send %s", op)
		return false
	}
	a, timeout, log := g.Authority, g.RemoteTimeout, g.log
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := call(ctx, a); err != nil {
			log.WithError(err).Warnf("Remote %s failed", op)
		}
	}()
	if actorID != uuid.Nil {
		g.logAction(actorID, "mirror_"+op, nil)
	}
	return true
}

// applyLocal runs op against the engine on behalf of actor, emitting
// events on success and a private rejection otherwise.
// Assumes lock is held by caller.
func (g *GuinoteGame) applyLocal(actorID uuid.UUID, action string, op func(e *engine.GameState) error) bool {
	prev := g.Engine
	if err := op(&g.Engine); err != nil {
		g.rejectMove(actorID, action, err)
		return false
	}
	g.logAction(actorID, action, map[string]interface{}{"lastAction": g.Engine.LastAction.Type.String()})
	g.emitTransition(&prev)
	g.onStateChanged()
	return true
}

// applyAck runs an animation acknowledgment, then applies any buffered
// snapshot the animation was holding back.
// Assumes lock is held by caller.
func (g *GuinoteGame) applyAck(action string, op func(e *engine.GameState) error) bool {
	prev := g.Engine
	if err := op(&g.Engine); err != nil {
		g.log.Debugf("%s ignored: %v", action, err)
		return false
	}
	g.emitTransition(&prev)
	g.flushPending()
	g.onStateChanged()
	return true
}

// rejectMove tells actor their operation did not register.
func (g *GuinoteGame) rejectMove(actorID uuid.UUID, action string, err error) {
	g.log.Debugf("Rejected %s from %s: %v", action, actorID, err)
	g.fireEventToPlayer(actorID, GameEvent{
		Type: EventPrivateIllegalMove,
		Payload: map[string]interface{}{
			"action":  action,
			"message": err.Error(),
			"code":    errorCode(err),
		},
	})
}

// errorCode maps an engine error onto a stable code for clients.
func errorCode(err error) string {
	for _, c := range []struct {
		err  error
		code string
	}{
		{engine.ErrNotYourTurn, "not_your_turn"},
		{engine.ErrCardNotInHand, "card_not_in_hand"},
		{engine.ErrIllegalPlay, "illegal_play"},
		{engine.ErrWrongPhase, "wrong_phase"},
		{engine.ErrAnimationPending, "animation_pending"},
		{engine.ErrCanteNotAllowed, "cante_not_allowed"},
		{engine.ErrExchangeNotAllowed, "exchange_not_allowed"},
		{engine.ErrGameOver, "game_over"},
		{engine.ErrMatchOver, "match_over"},
		{errSessionClosed, "session_closed"},
		{errNotSeated, "not_seated"},
		{errNotLocal, "not_local_seat"},
	} {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "invalid"
}

// emitTransition broadcasts what changed between prev and the current state.
// It serves local operations and applied snapshots alike.
// Assumes lock is held by caller.
func (g *GuinoteGame) emitTransition(prev *engine.GameState) {
	cur := &g.Engine
	newDeal := (cur.Phase == engine.PhaseDealing && (prev.Phase != engine.PhaseDealing || prev.CardsInPlay() == 0)) ||
		cur.TrickCount < prev.TrickCount

	if newDeal {
		g.fireEvent(GameEvent{
			Type: EventDealStarted,
			User: g.userAt(cur.Dealer),
			Payload: map[string]interface{}{
				"dealer":    cur.Dealer,
				"vueltas":   cur.IsVueltas,
				"trumpSuit": engine.SuitName(cur.TrumpSuit),
				"trumpCard": engineCardToDetails(cur.TrumpCard),
			},
		})
		g.logAction(uuid.Nil, string(EventDealStarted), map[string]interface{}{"dealer": cur.Dealer, "vueltas": cur.IsVueltas})
		g.sendSyncStateToAll()
	} else {
		g.emitPlays(prev, cur)
		g.emitDraws(prev, cur)
	}

	g.emitCantes(prev, cur)

	if cur.TrumpExchanged && !prev.TrumpExchanged {
		seat := cur.CurrentPlayer
		if cur.LastAction.Type == engine.ActionCambiar7 {
			seat = cur.LastAction.Player
		}
		g.fireEvent(GameEvent{
			Type:    EventTrumpExchanged,
			User:    g.userAt(seat),
			Card:    engineCardToDetails(cur.TrumpCard),
			Payload: map[string]interface{}{"taken": engineCardToDetails(prev.TrumpCard)},
		})
	}

	if cur.Phase != prev.Phase {
		g.log.Infof("Phase %s -> %s", prev.Phase, cur.Phase)
		payload := map[string]interface{}{"from": prev.Phase.String(), "to": cur.Phase.String()}
		if cur.Phase == engine.PhaseScoring {
			payload["scores"] = [engine.NumTeams]int{cur.Teams[0].Score, cur.Teams[1].Score}
			payload["cardPoints"] = [engine.NumTeams]int{cur.Teams[0].CardPoints, cur.Teams[1].CardPoints}
			if w, ok := cur.PendingWinner(); ok {
				payload["pendingWinner"] = w
			}
		}
		g.fireEvent(GameEvent{Type: EventPhaseChanged, Payload: payload})
	}

	if cur.Phase == engine.PhaseGameOver && prev.Phase != engine.PhaseGameOver {
		g.endGame()
	}
}

// emitPlays announces every card that reached the table since prev.
func (g *GuinoteGame) emitPlays(prev, cur *engine.GameState) {
	onTable := func(tc engine.TrickCard) bool {
		for _, p := range prev.Trick.Plays() {
			if p == tc {
				return true
			}
		}
		return false
	}
	var plays []engine.TrickCard
	if cur.TrickCount > prev.TrickCount {
		plays = append(plays, cur.LastTrick.Plays()...)
	}
	plays = append(plays, cur.Trick.Plays()...)
	for _, tc := range plays {
		if onTable(tc) {
			continue
		}
		g.fireEvent(GameEvent{
			Type: EventCardPlayed,
			User: g.userAt(tc.Player),
			Card: engineCardToDetails(tc.Card),
		})
	}

	if cur.TrickCount > prev.TrickCount && cur.LastTrickWinner >= 0 {
		winner := uint8(cur.LastTrickWinner)
		points := engine.TrickPoints(&cur.LastTrick)
		lastTrick := cur.TrickCount == engine.NumTricks
		if lastTrick {
			points += engine.LastTrickBonus
		}
		g.fireEvent(GameEvent{
			Type: EventTrickWon,
			User: g.userAt(winner),
			Payload: map[string]interface{}{
				"team":      engine.TeamOf(winner),
				"points":    points,
				"trick":     cur.TrickCount,
				"lastTrick": lastTrick,
			},
		})
		g.logAction(g.playerIDAt(winner), string(EventTrickWon), map[string]interface{}{"points": points, "trick": cur.TrickCount})
	}
}

// emitDraws tells each seat privately which cards it drew.
func (g *GuinoteGame) emitDraws(prev, cur *engine.GameState) {
	for s := uint8(0); s < engine.NumPlayers; s++ {
		before := prev.Hand(s)
		for _, c := range cur.Hand(s) {
			held := false
			for _, b := range before {
				if b == c {
					held = true
					break
				}
			}
			if held || (cur.TrumpExchanged && !prev.TrumpExchanged && c == prev.TrumpCard) {
				continue
			}
			g.fireEventToSeat(s, GameEvent{
				Type:    EventPrivateCardDrawn,
				Card:    engineCardToDetails(c),
				Payload: map[string]interface{}{"deckSize": cur.DeckLen},
			})
		}
	}
}

// emitCantes announces new cantes and trump cantes revealed at scoring. A
// hidden cante is public in existence only; its owner's team gets the detail.
func (g *GuinoteGame) emitCantes(prev, cur *engine.GameState) {
	for t := uint8(0); t < engine.NumTeams; t++ {
		before, after := &prev.Teams[t], &cur.Teams[t]
		for i := uint8(0); i < after.NumCantes; i++ {
			c := after.Cantes[i]
			isNew := i >= before.NumCantes
			revealed := !isNew && c.Visible && !before.Cantes[i].Visible
			if !isNew && !revealed {
				continue
			}
			seat := t
			if isNew && cur.LastAction.Type == engine.ActionCantar && engine.TeamOf(cur.LastAction.Player) == t {
				seat = cur.LastAction.Player
			}
			payload := map[string]interface{}{"team": t, "revealed": revealed, "hidden": !c.Visible}
			if c.Visible {
				payload["suit"] = engine.SuitName(c.Suit)
				payload["points"] = c.Points
			}
			g.fireEvent(GameEvent{Type: EventCante, User: g.userAt(seat), Payload: payload})
			if !c.Visible {
				private := GameEvent{
					Type:    EventPrivateCante,
					User:    g.userAt(seat),
					Payload: map[string]interface{}{"team": t, "suit": engine.SuitName(c.Suit), "points": c.Points},
				}
				g.fireEventToSeat(t, private)
				g.fireEventToSeat(t+engine.NumTeams, private)
			}
		}
	}
}

// onStateChanged issues a new TurnID when the turn moved, announces it and
// reschedules the turn timer.
// Assumes lock is held by caller.
func (g *GuinoteGame) onStateChanged() {
	if g.closed {
		return
	}
	key := turnKey{
		phase:   g.Engine.Phase,
		current: g.Engine.CurrentPlayer,
		busy:    g.Engine.AnimationBusy(),
		tricks:  g.Engine.TrickCount,
		played:  g.Engine.Trick.Len,
	}
	if key == g.turnKey {
		return
	}
	g.turnKey = key
	g.TurnID++
	g.stopTurnTimer()
	if !key.phase.InPlay() || key.busy || g.Reloading {
		return
	}
	g.broadcastPlayerTurn()
	g.scheduleNextTurnTimer()
}

// broadcastPlayerTurn notifies all players of the current player's turn.
func (g *GuinoteGame) broadcastPlayerTurn() {
	seat := g.Engine.CurrentPlayer
	g.fireEvent(GameEvent{
		Type: EventGamePlayerTurn,
		User: g.userAt(seat),
		Payload: map[string]interface{}{
			"turn":      g.TurnID,
			"phase":     g.Engine.Phase.String(),
			"canCantar": len(g.cantableSuits(seat)) > 0,
			"cambiar7":  g.canCambiar7(seat),
		},
	})
}

func (g *GuinoteGame) stopTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
}

// scheduleNextTurnTimer arms the turn timer for the current seat. Only a
// local-authoritative table times out turns; online the server does.
// Assumes lock is held by caller.
func (g *GuinoteGame) scheduleNextTurnTimer() {
	g.stopTurnTimer()
	if g.TurnDuration <= 0 || !g.Mode.LocalAuthoritative() {
		return
	}
	if !g.Engine.Phase.InPlay() || g.Engine.AnimationBusy() {
		return
	}

	curTurnID := g.TurnID
	seat := g.Engine.CurrentPlayer
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		go func(expectedTurnID int) {
			g.Mu.Lock()
			defer g.Mu.Unlock()

			if !g.closed && g.TurnID == expectedTurnID {
				g.log.Infof("Turn %d: timer fired for seat %d", g.TurnID, seat)
				g.handleTimeout(seat)
			}
		}(curTurnID)
	})
}

// handleTimeout plays the first legal card for a seat whose time ran out.
// Assumes lock is held by caller.
func (g *GuinoteGame) handleTimeout(seat uint8) {
	actor := g.playerIDAt(seat)
	g.logAction(actor, "player_timeout", map[string]interface{}{"turn": g.TurnID, "seat": seat})
	card, ok := g.Engine.ForcedPlay(seat)
	if !ok {
		g.log.Warnf("Seat %d timed out with no legal card", seat)
		return
	}
	g.applyLocal(actor, "forced_play", func(e *engine.GameState) error {
		return e.PlayCard(seat, card)
	})
}

// cantableSuits lists the suits seat could sing right now.
func (g *GuinoteGame) cantableSuits(seat uint8) []uint8 {
	e := &g.Engine
	if !e.Phase.InPlay() || !e.Trick.Empty() || e.CurrentPlayer != seat {
		return nil
	}
	if e.TrickCount == 0 {
		if seat != e.FirstLeader() {
			return nil
		}
	} else if e.LastTrickWinner != int8(seat) {
		return nil
	}
	return engine.CantableSuits(e.Hand(seat), e.TrumpSuit, &e.Teams[engine.TeamOf(seat)])
}

func (g *GuinoteGame) canCambiar7(seat uint8) bool {
	e := &g.Engine
	if !e.Phase.InPlay() || e.CurrentPlayer != seat || !e.Trick.Empty() {
		return false
	}
	return engine.CanExchangeTrumpSeven(e.Hand(seat), e.TrumpCard, e.DeckLen, e.TrumpExchanged)
}
