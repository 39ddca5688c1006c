package engine

import "fmt"

// RemoteState is the decoded form of an authoritative snapshot, indexed by
// server seat. Optional fields left nil keep the local value.
type RemoteState struct {
	Hands         [NumPlayers][]Card
	Deck          []Card // draw order, Deck[0] is drawn next
	TrumpCard     Card   // EmptyCard once the face-up trump has been drawn
	TrumpSuit     uint8
	CurrentPlayer uint8
	Dealer        uint8
	Table         []TrickCard // plays in play order, server seats
	Phase         Phase
	HasPhase      bool

	// Team-indexed by server team (the team of server seats 0 and 1).
	Scores     *[NumTeams]int
	CardPoints *[NumTeams]int
	IsVueltas  *bool
	Match      *MatchScore
	Winner     *uint8 // winning server team once the deal is over
}

// SeatMap maps a server seat index to the local seat index. The caller
// resolves player identities; the engine only applies the permutation.
type SeatMap [NumPlayers]uint8

// IdentitySeatMap maps every server seat to the same local seat.
func IdentitySeatMap() SeatMap { return SeatMap{0, 1, 2, 3} }

// RotatedSeatMap returns the map that puts server seat mine at local seat 0,
// keeping the counter-clockwise order.
func RotatedSeatMap(mine uint8) SeatMap {
	var m SeatMap
	for s := uint8(0); s < NumPlayers; s++ {
		m[s] = (s + NumPlayers - mine%NumPlayers) % NumPlayers
	}
	return m
}

// Local returns the local seat of server seat s.
func (m SeatMap) Local(s uint8) uint8 { return m[s] }

// LocalTeam returns the local team index of server team t.
func (m SeatMap) LocalTeam(t uint8) uint8 { return TeamOf(m[t]) }

func (m SeatMap) validate() error {
	var seen [NumPlayers]bool
	for _, l := range m {
		if l >= NumPlayers || seen[l] {
			return fmt.Errorf("%w: seat map %v is not a permutation", ErrDesync, m)
		}
		seen[l] = true
	}
	for s := uint8(0); s < NumTeams; s++ {
		if TeamOf(m[s]) != TeamOf(m[s+NumTeams]) {
			return fmt.Errorf("%w: seat map %v splits partners", ErrDesync, m)
		}
	}
	return nil
}

// RemoteDiff summarises what an applied snapshot changed, so the session can
// start the matching animations.
type RemoteDiff struct {
	TrickCompleted bool
	NewDeal        bool
	Drew           bool
	PhaseChanged   bool
}

// ApplyRemote replaces the local view with rs. The snapshot is validated
// first; on failure ErrDesync is returned and g is untouched. Cards that stay
// in a local hand keep their local order; new cards are appended.
//
// A table holding four cards is a resolved trick the server has not cleared
// yet. It is counted as collected and shown through LastTrick.
func (g *GameState) ApplyRemote(rs RemoteState, seats SeatMap) (RemoteDiff, error) {
	var diff RemoteDiff
	if err := seats.validate(); err != nil {
		return diff, err
	}
	if err := rs.validate(); err != nil {
		return diff, err
	}

	handTotal := 0
	for s := range rs.Hands {
		handTotal += len(rs.Hands[s])
	}
	played := DeckSize - handTotal - len(rs.Deck) - len(rs.Table)
	if played < 0 || played%NumPlayers != 0 {
		return diff, fmt.Errorf("%w: %d cards unaccounted for", ErrDesync, played)
	}
	trickCount := uint8(played / NumPlayers)
	table := rs.Table
	var resolved Trick
	if len(table) == NumPlayers {
		for _, tc := range table {
			resolved.add(seats.Local(tc.Player), tc.Card)
		}
		trickCount++
		table = nil
	}
	if trickCount > NumTricks {
		return diff, fmt.Errorf("%w: %d tricks played", ErrDesync, trickCount)
	}

	phase := rs.Phase
	if !rs.HasPhase {
		switch {
		case len(rs.Deck) > 0:
			phase = PhasePlaying
		case handTotal == 0 && len(table) == 0:
			phase = PhaseScoring
		default:
			phase = PhaseArrastre
		}
	}

	fresh := g.CardsInPlay() == 0
	restarted := (g.Phase == PhaseScoring || g.Phase == PhaseGameOver) && phase.InPlay()
	diff.NewDeal = fresh || restarted || trickCount < g.TrickCount
	diff.TrickCompleted = !diff.NewDeal && (trickCount > g.TrickCount || resolved.Complete())
	diff.Drew = !diff.NewDeal && len(rs.Deck) < int(g.DeckLen)

	next := *g
	for s := range rs.Hands {
		local := seats.Local(uint8(s))
		next.Players[local] = mergeHand(&g.Players[local], rs.Hands[s])
	}

	for i := range next.Deck {
		next.Deck[i] = EmptyCard
	}
	next.DeckLen = uint8(len(rs.Deck))
	for i, c := range rs.Deck {
		next.Deck[len(rs.Deck)-1-i] = c
	}
	next.TrumpSuit = rs.TrumpSuit
	next.TrumpCard = rs.TrumpCard
	if len(rs.Deck) == 0 {
		next.TrumpCard = EmptyCard
	}

	next.Trick.clear()
	for _, tc := range table {
		next.Trick.add(seats.Local(tc.Player), tc.Card)
	}
	next.CurrentPlayer = seats.Local(rs.CurrentPlayer)
	next.Dealer = seats.Local(rs.Dealer)
	next.TrickCount = trickCount
	next.Phase = phase

	if rs.Scores != nil {
		for t := uint8(0); t < NumTeams; t++ {
			next.Teams[seats.LocalTeam(t)].Score = rs.Scores[t]
		}
	}
	if rs.CardPoints != nil {
		for t := uint8(0); t < NumTeams; t++ {
			next.Teams[seats.LocalTeam(t)].CardPoints = rs.CardPoints[t]
		}
	}
	if rs.IsVueltas != nil {
		next.IsVueltas = *rs.IsVueltas
	}
	if rs.Match != nil {
		next.Match = *rs.Match
		if seats.LocalTeam(0) != 0 {
			next.Match.Team1Partidas, next.Match.Team2Partidas = rs.Match.Team2Partidas, rs.Match.Team1Partidas
			next.Match.Team1Cotos, next.Match.Team2Cotos = rs.Match.Team2Cotos, rs.Match.Team1Cotos
		}
		_, next.MatchOver = next.Match.Winner()
	}

	switch {
	case diff.NewDeal:
		next.LastTrick.clear()
		next.CollectedTricks = [NumPlayers]uint8{}
		next.LastTrickWinner = NoSeat
		next.TrumpExchanged = false
		next.TrickAnimating = false
		next.PendingTrickWinner = NoSeat
		next.PostTrickDealingAnimating = false
		if trickCount == 0 && len(table) == 0 && phase.InPlay() {
			next.Phase = PhaseDealing
		}
	case diff.TrickCompleted:
		winner := next.CurrentPlayer
		next.LastTrick = g.completedTrick(&next, trickCount)
		if resolved.Complete() {
			next.LastTrick = resolved
			winner = TrickWinner(&resolved, rs.TrumpSuit)
		}
		next.LastTrickWinner = int8(winner)
		next.PendingTrickWinner = int8(winner)
		next.TrickAnimating = next.LastTrick.Len > 0
		next.CollectedTricks[winner] += trickCount - g.TrickCount
		next.PostTrickDealingAnimating = diff.Drew
	}
	next.fixCollected()
	switch next.Phase {
	case PhaseScoring:
		next.revealCantes()
		next.Winner = NoSeat
	case PhaseGameOver:
		next.revealCantes()
		switch {
		case rs.Winner != nil:
			next.Winner = int8(seats.LocalTeam(*rs.Winner))
		case g.Phase == PhaseGameOver && g.Winner >= 0:
			// already decided locally
		default:
			if next.Winner = next.decideWinner(); next.Winner < 0 {
				next.Winner = next.leader()
			}
		}
	default:
		next.Winner = NoSeat
	}
	if next.TrumpCard.Valid() && next.TrumpCard.Suit() == next.TrumpSuit &&
		next.TrumpCard.Rank() == RankSiete && g.TrumpCard != next.TrumpCard && !diff.NewDeal {
		next.TrumpExchanged = true
	}
	diff.PhaseChanged = next.Phase != g.Phase

	next.LastAction = LastActionInfo{Type: ActionRemoteSync, Player: next.CurrentPlayer}
	if err := next.CheckInvariant(); err != nil {
		return RemoteDiff{}, err
	}
	*g = next
	return diff, nil
}

// completedTrick rebuilds the trick that next resolved out of the local
// in-flight plays. When exactly one trick passed, each missing play is the
// card that left the seat's hand. Otherwise only the known plays are kept.
func (g *GameState) completedTrick(next *GameState, trickCount uint8) Trick {
	tr := g.Trick
	if tr.Empty() || trickCount != g.TrickCount+1 {
		return tr
	}
	seat := NextSeat(tr.Cards[tr.Len-1].Player)
	for !tr.Complete() {
		gone := EmptyCard
		for _, c := range g.Players[seat].Cards() {
			if !next.Players[seat].has(c) {
				gone = c
				break
			}
		}
		if gone == EmptyCard {
			return g.Trick
		}
		tr.add(seat, gone)
		seat = NextSeat(seat)
	}
	return tr
}

// fixCollected keeps per-seat collected tricks summing to TrickCount when
// the snapshot does not carry them. The difference goes to the current leader.
func (g *GameState) fixCollected() {
	var sum uint8
	for _, c := range g.CollectedTricks {
		sum += c
	}
	switch {
	case sum == g.TrickCount:
		return
	case sum < g.TrickCount:
		g.CollectedTricks[g.CurrentPlayer] += g.TrickCount - sum
	default:
		g.CollectedTricks = [NumPlayers]uint8{}
		g.CollectedTricks[g.CurrentPlayer] = g.TrickCount
	}
}

// mergeHand returns remote as a hand, keeping the local order of cards that
// are still held and appending new ones in remote order.
func mergeHand(local *PlayerState, remote []Card) PlayerState {
	var out PlayerState
	for i := range out.Hand {
		out.Hand[i] = EmptyCard
	}
	held := func(c Card) bool {
		for _, r := range remote {
			if r == c {
				return true
			}
		}
		return false
	}
	for i := uint8(0); i < local.HandLen; i++ {
		if c := local.Hand[i]; held(c) {
			out.push(c)
		}
	}
	for _, c := range remote {
		if !out.has(c) {
			out.push(c)
		}
	}
	return out
}

func (rs *RemoteState) validate() error {
	if rs.CurrentPlayer >= NumPlayers || rs.Dealer >= NumPlayers {
		return fmt.Errorf("%w: seat index out of range", ErrDesync)
	}
	if rs.TrumpSuit >= NumSuits {
		return fmt.Errorf("%w: invalid trump suit %d", ErrDesync, rs.TrumpSuit)
	}
	if len(rs.Deck) > DeckSize-NumPlayers*MaxHandSize {
		return fmt.Errorf("%w: deck has %d cards", ErrDesync, len(rs.Deck))
	}
	if rs.Winner != nil && *rs.Winner >= NumTeams {
		return fmt.Errorf("%w: invalid winning team %d", ErrDesync, *rs.Winner)
	}
	if len(rs.Table) > NumPlayers {
		return fmt.Errorf("%w: %d cards on the table", ErrDesync, len(rs.Table))
	}
	var seen [256]bool
	mark := func(c Card) error {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %#x", ErrDesync, uint8(c))
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %s", ErrDesync, c)
		}
		seen[c] = true
		return nil
	}
	for s, hand := range rs.Hands {
		if len(hand) > MaxHandSize {
			return fmt.Errorf("%w: seat %d holds %d cards", ErrDesync, s, len(hand))
		}
		for _, c := range hand {
			if err := mark(c); err != nil {
				return err
			}
		}
	}
	for _, c := range rs.Deck {
		if err := mark(c); err != nil {
			return err
		}
	}
	var positions [NumPlayers]bool
	for _, tc := range rs.Table {
		if tc.Player >= NumPlayers || positions[tc.Player] {
			return fmt.Errorf("%w: table position %d", ErrDesync, tc.Player)
		}
		positions[tc.Player] = true
		if err := mark(tc.Card); err != nil {
			return err
		}
	}
	return nil
}
