// Package engine implements the Guiñote card game rules.
//
// The engine is synchronous and allocation-light: GameState is a flat value
// type that the owning session mutates through methods returning an error.
// An operation that returns an error never mutates the state, so callers can
// surface rejections without rolling anything back.
package engine

import "fmt"

const (
	NumPlayers  = 4
	NumTeams    = 2
	NumSuits    = 4
	DeckSize    = 40
	MaxHandSize = 6
	NumTricks   = DeckSize / NumPlayers

	WinningScore     = 101
	MinCardPoints    = 30
	CantePoints      = 20
	CanteTrumpPoints = 40
	LastTrickBonus   = 10
	TotalDealPoints  = 130 // 120 card points + last-trick bonus
)

// NoSeat marks an unset seat or team in int8 fields.
const NoSeat int8 = -1

// GameState holds the complete, self-contained state of one Guiñote deal
// together with the match score it contributes to.
type GameState struct {
	Players [NumPlayers]PlayerState
	Teams   [NumTeams]Team

	// Deck is drawn from the top (Deck[DeckLen-1]). The face-up trump card
	// sits at the bottom, Deck[0], and is the last card drawn.
	Deck      [DeckSize]Card
	DeckLen   uint8
	TrumpSuit uint8
	TrumpCard Card

	Trick           Trick
	LastTrick       Trick // resolved trick kept on display while TrickAnimating
	CurrentPlayer   uint8
	Dealer          uint8
	TrickCount      uint8
	CollectedTricks [NumPlayers]uint8 // tricks won per seat this deal
	LastTrickWinner int8

	Phase             Phase
	IsVueltas         bool
	InitialScores     [NumTeams]int // score snapshot taken when vueltas start
	InitialCardPoints [NumTeams]int
	TrumpExchanged    bool
	Winner            int8 // winning team once PhaseGameOver

	Match     MatchScore
	MatchOver bool

	// Animation markers. The engine never clears these on its own.
	TrickAnimating            bool
	PendingTrickWinner        int8
	PostTrickDealingAnimating bool

	LastAction LastActionInfo
	RNG        uint64
	Rules      HouseRules
}

// TeamOf returns the team of a seat. Seats 0 and 2 form team 0.
func TeamOf(seat uint8) uint8 { return seat % NumTeams }

// OpponentTeam returns the other team.
func OpponentTeam(team uint8) uint8 { return 1 - team }

// NextSeat returns the seat counter-clockwise of seat, which is the order of
// play and of drawing.
func NextSeat(seat uint8) uint8 { return (seat + NumPlayers - 1) % NumPlayers }

// ---------------------------------------------------------------------------
// xorshift64 RNG, inline, no interface
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a new match with the given seed and rules.
// The first deal is not made until Deal is called.
func NewGame(seed uint64, rules HouseRules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.Match = NewMatchScore(rules)
	g.Winner = NoSeat
	g.LastTrickWinner = NoSeat
	g.PendingTrickWinner = NoSeat
	g.TrumpCard = EmptyCard
	g.Dealer = uint8(g.randN(NumPlayers))
	return g
}

// FirstLeader returns the seat that leads the first trick of a deal: the
// seat immediately counter-clockwise of the dealer.
func (g *GameState) FirstLeader() uint8 { return NextSeat(g.Dealer) }

// Deal shuffles a fresh deck, hands out MaxHandSize cards per seat starting
// with the first leader and turns the bottom card face up as trump.
// Team scores are not touched; see NextDeal and ContinueFromScoring.
func (g *GameState) Deal() {
	idx := 0
	for _, suit := range Suits {
		for _, rank := range Ranks {
			g.Deck[idx] = NewCard(suit, rank)
			idx++
		}
	}
	g.DeckLen = DeckSize

	// Fisher-Yates shuffle.
	for i := int(g.DeckLen) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	}

	for p := range g.Players {
		g.Players[p] = PlayerState{}
		for i := range g.Players[p].Hand {
			g.Players[p].Hand[i] = EmptyCard
		}
	}

	seat := g.FirstLeader()
	for c := 0; c < MaxHandSize; c++ {
		for n := 0; n < NumPlayers; n++ {
			g.DeckLen--
			g.Players[seat].push(g.Deck[g.DeckLen])
			g.Deck[g.DeckLen] = EmptyCard
			seat = NextSeat(seat)
		}
	}

	g.TrumpCard = g.Deck[0]
	g.TrumpSuit = g.TrumpCard.Suit()

	g.Trick.clear()
	g.LastTrick.clear()
	g.CollectedTricks = [NumPlayers]uint8{}
	g.TrickCount = 0
	g.LastTrickWinner = NoSeat
	g.TrumpExchanged = false
	g.CurrentPlayer = g.FirstLeader()
	g.Phase = PhaseDealing
	g.TrickAnimating = false
	g.PendingTrickWinner = NoSeat
	g.PostTrickDealingAnimating = false
	for t := range g.Teams {
		g.Teams[t].Cantes = [NumSuits]Cante{}
		g.Teams[t].NumCantes = 0
		g.Teams[t].TricksWon = 0
	}

	g.LastAction = LastActionInfo{Type: ActionDeal, Player: g.Dealer, Card: g.TrumpCard}
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsTerminal returns true when the deal is over.
func (g *GameState) IsTerminal() bool { return g.Phase == PhaseGameOver }

// AnimationBusy reports whether the local view is mid-animation: dealing not
// yet acknowledged, a resolved trick on display, or post-trick draws in flight.
func (g *GameState) AnimationBusy() bool {
	return g.dealing() || g.TrickAnimating || g.PostTrickDealingAnimating
}

// dealing reports a dealt hand whose animation is not yet acknowledged. A
// fresh state before its first deal is in PhaseDealing with no cards.
func (g *GameState) dealing() bool {
	return g.Phase == PhaseDealing && g.CardsInPlay() > 0
}

// HandLen returns the number of cards in the given seat's hand.
func (g *GameState) HandLen(seat uint8) uint8 {
	return g.Players[seat].HandLen
}

// Hand returns a copy of the seat's hand.
func (g *GameState) Hand(seat uint8) []Card {
	return g.Players[seat].Cards()
}

// DeckCards returns the draw pile, next card to draw first (allocates).
func (g *GameState) DeckCards() []Card {
	out := make([]Card, 0, g.DeckLen)
	for i := int(g.DeckLen) - 1; i >= 0; i-- {
		out = append(out, g.Deck[i])
	}
	return out
}

// CardsInPlay returns the number of cards accounted for: hands, deck, cards
// on the table and four per collected trick. Always DeckSize for a legal state.
func (g *GameState) CardsInPlay() int {
	n := int(g.DeckLen) + int(g.Trick.Len)
	for p := range g.Players {
		n += int(g.Players[p].HandLen)
	}
	for _, c := range g.CollectedTricks {
		n += int(c) * NumPlayers
	}
	return n
}

// CheckInvariant verifies card accounting and that no card appears twice.
func (g *GameState) CheckInvariant() error {
	if n := g.CardsInPlay(); n != DeckSize {
		return fmt.Errorf("%w: %d cards accounted for, want %d", ErrDesync, n, DeckSize)
	}
	var collected int
	for _, c := range g.CollectedTricks {
		collected += int(c)
	}
	if collected != int(g.TrickCount) {
		return fmt.Errorf("%w: collected tricks %d != trick count %d", ErrDesync, collected, g.TrickCount)
	}
	var seen [256]bool
	check := func(c Card) error {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %#x", ErrDesync, uint8(c))
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %s", ErrDesync, c)
		}
		seen[c] = true
		return nil
	}
	for p := range g.Players {
		for i := uint8(0); i < g.Players[p].HandLen; i++ {
			if err := check(g.Players[p].Hand[i]); err != nil {
				return err
			}
		}
	}
	for i := uint8(0); i < g.DeckLen; i++ {
		if err := check(g.Deck[i]); err != nil {
			return err
		}
	}
	for i := uint8(0); i < g.Trick.Len; i++ {
		if err := check(g.Trick.Cards[i].Card); err != nil {
			return err
		}
	}
	return nil
}

// TeamScore returns the cumulative score of a team (idas plus vueltas).
func (g *GameState) TeamScore(team uint8) int { return g.Teams[team].Score }

// DealScore returns the points a team made in the current deal only.
func (g *GameState) DealScore(team uint8) int {
	return g.Teams[team].Score - g.InitialScores[team]
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
