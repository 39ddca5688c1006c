package engine

import (
	"errors"
	"testing"
)

// allCards returns the 40-card deck in canonical order.
func allCards() []Card {
	out := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			out = append(out, NewCard(suit, rank))
		}
	}
	return out
}

// buildDeal returns a freshly dealt playing-phase state with the given cards
// placed at the front of each hand. Hands are padded to six cards from the
// remaining deck in canonical order; trump sits face up at the bottom of the
// deck. Seat 0 leads (dealer is seat 1).
func buildDeal(t *testing.T, hands [NumPlayers][]Card, trump Card) *GameState {
	t.Helper()
	g := NewGame(7, DefaultHouseRules())
	g.Dealer = 1

	used := map[Card]bool{trump: true}
	for s, h := range hands {
		for _, c := range h {
			if used[c] {
				t.Fatalf("buildDeal: %s given twice (seat %d)", c, s)
			}
			used[c] = true
		}
	}
	var rest []Card
	for _, c := range allCards() {
		if !used[c] {
			rest = append(rest, c)
		}
	}

	for s := range g.Players {
		p := &g.Players[s]
		*p = PlayerState{}
		for i := range p.Hand {
			p.Hand[i] = EmptyCard
		}
		for _, c := range hands[s] {
			p.push(c)
		}
		for p.HandLen < MaxHandSize {
			p.push(rest[0])
			rest = rest[1:]
		}
	}

	for i := range g.Deck {
		g.Deck[i] = EmptyCard
	}
	g.Deck[0] = trump
	for i, c := range rest {
		g.Deck[i+1] = c
	}
	g.DeckLen = uint8(len(rest) + 1)
	g.TrumpCard = trump
	g.TrumpSuit = trump.Suit()
	g.CurrentPlayer = g.FirstLeader()
	g.Phase = PhasePlaying

	if err := g.CheckInvariant(); err != nil {
		t.Fatalf("buildDeal: %v", err)
	}
	return &g
}

// buildEndgame returns an arrastre state with exactly the given hands and an
// empty deck. The missing cards count as tricks already won by seat 0, who
// leads.
func buildEndgame(t *testing.T, hands [NumPlayers][]Card, trumpSuit uint8) *GameState {
	t.Helper()
	g := NewGame(7, DefaultHouseRules())
	g.Dealer = 1

	total := 0
	for s := range g.Players {
		p := &g.Players[s]
		*p = PlayerState{}
		for i := range p.Hand {
			p.Hand[i] = EmptyCard
		}
		for _, c := range hands[s] {
			p.push(c)
		}
		total += len(hands[s])
	}
	played := DeckSize - total
	if played%NumPlayers != 0 {
		t.Fatalf("buildEndgame: %d hand cards do not leave whole tricks", total)
	}
	g.DeckLen = 0
	g.TrumpSuit = trumpSuit
	g.TrumpCard = EmptyCard
	g.TrickCount = uint8(played / NumPlayers)
	g.CollectedTricks[0] = g.TrickCount
	if g.TrickCount > 0 {
		g.LastTrickWinner = 0
	}
	g.CurrentPlayer = 0
	g.Phase = PhaseArrastre

	if err := g.CheckInvariant(); err != nil {
		t.Fatalf("buildEndgame: %v", err)
	}
	return &g
}

// TestNewGameSeedZero verifies that seed 0 is corrected to 1.
func TestNewGameSeedZero(t *testing.T) {
	g := NewGame(0, DefaultHouseRules())
	if g.RNG == 0 {
		t.Error("RNG is 0 after seed=0; expected correction to 1")
	}
	if g.Winner != NoSeat || g.LastTrickWinner != NoSeat {
		t.Errorf("Winner=%d LastTrickWinner=%d, want NoSeat", g.Winner, g.LastTrickWinner)
	}
	if g.Dealer >= NumPlayers {
		t.Errorf("Dealer = %d", g.Dealer)
	}
}

func TestUndealtStateIsIdle(t *testing.T) {
	g := NewGame(5, DefaultHouseRules())
	if g.Phase != PhaseDealing || g.CardsInPlay() != 0 {
		t.Fatalf("phase=%s cards=%d, want an undealt state", g.Phase, g.CardsInPlay())
	}
	if g.AnimationBusy() {
		t.Error("AnimationBusy before any deal")
	}
	before := g
	if err := g.CompleteDealingAnimation(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("CompleteDealingAnimation on undealt state: err=%v, want ErrWrongPhase", err)
	}
	if g != before {
		t.Error("rejected ack mutated the state")
	}

	g.Deal()
	if !g.AnimationBusy() {
		t.Error("AnimationBusy = false right after Deal")
	}
	if err := g.CompleteDealingAnimation(); err != nil {
		t.Fatalf("CompleteDealingAnimation: %v", err)
	}
	if g.AnimationBusy() || g.Phase != PhasePlaying {
		t.Errorf("after ack: busy=%v phase=%s", g.AnimationBusy(), g.Phase)
	}
}

// TestDealCardCounts verifies card counts and trump placement after Deal.
func TestDealCardCounts(t *testing.T) {
	g := NewGame(42, DefaultHouseRules())
	g.Deal()

	for p := uint8(0); p < NumPlayers; p++ {
		if g.HandLen(p) != MaxHandSize {
			t.Errorf("seat %d HandLen = %d, want %d", p, g.HandLen(p), MaxHandSize)
		}
	}
	if g.DeckLen != DeckSize-NumPlayers*MaxHandSize {
		t.Errorf("DeckLen = %d, want 16", g.DeckLen)
	}
	if g.TrumpCard != g.Deck[0] {
		t.Errorf("TrumpCard = %s, bottom of deck = %s", g.TrumpCard, g.Deck[0])
	}
	if g.TrumpSuit != g.TrumpCard.Suit() {
		t.Errorf("TrumpSuit = %d, want %d", g.TrumpSuit, g.TrumpCard.Suit())
	}
	if g.Phase != PhaseDealing {
		t.Errorf("Phase = %s, want dealing", g.Phase)
	}
	if g.CurrentPlayer != NextSeat(g.Dealer) {
		t.Errorf("CurrentPlayer = %d, want seat after dealer %d", g.CurrentPlayer, g.Dealer)
	}
	if err := g.CheckInvariant(); err != nil {
		t.Fatalf("CheckInvariant: %v", err)
	}
	if n := g.CardsInPlay(); n != DeckSize {
		t.Errorf("CardsInPlay = %d, want %d", n, DeckSize)
	}
}

// TestDealDeterministic verifies that the same seed produces identical deals.
func TestDealDeterministic(t *testing.T) {
	g1 := NewGame(99, DefaultHouseRules())
	g1.Deal()
	g2 := NewGame(99, DefaultHouseRules())
	g2.Deal()

	if g1.Dealer != g2.Dealer {
		t.Errorf("Dealer: %d vs %d", g1.Dealer, g2.Dealer)
	}
	for p := range g1.Players {
		if g1.Players[p] != g2.Players[p] {
			t.Errorf("seat %d hands differ", p)
		}
	}
	if g1.Deck != g2.Deck {
		t.Error("decks differ")
	}

	g3 := NewGame(100, DefaultHouseRules())
	g3.Deal()
	if g3.Deck == g1.Deck && g3.Players == g1.Players {
		t.Error("different seeds produced identical deals")
	}
}

func TestSeatHelpers(t *testing.T) {
	if TeamOf(0) != TeamOf(2) || TeamOf(1) != TeamOf(3) || TeamOf(0) == TeamOf(1) {
		t.Error("seat parity must define teams")
	}
	// Counter-clockwise: seat order decreasing.
	want := [NumPlayers]uint8{3, 0, 1, 2}
	for s := uint8(0); s < NumPlayers; s++ {
		if NextSeat(s) != want[s] {
			t.Errorf("NextSeat(%d) = %d, want %d", s, NextSeat(s), want[s])
		}
	}
	if OpponentTeam(0) != 1 || OpponentTeam(1) != 0 {
		t.Error("OpponentTeam")
	}
}

func TestCheckInvariantDetectsDuplicates(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, NewCard(SuitCopas, RankAs))
	g.Players[1].Hand[0] = g.Players[0].Hand[0]
	if err := g.CheckInvariant(); err == nil {
		t.Fatal("duplicate card not detected")
	}
}

// TestSnapshotSaveRestore verifies Save/Restore round-trips the full state.
func TestSnapshotSaveRestore(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, NewCard(SuitCopas, RankAs))
	snap := g.Save()

	card := g.Hand(0)[0]
	if err := g.PlayCard(0, card); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	if g.HandLen(0) != MaxHandSize-1 {
		t.Fatalf("HandLen after play = %d", g.HandLen(0))
	}

	g.Restore(snap)
	if g.HandLen(0) != MaxHandSize || g.Trick.Len != 0 || g.CurrentPlayer != 0 {
		t.Errorf("restore incomplete: hand=%d trick=%d current=%d", g.HandLen(0), g.Trick.Len, g.CurrentPlayer)
	}
	if g.Hand(0)[0] != card {
		t.Errorf("restored hand[0] = %s, want %s", g.Hand(0)[0], card)
	}
}

func BenchmarkSnapshot(b *testing.B) {
	g := NewGame(1, DefaultHouseRules())
	g.Deal()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := g.Save()
		g.Restore(s)
	}
}
