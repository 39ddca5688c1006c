package engine

import (
	"errors"
	"testing"
)

// playTrick plays the first legal card of each seat in turn until the trick
// resolves, returning the plays.
func playTrick(t *testing.T, g *GameState) []TrickCard {
	t.Helper()
	var plays []TrickCard
	for i := 0; i < NumPlayers; i++ {
		seat := g.CurrentPlayer
		c, ok := g.ForcedPlay(seat)
		if !ok {
			t.Fatalf("seat %d has no legal card (phase %s)", seat, g.Phase)
		}
		if err := g.PlayCard(seat, c); err != nil {
			t.Fatalf("PlayCard(%d, %s): %v", seat, c, err)
		}
		plays = append(plays, TrickCard{Player: seat, Card: c})
	}
	return plays
}

// ackAll clears every pending animation marker.
func ackAll(t *testing.T, g *GameState) {
	t.Helper()
	if g.Phase == PhaseDealing {
		if err := g.CompleteDealingAnimation(); err != nil {
			t.Fatalf("CompleteDealingAnimation: %v", err)
		}
	}
	if g.TrickAnimating {
		if err := g.CompleteTrickAnimation(); err != nil {
			t.Fatalf("CompleteTrickAnimation: %v", err)
		}
	}
	if g.PostTrickDealingAnimating {
		if err := g.CompletePostTrickDealing(); err != nil {
			t.Fatalf("CompletePostTrickDealing: %v", err)
		}
	}
}

func TestPlayCardAdvancesCounterClockwise(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, c1)
	card := g.Hand(0)[2]
	if err := g.PlayCard(0, card); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	if g.CurrentPlayer != 3 {
		t.Errorf("CurrentPlayer = %d, want 3", g.CurrentPlayer)
	}
	if g.Trick.Len != 1 || g.Trick.Cards[0].Card != card {
		t.Errorf("trick = %v", g.Trick.Plays())
	}
	if g.Players[0].has(card) {
		t.Error("played card still in hand")
	}
	if g.LastAction.Type != ActionPlayCard || g.LastAction.Card != card {
		t.Errorf("LastAction = %+v", g.LastAction)
	}
}

// TestPlayCardRejectsWithoutMutation verifies illegal calls leave state as is.
func TestPlayCardRejectsWithoutMutation(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, c1)
	before := g.Save()

	if err := g.PlayCard(1, g.Hand(1)[0]); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("off-turn play err = %v, want ErrNotYourTurn", err)
	}
	if err := g.PlayCard(0, g.Hand(1)[0]); !errors.Is(err, ErrCardNotInHand) {
		t.Errorf("foreign card err = %v, want ErrCardNotInHand", err)
	}
	if err := g.PlayCard(9, o1); !errors.Is(err, ErrInvalidSeat) {
		t.Errorf("bad seat err = %v, want ErrInvalidSeat", err)
	}
	if GameState(before) != *g {
		t.Fatal("rejected plays mutated state")
	}

	g.Phase = PhaseDealing
	if err := g.PlayCard(0, g.Hand(0)[0]); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("dealing play err = %v, want ErrWrongPhase", err)
	}
}

// TestIllegalPlayInArrastre verifies a failed follow-suit play keeps the card.
func TestIllegalPlayInArrastre(t *testing.T) {
	g := buildEndgame(t, [NumPlayers][]Card{
		0: {o4, b2},
		3: {o2, e3},
		2: {o1, NewCard(SuitEspadas, RankCuatro)},
		1: {o3, NewCard(SuitEspadas, RankCinco)},
	}, SuitCopas)

	if err := g.PlayCard(0, o4); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if err := g.PlayCard(3, e3); !errors.Is(err, ErrIllegalPlay) {
		t.Fatalf("discard err = %v, want ErrIllegalPlay", err)
	}
	if !g.Players[3].has(e3) || g.Trick.Len != 1 || g.CurrentPlayer != 3 {
		t.Fatal("illegal play mutated state")
	}
	if err := g.PlayCard(3, o2); err != nil {
		t.Fatalf("follow: %v", err)
	}
}

// TestTrickResolutionHighestLed plays oros 12, 7, 1, 3 with copas trump: the
// Ace's seat takes 25 points and leads next.
func TestTrickResolutionHighestLed(t *testing.T) {
	g := buildEndgame(t, [NumPlayers][]Card{
		0: {o12, NewCard(SuitEspadas, RankCuatro)},
		3: {NewCard(SuitOros, RankSiete), NewCard(SuitEspadas, RankDos)},
		2: {o1, NewCard(SuitEspadas, RankCinco)},
		1: {o3, NewCard(SuitEspadas, RankSeis)},
	}, SuitCopas)

	for _, p := range []TrickCard{{0, o12}, {3, NewCard(SuitOros, RankSiete)}, {2, o1}, {1, o3}} {
		if err := g.PlayCard(p.Player, p.Card); err != nil {
			t.Fatalf("PlayCard(%d, %s): %v", p.Player, p.Card, err)
		}
	}

	if g.Teams[0].Score != 25 || g.Teams[0].CardPoints != 25 {
		t.Errorf("team 0 = %d/%d, want 25/25", g.Teams[0].Score, g.Teams[0].CardPoints)
	}
	if g.Teams[1].Score != 0 {
		t.Errorf("team 1 score = %d, want 0", g.Teams[1].Score)
	}
	if g.CurrentPlayer != 2 || g.LastTrickWinner != 2 || g.PendingTrickWinner != 2 {
		t.Errorf("current=%d last=%d pending=%d, want 2", g.CurrentPlayer, g.LastTrickWinner, g.PendingTrickWinner)
	}
	if g.TrickCount != 9 || g.CollectedTricks[2] != 1 {
		t.Errorf("TrickCount=%d collected[2]=%d", g.TrickCount, g.CollectedTricks[2])
	}
	if !g.TrickAnimating || g.LastTrick.Len != NumPlayers || !g.Trick.Empty() {
		t.Error("resolved trick should stay on display until acknowledged")
	}
	if g.Phase != PhaseArrastre {
		t.Errorf("Phase = %s, want arrastre", g.Phase)
	}
	if err := g.CheckInvariant(); err != nil {
		t.Fatal(err)
	}

	if err := g.PlayCard(2, NewCard(SuitEspadas, RankCinco)); !errors.Is(err, ErrAnimationPending) {
		t.Fatalf("play during animation err = %v, want ErrAnimationPending", err)
	}
	if err := g.CompleteTrickAnimation(); err != nil {
		t.Fatal(err)
	}
	if err := g.CompletePostTrickDealing(); !errors.Is(err, ErrNothingPending) {
		t.Errorf("CompletePostTrickDealing err = %v, want ErrNothingPending", err)
	}
	if g.LastTrick.Len != 0 || g.PendingTrickWinner != NoSeat {
		t.Error("ack did not clear the displayed trick")
	}
	if err := g.PlayCard(2, NewCard(SuitEspadas, RankCinco)); err != nil {
		t.Fatalf("play after ack: %v", err)
	}
}

// TestTrickResolutionTrumpWins: a two of trump takes the led Ace.
func TestTrickResolutionTrumpWins(t *testing.T) {
	g := buildEndgame(t, [NumPlayers][]Card{
		0: {o1},
		3: {c2},
		2: {o3},
		1: {o12},
	}, SuitCopas)
	playTrick(t, g)
	if g.LastTrickWinner != 3 {
		t.Fatalf("winner = %d, want 3", g.LastTrickWinner)
	}
	// Last trick of the deal: 25 card points plus the bonus.
	if g.Teams[1].CardPoints != 25+LastTrickBonus {
		t.Errorf("team 1 card points = %d, want %d", g.Teams[1].CardPoints, 25+LastTrickBonus)
	}
	if g.Phase != PhaseScoring {
		t.Errorf("Phase = %s, want scoring", g.Phase)
	}
}

// TestDrawOrderAfterTrick verifies the winner draws the top card and the
// rest follow counter-clockwise.
func TestDrawOrderAfterTrick(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, c1)
	top := g.DeckCards()[:NumPlayers]
	plays := playTrick(t, g)

	winner := TrickWinner(&Trick{Cards: [NumPlayers]TrickCard{plays[0], plays[1], plays[2], plays[3]}, Len: NumPlayers}, SuitCopas)
	if g.CurrentPlayer != winner {
		t.Fatalf("leader = %d, want winner %d", g.CurrentPlayer, winner)
	}
	seat := winner
	for i, want := range top {
		p := &g.Players[seat]
		if p.HandLen != MaxHandSize {
			t.Errorf("seat %d HandLen = %d", seat, p.HandLen)
		}
		if got := p.Hand[p.HandLen-1]; got != want {
			t.Errorf("draw %d: seat %d got %s, want %s", i, seat, got, want)
		}
		seat = NextSeat(seat)
	}
	if !g.PostTrickDealingAnimating {
		t.Error("PostTrickDealingAnimating not set after draw")
	}
	if g.DeckLen != 12 {
		t.Errorf("DeckLen = %d, want 12", g.DeckLen)
	}
}

// TestArrastreWhenDeckEmpties plays four tricks, which drains the 16-card deck.
func TestArrastreWhenDeckEmpties(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, c1)
	for i := 0; i < 4; i++ {
		if g.Phase != PhasePlaying {
			t.Fatalf("trick %d: Phase = %s, want playing", i, g.Phase)
		}
		playTrick(t, g)
		ackAll(t, g)
	}
	if g.DeckLen != 0 {
		t.Fatalf("DeckLen = %d, want 0", g.DeckLen)
	}
	if g.Phase != PhaseArrastre {
		t.Errorf("Phase = %s, want arrastre", g.Phase)
	}
	if g.TrumpCard != EmptyCard {
		t.Errorf("TrumpCard = %s, want drawn", g.TrumpCard)
	}
	held := false
	for s := range g.Players {
		if g.Players[s].has(c1) {
			held = true
		}
	}
	if !held {
		t.Error("face-up trump was not drawn into a hand")
	}
	if err := g.CheckInvariant(); err != nil {
		t.Fatal(err)
	}
}

func TestCantarAtStartOfDeal(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{
		0: {o12, NewCard(SuitOros, RankCaballo), NewCard(SuitCopas, RankRey), NewCard(SuitCopas, RankCaballo)},
		2: {NewCard(SuitEspadas, RankRey), NewCard(SuitEspadas, RankCaballo)},
	}, c1)

	if err := g.Cantar(0, SuitOros); err != nil {
		t.Fatalf("Cantar oros: %v", err)
	}
	if g.Teams[0].Score != 20 || g.Teams[0].CardPoints != 0 {
		t.Errorf("team 0 = %d/%d, want 20/0", g.Teams[0].Score, g.Teams[0].CardPoints)
	}
	if c := g.Teams[0].Cantes[0]; c.Suit != SuitOros || c.Points != 20 || !c.Visible {
		t.Errorf("cante = %+v", c)
	}
	if err := g.Cantar(0, SuitOros); !errors.Is(err, ErrCanteNotAllowed) {
		t.Errorf("repeat cante err = %v", err)
	}

	if err := g.Cantar(0, SuitCopas); err != nil {
		t.Fatalf("Cantar trump: %v", err)
	}
	if g.Teams[0].Score != 60 {
		t.Errorf("team 0 score = %d, want 60", g.Teams[0].Score)
	}
	if c := g.Teams[0].Cantes[1]; c.Points != 40 || c.Visible {
		t.Errorf("trump cante = %+v, want hidden 40", c)
	}

	// Partner holds a pair but it is not their turn.
	if err := g.Cantar(2, SuitEspadas); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("partner cante err = %v, want ErrNotYourTurn", err)
	}
	if err := g.Cantar(0, SuitBastos); !errors.Is(err, ErrCanteNotAllowed) {
		t.Errorf("cante without pair err = %v", err)
	}
}

// TestCantarMidTrickRejected: a pair declared after the lead is refused.
func TestCantarMidTrickRejected(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{
		0: {o1},
		3: {NewCard(SuitEspadas, RankRey), NewCard(SuitEspadas, RankCaballo)},
	}, c1)
	if err := g.PlayCard(0, o1); err != nil {
		t.Fatal(err)
	}
	before := g.Save()
	if err := g.Cantar(3, SuitEspadas); !errors.Is(err, ErrCanteNotAllowed) {
		t.Fatalf("mid-trick cante err = %v, want ErrCanteNotAllowed", err)
	}
	if GameState(before) != *g {
		t.Error("rejected cante mutated state")
	}
}

func TestCantarAfterWinningTrick(t *testing.T) {
	g := buildEndgame(t, [NumPlayers][]Card{
		0: {o1, NewCard(SuitEspadas, RankRey), NewCard(SuitEspadas, RankCaballo)},
		3: {o2, b2, NewCard(SuitBastos, RankCuatro)},
		2: {o4, NewCard(SuitBastos, RankCinco), NewCard(SuitBastos, RankSeis)},
		1: {o3, NewCard(SuitBastos, RankSiete), NewCard(SuitBastos, RankSota)},
	}, SuitCopas)
	g.LastTrickWinner = 1 // someone else took the previous trick

	if err := g.Cantar(0, SuitEspadas); !errors.Is(err, ErrCanteNotAllowed) {
		t.Fatalf("cante without winning err = %v", err)
	}
	if err := g.PlayCard(0, o1); err != nil {
		t.Fatal(err)
	}
	playRest := []TrickCard{{3, o2}, {2, o4}, {1, o3}}
	for _, p := range playRest {
		if err := g.PlayCard(p.Player, p.Card); err != nil {
			t.Fatalf("PlayCard(%d, %s): %v", p.Player, p.Card, err)
		}
	}
	if err := g.Cantar(0, SuitEspadas); !errors.Is(err, ErrAnimationPending) {
		t.Fatalf("cante during animation err = %v", err)
	}
	ackAll(t, g)
	if err := g.Cantar(0, SuitEspadas); err != nil {
		t.Fatalf("Cantar after win: %v", err)
	}
	if g.Teams[0].Score != 21+20 {
		t.Errorf("team 0 score = %d, want 41", g.Teams[0].Score)
	}
}

// TestCambiar7RoundTrip swaps the trump seven for the face-up card once.
func TestCambiar7RoundTrip(t *testing.T) {
	seven := NewCard(SuitCopas, RankSiete)
	g := buildDeal(t, [NumPlayers][]Card{0: {seven}}, c1)

	if err := g.Cambiar7(1); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("off-turn exchange err = %v", err)
	}
	if err := g.Cambiar7(0); err != nil {
		t.Fatalf("Cambiar7: %v", err)
	}
	if g.Players[0].Hand[0] != c1 {
		t.Errorf("hand[0] = %s, want former trump %s", g.Players[0].Hand[0], c1)
	}
	if g.TrumpCard != seven || g.Deck[0] != seven {
		t.Errorf("TrumpCard=%s Deck[0]=%s, want %s", g.TrumpCard, g.Deck[0], seven)
	}
	if !g.TrumpExchanged || g.TrumpSuit != SuitCopas {
		t.Error("exchange flag or trump suit wrong")
	}
	if err := g.CheckInvariant(); err != nil {
		t.Fatal(err)
	}

	before := g.Save()
	if err := g.Cambiar7(0); !errors.Is(err, ErrExchangeNotAllowed) {
		t.Fatalf("second exchange err = %v, want ErrExchangeNotAllowed", err)
	}
	if GameState(before) != *g {
		t.Error("second exchange mutated state")
	}
}

func TestCambiar7NeedsDeck(t *testing.T) {
	g := buildEndgame(t, [NumPlayers][]Card{
		0: {NewCard(SuitCopas, RankSiete)}, 1: {o1}, 2: {o2}, 3: {o3},
	}, SuitCopas)
	if err := g.Cambiar7(0); !errors.Is(err, ErrExchangeNotAllowed) {
		t.Errorf("exchange with empty deck err = %v", err)
	}
}

// TestRenuncioForfeits: any declaring seat hands the win to the opponents.
func TestRenuncioForfeits(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, c1)
	if err := g.DeclareRenuncio(1, "x"); err != nil {
		t.Fatalf("DeclareRenuncio: %v", err)
	}
	if g.Teams[0].Score != WinningScore {
		t.Errorf("team 0 score = %d, want %d", g.Teams[0].Score, WinningScore)
	}
	if g.Phase != PhaseGameOver || g.Winner != 0 {
		t.Errorf("Phase=%s Winner=%d", g.Phase, g.Winner)
	}
	if err := g.DeclareRenuncio(3, "again"); !errors.Is(err, ErrGameOver) {
		t.Errorf("renuncio after game over err = %v", err)
	}

	g = buildDeal(t, [NumPlayers][]Card{}, c1)
	g.Teams[1].Score = 120
	if err := g.DeclareRenuncio(2, ""); err != nil {
		t.Fatal(err)
	}
	if g.Teams[1].Score != 120 || g.Winner != 1 {
		t.Errorf("team 1 score=%d winner=%d, want 120/1", g.Teams[1].Score, g.Winner)
	}
}

func TestDeclareVictory(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, c1)
	before := g.Save()
	if err := g.DeclareVictory(0); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("idas declaration err = %v, want ErrWrongPhase", err)
	}
	if GameState(before) != *g {
		t.Fatal("rejected declaration mutated state")
	}

	// Correct claim during vueltas.
	g = buildDeal(t, [NumPlayers][]Card{}, c1)
	g.IsVueltas = true
	g.Teams[0].Score, g.Teams[0].CardPoints = 105, 40
	if err := g.DeclareVictory(2); err != nil {
		t.Fatal(err)
	}
	if g.Phase != PhaseGameOver || g.Winner != 0 || g.Teams[0].Score != 105 {
		t.Errorf("Phase=%s Winner=%d score=%d", g.Phase, g.Winner, g.Teams[0].Score)
	}

	// Wrong claim: short on card points.
	g = buildDeal(t, [NumPlayers][]Card{}, c1)
	g.IsVueltas = true
	g.Teams[0].Score, g.Teams[0].CardPoints = 110, 20
	g.Teams[1].Score = 60
	if err := g.DeclareVictory(0); err != nil {
		t.Fatal(err)
	}
	if g.Winner != 1 || g.Teams[1].Score != WinningScore {
		t.Errorf("Winner=%d team1=%d, want 1/%d", g.Winner, g.Teams[1].Score, WinningScore)
	}
}

func TestTrumpCanteRevealedOnGameOver(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{
		0: {NewCard(SuitCopas, RankRey), NewCard(SuitCopas, RankCaballo)},
	}, c1)
	if err := g.Cantar(0, SuitCopas); err != nil {
		t.Fatal(err)
	}
	if g.Teams[0].Cantes[0].Visible {
		t.Fatal("trump cante visible before scoring")
	}
	if err := g.DeclareRenuncio(1, ""); err != nil {
		t.Fatal(err)
	}
	if !g.Teams[0].Cantes[0].Visible {
		t.Error("trump cante still hidden after game over")
	}
}
