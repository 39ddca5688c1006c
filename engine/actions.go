package engine

import "fmt"

// checkSeat validates a seat index.
func checkSeat(seat uint8) error {
	if seat >= NumPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}
	return nil
}

// checkTurnAction runs the checks shared by every turn-bound operation.
func (g *GameState) checkTurnAction(seat uint8) error {
	if err := checkSeat(seat); err != nil {
		return err
	}
	if g.Phase == PhaseGameOver {
		return ErrGameOver
	}
	if !g.Phase.InPlay() {
		return fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	if g.TrickAnimating || g.PostTrickDealingAnimating {
		return ErrAnimationPending
	}
	if seat != g.CurrentPlayer {
		return fmt.Errorf("%w: seat %d, current %d", ErrNotYourTurn, seat, g.CurrentPlayer)
	}
	return nil
}

// PlayCard plays card from seat's hand onto the current trick. Completing the
// trick resolves it: the winner's team is credited, the last trick earns the
// bonus, the winner and then each seat counter-clockwise draw one card, the
// phase advances to arrastre when the deck empties or to scoring when every
// hand is empty, and the winner leads next. The resolved trick moves to
// LastTrick with TrickAnimating set until CompleteTrickAnimation.
func (g *GameState) PlayCard(seat uint8, card Card) error {
	if err := g.checkTurnAction(seat); err != nil {
		return err
	}
	p := &g.Players[seat]
	idx := p.indexOf(card)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrCardNotInHand, card)
	}
	if !IsLegalPlay(card, p.Cards(), &g.Trick, g.TrumpSuit, g.Phase, &g.Rules) {
		return fmt.Errorf("%w: %s", ErrIllegalPlay, card)
	}

	p.removeAt(idx)
	g.Trick.add(seat, card)
	g.LastAction = LastActionInfo{Type: ActionPlayCard, Player: seat, Card: card, Points: card.Points()}

	if !g.Trick.Complete() {
		g.CurrentPlayer = NextSeat(seat)
		return nil
	}
	g.resolveTrick()
	return nil
}

// resolveTrick credits the completed trick and performs the post-trick draw.
func (g *GameState) resolveTrick() {
	winner := TrickWinner(&g.Trick, g.TrumpSuit)
	points := TrickPoints(&g.Trick)
	team := &g.Teams[TeamOf(winner)]

	g.TrickCount++
	g.CollectedTricks[winner]++
	team.TricksWon++

	last := g.DeckLen == 0 && g.allHandsEmpty()
	if last {
		points += LastTrickBonus
	}
	team.Score += points
	team.CardPoints += points

	g.LastTrick = g.Trick
	g.Trick.clear()
	g.LastTrickWinner = int8(winner)
	g.CurrentPlayer = winner
	g.TrickAnimating = true
	g.PendingTrickWinner = int8(winner)

	g.PostTrickDealingAnimating = g.drawAfterTrick(winner)

	switch {
	case last:
		g.Phase = PhaseScoring
		g.revealCantes()
	case g.DeckLen == 0 && g.Phase == PhasePlaying:
		g.Phase = PhaseArrastre
	}

	g.LastAction = LastActionInfo{Type: ActionTrickWon, Player: winner, Winner: winner, Points: points}
}

// drawAfterTrick deals one card to each seat starting with winner and going
// counter-clockwise, stopping when the deck runs out. Returns true if any
// card was drawn.
func (g *GameState) drawAfterTrick(winner uint8) bool {
	drew := false
	seat := winner
	for n := 0; n < NumPlayers && g.DeckLen > 0; n++ {
		g.DeckLen--
		c := g.Deck[g.DeckLen]
		g.Deck[g.DeckLen] = EmptyCard
		g.Players[seat].push(c)
		drew = true
		seat = NextSeat(seat)
	}
	if g.DeckLen == 0 {
		// The face-up trump has been drawn; only its suit remains on display.
		g.TrumpCard = EmptyCard
	}
	return drew
}

func (g *GameState) allHandsEmpty() bool {
	for p := range g.Players {
		if g.Players[p].HandLen > 0 {
			return false
		}
	}
	return true
}

// canCantar reports whether seat is the one allowed to declare right now:
// the trick is empty, it is seat's turn, and seat either won the last trick
// or, before any trick, sits counter-clockwise of the dealer.
func (g *GameState) canCantar(seat uint8) bool {
	if !g.Trick.Empty() || seat != g.CurrentPlayer {
		return false
	}
	if g.TrickCount == 0 {
		return seat == g.FirstLeader()
	}
	return g.LastTrickWinner == int8(seat)
}

// Cantar declares the Rey+Caballo of suit held by seat. Trump pairs are worth
// 40 and stay hidden until scoring; other suits are worth 20 and are shown.
func (g *GameState) Cantar(seat uint8, suit uint8) error {
	if err := g.checkTurnAction(seat); err != nil {
		return err
	}
	if suit >= NumSuits {
		return fmt.Errorf("%w: invalid suit %d", ErrCanteNotAllowed, suit)
	}
	if !g.canCantar(seat) {
		return fmt.Errorf("%w: seat %d may not declare now", ErrCanteNotAllowed, seat)
	}
	team := &g.Teams[TeamOf(seat)]
	allowed := false
	for _, s := range CantableSuits(g.Players[seat].Cards(), g.TrumpSuit, team) {
		if s == suit {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s not cantable", ErrCanteNotAllowed, SuitName(suit))
	}

	points := CantePointsFor(suit, g.TrumpSuit)
	team.Cantes[team.NumCantes] = Cante{Suit: suit, Points: points, Visible: suit != g.TrumpSuit}
	team.NumCantes++
	team.Score += points

	g.LastAction = LastActionInfo{Type: ActionCantar, Player: seat, Suit: suit, Points: points}
	return nil
}

// Cambiar7 swaps the trump-suit seven in seat's hand with the face-up trump
// card. Available once per deal while the deck has cards.
func (g *GameState) Cambiar7(seat uint8) error {
	if err := g.checkTurnAction(seat); err != nil {
		return err
	}
	p := &g.Players[seat]
	if !CanExchangeTrumpSeven(p.Cards(), g.TrumpCard, g.DeckLen, g.TrumpExchanged) {
		return ErrExchangeNotAllowed
	}
	seven := NewCard(g.TrumpSuit, RankSiete)
	idx := p.indexOf(seven)
	old := g.TrumpCard

	p.Hand[idx] = old
	g.Deck[0] = seven
	g.TrumpCard = seven
	g.TrumpExchanged = true

	g.LastAction = LastActionInfo{Type: ActionCambiar7, Player: seat, Card: old, Suit: g.TrumpSuit}
	return nil
}

// checkDeclaration validates the shared preconditions of end-of-deal claims.
func (g *GameState) checkDeclaration(seat uint8) error {
	if err := checkSeat(seat); err != nil {
		return err
	}
	if g.Phase == PhaseGameOver {
		return ErrGameOver
	}
	return nil
}

// DeclareVictory claims an early win for seat's team during vueltas. A correct
// claim ends the game for the declaring team; a wrong one hands the opponents
// the win with their score raised to 101.
func (g *GameState) DeclareVictory(seat uint8) error {
	if err := g.checkDeclaration(seat); err != nil {
		return err
	}
	if !g.IsVueltas {
		return fmt.Errorf("%w: victory can only be declared in vueltas", ErrWrongPhase)
	}
	team := TeamOf(seat)
	if CanDeclareVictory(team, g) {
		g.LastAction = LastActionInfo{Type: ActionDeclareVictory, Player: seat, Points: g.Teams[team].Score}
		g.finishGame(team)
		return nil
	}
	opp := OpponentTeam(team)
	g.forceWin(opp)
	g.LastAction = LastActionInfo{Type: ActionDeclareVictory, Player: seat, Points: g.Teams[opp].Score}
	return nil
}

// DeclareRenuncio forfeits the deal for seat's team. reason is advisory.
func (g *GameState) DeclareRenuncio(seat uint8, reason string) error {
	if err := g.checkDeclaration(seat); err != nil {
		return err
	}
	opp := OpponentTeam(TeamOf(seat))
	g.forceWin(opp)
	g.LastAction = LastActionInfo{Type: ActionRenuncio, Player: seat, Points: g.Teams[opp].Score}
	return nil
}

// forceWin ends the deal for team, lifting its score to at least 101.
func (g *GameState) forceWin(team uint8) {
	if g.Teams[team].Score < WinningScore {
		g.Teams[team].Score = WinningScore
	}
	g.finishGame(team)
}

// ---------------------------------------------------------------------------
// Animation acknowledgments and cosmetic operations
// ---------------------------------------------------------------------------

// CompleteDealingAnimation moves a freshly dealt hand from dealing to playing.
func (g *GameState) CompleteDealingAnimation() error {
	if g.Phase != PhaseDealing {
		return fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	if !g.dealing() {
		return fmt.Errorf("%w: nothing dealt", ErrWrongPhase)
	}
	if g.DeckLen == 0 {
		g.Phase = PhaseArrastre
	} else {
		g.Phase = PhasePlaying
	}
	return nil
}

// CompleteTrickAnimation clears the resolved trick from display.
func (g *GameState) CompleteTrickAnimation() error {
	if !g.TrickAnimating {
		return ErrNothingPending
	}
	g.TrickAnimating = false
	g.PendingTrickWinner = NoSeat
	g.LastTrick.clear()
	return nil
}

// CompletePostTrickDealing acknowledges the post-trick draw animation.
func (g *GameState) CompletePostTrickDealing() error {
	if !g.PostTrickDealingAnimating {
		return ErrNothingPending
	}
	g.PostTrickDealingAnimating = false
	return nil
}

// ReorderHand moves the card at from to position to inside seat's hand.
// Purely cosmetic.
func (g *GameState) ReorderHand(seat uint8, from, to int) error {
	if err := checkSeat(seat); err != nil {
		return err
	}
	p := &g.Players[seat]
	n := int(p.HandLen)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder index out of range (from %d, to %d, hand %d)", from, to, n)
	}
	if from == to {
		return nil
	}
	c := p.Hand[from]
	if from < to {
		copy(p.Hand[from:to], p.Hand[from+1:to+1])
	} else {
		copy(p.Hand[to+1:from+1], p.Hand[to:from])
	}
	p.Hand[to] = c
	return nil
}
