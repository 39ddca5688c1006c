package engine

// ---------------------------------------------------------------------------
// Rule predicates. Pure functions; the state machine consults them before
// any mutation.
// ---------------------------------------------------------------------------

// highestOfSuit returns the strongest card of suit on the trick.
func highestOfSuit(trick *Trick, suit uint8) (Card, bool) {
	best, found := EmptyCard, false
	for i := uint8(0); i < trick.Len; i++ {
		c := trick.Cards[i].Card
		if c.Suit() != suit {
			continue
		}
		if !found || c.Strength() > best.Strength() {
			best, found = c, true
		}
	}
	return best, found
}

// holdsSuit reports whether hand contains any card of suit.
func holdsSuit(hand []Card, suit uint8) bool {
	for _, c := range hand {
		if c.Suit() == suit {
			return true
		}
	}
	return false
}

// holdsBeater reports whether hand has a card of suit stronger than target.
func holdsBeater(hand []Card, suit uint8, target Card) bool {
	for _, c := range hand {
		if c.Suit() == suit && c.Strength() > target.Strength() {
			return true
		}
	}
	return false
}

// IsLegalPlay reports whether card may be played from hand onto trick.
//
// Any card may lead. Once a suit is led the obligations below apply only when
// forced play is active (arrastre, or ForcedPlayBeforeArrastre):
//   - follow the led suit if able; following a trump lead, beat the highest
//     trump on the table if able;
//   - when void in the led suit, play a trump if any is held and beat the
//     highest trump already played if able;
//   - with MustBeatLedSuit, a follower must also beat the led suit when no
//     trump has been played.
func IsLegalPlay(card Card, hand []Card, trick *Trick, trump uint8, phase Phase, rules *HouseRules) bool {
	inHand := false
	for _, c := range hand {
		if c == card {
			inHand = true
			break
		}
	}
	if !inHand {
		return false
	}
	led, ok := trick.LedSuit()
	if !ok {
		return true
	}
	if !rules.forcedPlay(phase) {
		return true
	}

	topTrump, trumped := highestOfSuit(trick, trump)

	if holdsSuit(hand, led) {
		if card.Suit() != led {
			return false
		}
		if led == trump {
			if holdsBeater(hand, trump, topTrump) {
				return card.Strength() > topTrump.Strength()
			}
			return true
		}
		if rules.MustBeatLedSuit && !trumped {
			topLed, _ := highestOfSuit(trick, led)
			if holdsBeater(hand, led, topLed) {
				return card.Strength() > topLed.Strength()
			}
		}
		return true
	}

	if holdsSuit(hand, trump) {
		if card.Suit() != trump {
			return false
		}
		if trumped && holdsBeater(hand, trump, topTrump) {
			return card.Strength() > topTrump.Strength()
		}
		return true
	}
	return true
}

// TrickWinner returns the seat that wins trick: the highest trump if any
// trump was played, otherwise the highest card of the led suit.
// The trick must not be empty.
func TrickWinner(trick *Trick, trump uint8) uint8 {
	best := trick.Cards[0]
	for i := uint8(1); i < trick.Len; i++ {
		c := trick.Cards[i]
		switch {
		case c.Card.Suit() == trump && best.Card.Suit() != trump:
			best = c
		case c.Card.Suit() == best.Card.Suit() && c.Card.Strength() > best.Card.Strength():
			best = c
		}
	}
	return best.Player
}

// TrickPoints sums the card-point values of the trick.
func TrickPoints(trick *Trick) int {
	total := 0
	for i := uint8(0); i < trick.Len; i++ {
		total += trick.Cards[i].Card.Points()
	}
	return total
}

// CantePointsFor returns the value of a cante in suit: 40 for the trump suit,
// 20 otherwise.
func CantePointsFor(suit, trump uint8) int {
	if suit == trump {
		return CanteTrumpPoints
	}
	return CantePoints
}

// CantableSuits returns, in suit order, every suit for which hand holds both
// the Rey and the Caballo and team has not yet canted this deal.
func CantableSuits(hand []Card, trump uint8, team *Team) []uint8 {
	var out []uint8
	for _, suit := range Suits {
		if team.HasCanted(suit) {
			continue
		}
		var king, knight bool
		for _, c := range hand {
			if c.Suit() != suit {
				continue
			}
			switch c.Rank() {
			case RankRey:
				king = true
			case RankCaballo:
				knight = true
			}
		}
		if king && knight {
			out = append(out, suit)
		}
	}
	return out
}

// CanExchangeTrumpSeven reports whether hand may swap the trump-suit seven for
// the face-up trump card: the seven is held, the deck still has cards and the
// exchange was not used this deal.
func CanExchangeTrumpSeven(hand []Card, trumpCard Card, deckLen uint8, used bool) bool {
	if used || deckLen == 0 || !trumpCard.Valid() {
		return false
	}
	seven := NewCard(trumpCard.Suit(), RankSiete)
	if trumpCard == seven {
		return false
	}
	for _, c := range hand {
		if c == seven {
			return true
		}
	}
	return false
}

// CanDeclareVictory reports whether team may claim the win early: only in
// vueltas, and only with a combined idas+vueltas score of at least 101 and at
// least 30 combined card points.
func CanDeclareVictory(team uint8, g *GameState) bool {
	if !g.IsVueltas || team >= NumTeams {
		return false
	}
	return g.qualifies(team)
}

// LegalCards returns every card seat may play now, in hand order.
func (g *GameState) LegalCards(seat uint8) []Card {
	if seat >= NumPlayers || !g.Phase.InPlay() || seat != g.CurrentPlayer {
		return nil
	}
	hand := g.Players[seat].Cards()
	var out []Card
	for _, c := range hand {
		if IsLegalPlay(c, hand, &g.Trick, g.TrumpSuit, g.Phase, &g.Rules) {
			out = append(out, c)
		}
	}
	return out
}

// ForcedPlay picks the card a timed-out seat plays: the first legal card in
// hand order.
func (g *GameState) ForcedPlay(seat uint8) (Card, bool) {
	legal := g.LegalCards(seat)
	if len(legal) == 0 {
		return EmptyCard, false
	}
	return legal[0], true
}
