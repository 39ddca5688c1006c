package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit constants, packed into the upper 4 bits of Card.
const (
	SuitOros    uint8 = 0
	SuitCopas   uint8 = 1
	SuitEspadas uint8 = 2
	SuitBastos  uint8 = 3
)

// Rank constants, packed into the lower 4 bits of Card. Values are the printed
// Spanish-deck numbers; 8 and 9 do not exist in a 40-card deck.
const (
	RankAs      uint8 = 1
	RankDos     uint8 = 2
	RankTres    uint8 = 3
	RankCuatro  uint8 = 4
	RankCinco   uint8 = 5
	RankSeis    uint8 = 6
	RankSiete   uint8 = 7
	RankSota    uint8 = 10
	RankCaballo uint8 = 11
	RankRey     uint8 = 12
)

// Suits lists every suit in canonical order.
var Suits = [NumSuits]uint8{SuitOros, SuitCopas, SuitEspadas, SuitBastos}

// Ranks lists every rank present in the deck, lowest printed number first.
var Ranks = [10]uint8{RankAs, RankDos, RankTres, RankCuatro, RankCinco, RankSeis, RankSiete, RankSota, RankCaballo, RankRey}

var suitNames = [NumSuits]string{"oros", "copas", "espadas", "bastos"}

// SuitName returns the lowercase Spanish name of a suit, or "?" if invalid.
func SuitName(suit uint8) string {
	if suit >= NumSuits {
		return "?"
	}
	return suitNames[suit]
}

// ParseSuit converts a suit name into its constant.
func ParseSuit(name string) (uint8, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range suitNames {
		if s == n {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", name)
}

// ValidRank reports whether r is one of the ten ranks of the Spanish deck.
func ValidRank(r uint8) bool {
	return (r >= RankAs && r <= RankSiete) || (r >= RankSota && r <= RankRey)
}

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// Valid reports whether c encodes a real card of the deck.
func (c Card) Valid() bool {
	return c != EmptyCard && c.Suit() < NumSuits && ValidRank(c.Rank())
}

// Points returns the card-point value of the card.
//   - As (1) → 11
//   - Tres (3) → 10
//   - Rey (12) → 4
//   - Caballo (11) → 3
//   - Sota (10) → 2
//   - everything else → 0
func (c Card) Points() int {
	switch c.Rank() {
	case RankAs:
		return 11
	case RankTres:
		return 10
	case RankRey:
		return 4
	case RankCaballo:
		return 3
	case RankSota:
		return 2
	}
	return 0
}

// Strength returns the trick-taking order of the card within its suit.
// Higher wins: 1 > 3 > 12 > 11 > 10 > 7 > 6 > 5 > 4 > 2.
func (c Card) Strength() int {
	switch c.Rank() {
	case RankAs:
		return 9
	case RankTres:
		return 8
	case RankRey:
		return 7
	case RankCaballo:
		return 6
	case RankSota:
		return 5
	case RankSiete:
		return 4
	case RankSeis:
		return 3
	case RankCinco:
		return 2
	case RankCuatro:
		return 1
	}
	return 0
}

// Beats reports whether c outranks other inside the same suit.
func (c Card) Beats(other Card) bool {
	return c.Suit() == other.Suit() && c.Strength() > other.Strength()
}

// ID returns the stable wire identifier "<suit>_<rank>", e.g. "oros_1".
func (c Card) ID() string {
	if !c.Valid() {
		return ""
	}
	return SuitName(c.Suit()) + "_" + strconv.Itoa(int(c.Rank()))
}

func (c Card) String() string {
	if c == EmptyCard {
		return "--"
	}
	return c.ID()
}

// ParseCardID parses an identifier produced by Card.ID.
func ParseCardID(id string) (Card, error) {
	suitPart, rankPart, ok := strings.Cut(strings.TrimSpace(id), "_")
	if !ok {
		return EmptyCard, fmt.Errorf("malformed card id %q", id)
	}
	suit, err := ParseSuit(suitPart)
	if err != nil {
		return EmptyCard, err
	}
	rank, err := strconv.Atoi(rankPart)
	if err != nil || rank < 0 || rank > 15 || !ValidRank(uint8(rank)) {
		return EmptyCard, fmt.Errorf("invalid rank in card id %q", id)
	}
	return NewCard(suit, uint8(rank)), nil
}

// ---------------------------------------------------------------------------
// Phases
// ---------------------------------------------------------------------------

// Phase is the lifecycle stage of a deal.
type Phase uint8

const (
	PhaseDealing  Phase = iota // 0, waiting for the dealing animation acknowledgment
	PhasePlaying               // 1, draw pile still has cards
	PhaseArrastre              // 2, draw pile exhausted, forced-play rules apply
	PhaseScoring               // 3, last trick played
	PhaseGameOver              // 4
)

var phaseNames = [...]string{"dealing", "playing", "arrastre", "scoring", "gameOver"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// ParsePhase converts a wire phase name into a Phase.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if strings.EqualFold(n, name) {
			return Phase(i), nil
		}
	}
	// The authoritative server also reports these aliases.
	switch strings.ToLower(name) {
	case "game_over", "gameover", "finished":
		return PhaseGameOver, nil
	case "deal":
		return PhaseDealing, nil
	}
	return PhaseDealing, fmt.Errorf("unknown phase %q", name)
}

// InPlay reports whether cards can be played in this phase.
func (p Phase) InPlay() bool { return p == PhasePlaying || p == PhaseArrastre }

// ---------------------------------------------------------------------------
// Tricks, teams and declarations
// ---------------------------------------------------------------------------

// TrickCard is one play inside a trick.
type TrickCard struct {
	Player uint8
	Card   Card
}

// Trick holds up to NumPlayers plays in play order.
type Trick struct {
	Cards [NumPlayers]TrickCard
	Len   uint8
}

// Empty reports whether no card has been played to the trick.
func (t *Trick) Empty() bool { return t.Len == 0 }

// Complete reports whether every seat has played.
func (t *Trick) Complete() bool { return t.Len == NumPlayers }

// LedSuit returns the suit of the first card, or false if the trick is empty.
func (t *Trick) LedSuit() (uint8, bool) {
	if t.Len == 0 {
		return 0, false
	}
	return t.Cards[0].Card.Suit(), true
}

// Plays returns the plays made so far (allocates).
func (t *Trick) Plays() []TrickCard {
	out := make([]TrickCard, t.Len)
	copy(out, t.Cards[:t.Len])
	return out
}

func (t *Trick) add(player uint8, c Card) {
	t.Cards[t.Len] = TrickCard{Player: player, Card: c}
	t.Len++
}

func (t *Trick) clear() { *t = Trick{} }

// Cante is a declared King+Knight pair.
type Cante struct {
	Suit    uint8
	Points  int
	Visible bool
}

// Team accumulates the points of two partnered seats.
type Team struct {
	Score      int // cumulative score, cantes included; vueltas add on top of idas
	CardPoints int // trick points plus last-trick bonus, no cantes
	Cantes     [NumSuits]Cante
	NumCantes  uint8
	TricksWon  uint8 // this deal
}

// HasCanted reports whether the team already declared suit this deal.
func (t *Team) HasCanted(suit uint8) bool {
	for i := uint8(0); i < t.NumCantes; i++ {
		if t.Cantes[i].Suit == suit {
			return true
		}
	}
	return false
}

// CanteList returns the declared cantes (allocates).
func (t *Team) CanteList() []Cante {
	out := make([]Cante, t.NumCantes)
	copy(out, t.Cantes[:t.NumCantes])
	return out
}

// PlayerState holds one seat's hand.
type PlayerState struct {
	Hand    [MaxHandSize]Card
	HandLen uint8
}

// Cards returns the hand as a slice (allocates).
func (p *PlayerState) Cards() []Card {
	out := make([]Card, p.HandLen)
	copy(out, p.Hand[:p.HandLen])
	return out
}

func (p *PlayerState) indexOf(c Card) int {
	for i := uint8(0); i < p.HandLen; i++ {
		if p.Hand[i] == c {
			return int(i)
		}
	}
	return -1
}

func (p *PlayerState) has(c Card) bool { return p.indexOf(c) >= 0 }

// removeAt removes the card at idx keeping the remaining order.
func (p *PlayerState) removeAt(idx int) Card {
	c := p.Hand[idx]
	copy(p.Hand[idx:p.HandLen-1], p.Hand[idx+1:p.HandLen])
	p.HandLen--
	p.Hand[p.HandLen] = EmptyCard
	return c
}

func (p *PlayerState) push(c Card) {
	p.Hand[p.HandLen] = c
	p.HandLen++
}

// ---------------------------------------------------------------------------
// LastActionInfo, public observation of the last game action.
// ---------------------------------------------------------------------------

// ActionType identifies a state-changing operation.
type ActionType uint8

const (
	ActionNone ActionType = iota
	ActionDeal
	ActionPlayCard
	ActionTrickWon
	ActionCantar
	ActionCambiar7
	ActionDeclareVictory
	ActionRenuncio
	ActionRemoteSync
)

var actionNames = [...]string{"none", "deal", "play_card", "trick_won", "cantar", "cambiar7", "declare_victory", "renuncio", "remote_sync"}

func (a ActionType) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// LastActionInfo is a fully observable summary of the most recent action.
type LastActionInfo struct {
	Type   ActionType
	Player uint8
	Card   Card
	Suit   uint8
	Points int
	Winner uint8 // trick winner for ActionTrickWon
}
