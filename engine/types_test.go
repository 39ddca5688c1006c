package engine

import "testing"

// TestCardPacking verifies suit and rank survive packing for every card.
func TestCardPacking(t *testing.T) {
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := NewCard(suit, rank)
			if c.Suit() != suit || c.Rank() != rank {
				t.Errorf("NewCard(%d, %d) unpacked to (%d, %d)", suit, rank, c.Suit(), c.Rank())
			}
			if !c.Valid() {
				t.Errorf("NewCard(%d, %d) not valid", suit, rank)
			}
		}
	}
	if EmptyCard.Valid() {
		t.Error("EmptyCard reported valid")
	}
	if NewCard(SuitOros, 8).Valid() {
		t.Error("rank 8 reported valid")
	}
}

// TestCardPointsTotal verifies the deck holds 120 card points.
func TestCardPointsTotal(t *testing.T) {
	total := 0
	for _, suit := range Suits {
		for _, rank := range Ranks {
			total += NewCard(suit, rank).Points()
		}
	}
	if total != 120 {
		t.Fatalf("deck points = %d, want 120", total)
	}
	if total+LastTrickBonus != TotalDealPoints {
		t.Errorf("deck points + bonus = %d, want %d", total+LastTrickBonus, TotalDealPoints)
	}
}

func TestCardPoints(t *testing.T) {
	tests := []struct {
		rank uint8
		want int
	}{
		{RankAs, 11},
		{RankTres, 10},
		{RankRey, 4},
		{RankCaballo, 3},
		{RankSota, 2},
		{RankSiete, 0},
		{RankDos, 0},
	}
	for _, tt := range tests {
		if got := NewCard(SuitBastos, tt.rank).Points(); got != tt.want {
			t.Errorf("rank %d Points() = %d, want %d", tt.rank, got, tt.want)
		}
	}
}

// TestStrengthOrder verifies 1 > 3 > 12 > 11 > 10 > 7 > 6 > 5 > 4 > 2.
func TestStrengthOrder(t *testing.T) {
	order := []uint8{RankAs, RankTres, RankRey, RankCaballo, RankSota, RankSiete, RankSeis, RankCinco, RankCuatro, RankDos}
	for i := 1; i < len(order); i++ {
		hi := NewCard(SuitCopas, order[i-1])
		lo := NewCard(SuitCopas, order[i])
		if !hi.Beats(lo) {
			t.Errorf("%s should beat %s", hi, lo)
		}
		if lo.Beats(hi) {
			t.Errorf("%s should not beat %s", lo, hi)
		}
	}
	if NewCard(SuitOros, RankAs).Beats(NewCard(SuitCopas, RankDos)) {
		t.Error("Beats must not cross suits")
	}
}

func TestCardID(t *testing.T) {
	c := NewCard(SuitOros, RankAs)
	if c.ID() != "oros_1" {
		t.Fatalf("ID() = %q, want oros_1", c.ID())
	}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := NewCard(suit, rank)
			got, err := ParseCardID(c.ID())
			if err != nil {
				t.Fatalf("ParseCardID(%q): %v", c.ID(), err)
			}
			if got != c {
				t.Errorf("ParseCardID(%q) = %s", c.ID(), got)
			}
		}
	}
	for _, bad := range []string{"", "oros", "oros_8", "swords_1", "bastos_x", "copas_13"} {
		if _, err := ParseCardID(bad); err == nil {
			t.Errorf("ParseCardID(%q) succeeded, want error", bad)
		}
	}
}

func TestParsePhase(t *testing.T) {
	for p := PhaseDealing; p <= PhaseGameOver; p++ {
		got, err := ParsePhase(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePhase(%q) = %v, %v", p.String(), got, err)
		}
	}
	if got, err := ParsePhase("game_over"); err != nil || got != PhaseGameOver {
		t.Errorf("ParsePhase(game_over) = %v, %v", got, err)
	}
	if _, err := ParsePhase("nope"); err == nil {
		t.Error("ParsePhase(nope) succeeded")
	}
}

func TestReorderKeepsCards(t *testing.T) {
	g := buildDeal(t, [NumPlayers][]Card{}, NewCard(SuitCopas, RankAs))
	before := g.Hand(2)
	if err := g.ReorderHand(2, 0, 5); err != nil {
		t.Fatalf("ReorderHand: %v", err)
	}
	after := g.Hand(2)
	if after[5] != before[0] {
		t.Errorf("moved card = %s, want %s", after[5], before[0])
	}
	for i := 0; i < 5; i++ {
		if after[i] != before[i+1] {
			t.Errorf("after[%d] = %s, want %s", i, after[i], before[i+1])
		}
	}
	if err := g.ReorderHand(2, 5, 0); err != nil {
		t.Fatalf("ReorderHand back: %v", err)
	}
	for i, c := range g.Hand(2) {
		if c != before[i] {
			t.Errorf("round trip [%d] = %s, want %s", i, c, before[i])
		}
	}
	if err := g.ReorderHand(2, 0, 6); err == nil {
		t.Error("out-of-range reorder accepted")
	}
}
