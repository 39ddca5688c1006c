package engine

import "fmt"

// qualifies reports whether team meets both winning thresholds on its
// cumulative totals: score ≥ 101 and card points ≥ 30.
func (g *GameState) qualifies(team uint8) bool {
	t := &g.Teams[team]
	return t.Score >= WinningScore && t.CardPoints >= MinCardPoints
}

// decideWinner returns the team that wins the deal once every trick has been
// played, or NoSeat if the deal must go on to vueltas.
//
// Rules:
//   - one qualifying team wins outright;
//   - if both qualify, the higher score wins, ties going to the team that
//     took the last trick;
//   - if neither qualifies after idas, vueltas follow;
//   - if neither qualifies after vueltas, the higher score wins (same tiebreak).
func (g *GameState) decideWinner() int8 {
	q0, q1 := g.qualifies(0), g.qualifies(1)
	switch {
	case q0 && !q1:
		return 0
	case q1 && !q0:
		return 1
	case !q0 && !q1 && !g.IsVueltas:
		return NoSeat
	}
	return g.leader()
}

// leader returns the team with the higher score, ties going to the team
// that took the last trick.
func (g *GameState) leader() int8 {
	s0, s1 := g.Teams[0].Score, g.Teams[1].Score
	switch {
	case s0 > s1:
		return 0
	case s1 > s0:
		return 1
	}
	if g.LastTrickWinner >= 0 {
		return int8(TeamOf(uint8(g.LastTrickWinner)))
	}
	return 0
}

// PendingWinner reports the team that would win if the deal were scored now.
// Meaningful only in PhaseScoring.
func (g *GameState) PendingWinner() (uint8, bool) {
	if g.Phase != PhaseScoring {
		return 0, false
	}
	w := g.decideWinner()
	if w < 0 {
		return 0, false
	}
	return uint8(w), true
}

// ContinueFromScoring leaves the scoring phase: the game ends if a team has
// won, otherwise the vueltas deal starts with the current scores recorded in
// InitialScores.
func (g *GameState) ContinueFromScoring() error {
	if g.Phase != PhaseScoring {
		return fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	if g.TrickAnimating {
		return ErrAnimationPending
	}
	if w := g.decideWinner(); w >= 0 {
		g.finishGame(uint8(w))
		return nil
	}
	g.startVueltas()
	return nil
}

// startVueltas snapshots the idas totals and re-deals with the next dealer.
func (g *GameState) startVueltas() {
	for t := range g.Teams {
		g.InitialScores[t] = g.Teams[t].Score
		g.InitialCardPoints[t] = g.Teams[t].CardPoints
	}
	g.IsVueltas = true
	g.Dealer = NextSeat(g.Dealer)
	g.Deal()
}

// finishGame ends the deal in team's favor and records the partida.
func (g *GameState) finishGame(team uint8) {
	g.Phase = PhaseGameOver
	g.Winner = int8(team)
	g.revealCantes()
	_, over := g.Match.RecordPartida(team)
	g.MatchOver = over
}

// revealCantes makes every hidden trump cante visible.
func (g *GameState) revealCantes() {
	for t := range g.Teams {
		for i := uint8(0); i < g.Teams[t].NumCantes; i++ {
			g.Teams[t].Cantes[i].Visible = true
		}
	}
}

// Outcome summarises a finished deal.
type Outcome struct {
	Winner     uint8
	Scores     [NumTeams]int
	CardPoints [NumTeams]int
	Vueltas    bool
	MatchOver  bool
}

// Outcome returns the result of the deal once it is over.
func (g *GameState) Outcome() (Outcome, bool) {
	if g.Phase != PhaseGameOver || g.Winner < 0 {
		return Outcome{}, false
	}
	o := Outcome{
		Winner:    uint8(g.Winner),
		Vueltas:   g.IsVueltas,
		MatchOver: g.MatchOver,
	}
	for t := range g.Teams {
		o.Scores[t] = g.Teams[t].Score
		o.CardPoints[t] = g.Teams[t].CardPoints
	}
	return o, true
}
