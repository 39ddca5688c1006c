package engine

import "fmt"

// MatchScore tracks partidas and cotos across deals. A partida is a won deal;
// PartidasPerCoto partidas make a coto and CotosPerMatch cotos win the match.
type MatchScore struct {
	Team1Partidas   int
	Team2Partidas   int
	Team1Cotos      int
	Team2Cotos      int
	CotosPerMatch   uint8
	PartidasPerCoto uint8
}

// NewMatchScore returns an empty score sized by rules.
func NewMatchScore(rules HouseRules) MatchScore {
	return MatchScore{
		CotosPerMatch:   rules.cotosPerMatch(),
		PartidasPerCoto: rules.partidasPerCoto(),
	}
}

// Partidas returns the partidas team has won in the current coto.
func (m *MatchScore) Partidas(team uint8) int {
	if team == 0 {
		return m.Team1Partidas
	}
	return m.Team2Partidas
}

// Cotos returns the cotos team has won.
func (m *MatchScore) Cotos(team uint8) int {
	if team == 0 {
		return m.Team1Cotos
	}
	return m.Team2Cotos
}

// Winner returns the team that has taken the match, if any.
func (m *MatchScore) Winner() (uint8, bool) {
	target := int(m.CotosPerMatch)
	if target == 0 {
		target = 2
	}
	switch {
	case m.Team1Cotos >= target:
		return 0, true
	case m.Team2Cotos >= target:
		return 1, true
	}
	return 0, false
}

// RecordPartida credits team with a won deal. Completing a coto resets both
// sides' partidas.
func (m *MatchScore) RecordPartida(team uint8) (cotoWon, matchOver bool) {
	per := int(m.PartidasPerCoto)
	if per == 0 {
		per = 2
	}
	partidas, cotos := &m.Team1Partidas, &m.Team1Cotos
	if team == 1 {
		partidas, cotos = &m.Team2Partidas, &m.Team2Cotos
	}
	*partidas++
	if *partidas >= per {
		*cotos++
		m.Team1Partidas, m.Team2Partidas = 0, 0
		cotoWon = true
	}
	_, matchOver = m.Winner()
	return cotoWon, matchOver
}

// NextDeal starts the next partida of the match after a finished deal. The
// dealer rotates, deal-scoped totals reset and MatchScore carries over.
func (g *GameState) NextDeal() error {
	if g.Phase != PhaseGameOver {
		return fmt.Errorf("%w: %s", ErrWrongPhase, g.Phase)
	}
	if g.MatchOver {
		return ErrMatchOver
	}
	for t := range g.Teams {
		g.Teams[t] = Team{}
	}
	g.InitialScores = [NumTeams]int{}
	g.InitialCardPoints = [NumTeams]int{}
	g.IsVueltas = false
	g.Winner = NoSeat
	g.Dealer = NextSeat(g.Dealer)
	g.Deal()
	return nil
}

// NewMatch resets the match score and starts a fresh first deal.
func (g *GameState) NewMatch() {
	g.Match = NewMatchScore(g.Rules)
	g.MatchOver = false
	for t := range g.Teams {
		g.Teams[t] = Team{}
	}
	g.InitialScores = [NumTeams]int{}
	g.InitialCardPoints = [NumTeams]int{}
	g.IsVueltas = false
	g.Winner = NoSeat
	g.Deal()
}
