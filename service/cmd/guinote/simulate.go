package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/cache"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/database"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/game"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagSeed     uint64
	flagDB       string
	flagVerbose  bool
	flagMaxSteps int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play an offline match with four local bots",
	Long: `Play a complete match offline. Every seat is a bot that declares what it
can and then plays its first legal card, the same card the turn timer would
force. Finished deals are stored when a database is configured.

Examples:
  guinote simulate
  guinote simulate --seed 42 --verbose
  guinote simulate --db sqlite://~/.guinote/results.db`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "Shuffle seed (0 = based on time)")
	simulateCmd.Flags().StringVar(&flagDB, "db", "", "Result store DSN (default: GUINOTE_DATABASE_URL)")
	simulateCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Print every table event")
	simulateCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 20000, "Abort after this many operations")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, rules, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if cfg.RedisAddr != "" {
		if err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
			logrus.WithError(err).Warn("Action log disabled")
		} else {
			defer cache.Close()
		}
	}

	// Deals are played without a turn clock.
	rules.TurnTimerSec = 0
	g := game.NewGuinoteGame(rules, game.OfflineMode{})
	defer g.Close()

	dsn := cfg.DatabaseURL
	if flagDB != "" {
		dsn = flagDB
	}
	var store database.ResultStore
	var saved chan struct{}
	if dsn != "" {
		store, err = database.Open(ctx, dsn)
		if err != nil {
			return err
		}
		defer store.Close()
		saved = make(chan struct{}, 256)
		g.Results = notifyingSaver{ResultSaver: store, saved: saved}
	}

	g.BroadcastFn = func(ev game.GameEvent) {
		if flagVerbose {
			printEvent(out, ev)
		}
	}
	g.BroadcastToPlayerFn = func(uuid.UUID, game.GameEvent) {}

	players := newBots()
	for _, p := range players {
		g.AddPlayer(p)
	}

	seed := flagSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	g.Start(seed)

	deals, err := playOut(g, players, flagMaxSteps)
	if err != nil {
		return err
	}

	st := g.State()
	winner, _ := st.Match.Winner()
	fmt.Fprintf(out, "Match over after %d deals (seed %d): team %d wins, cotos %d-%d\n",
		deals, seed, winner+1, st.Match.Cotos(0), st.Match.Cotos(1))

	if store == nil {
		return nil
	}
	waitSaved(saved, deals, 5*time.Second)
	results, err := store.Results(ctx, g.ID)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(out, "  deal %2d: team %d  %3d-%-3d  (%s%s)\n",
			r.DealIndex, r.WinningTeam+1, r.Team1Score, r.Team2Score, r.Reason, vueltasTag(r.Vueltas))
	}
	return nil
}

func newBots() [engine.NumPlayers]*models.Player {
	var players [engine.NumPlayers]*models.Player
	for i := range players {
		players[i] = &models.Player{
			ID:        uuid.New(),
			Username:  fmt.Sprintf("Bot %d", i+1),
			Seat:      i,
			Connected: true,
			IsBot:     true,
		}
	}
	return players
}

var errStuck = errors.New("simulation made no progress")

// playOut drives an offline table until the match ends. It acknowledges
// every animation at once and plays each seat's forced card. It returns the
// number of deals finished.
func playOut(g *game.GuinoteGame, players [engine.NumPlayers]*models.Player, maxSteps int) (int, error) {
	deals := 0
	for step := 0; step < maxSteps; step++ {
		st := g.State()
		var ok bool
		switch {
		case st.Phase == engine.PhaseGameOver:
			deals++
			if st.MatchOver {
				return deals, nil
			}
			ok = g.NextDeal()
		case st.Phase == engine.PhaseDealing:
			ok = g.CompleteDealingAnimation()
		case st.TrickAnimating:
			ok = g.CompleteTrickAnimation()
		case st.PostTrickDealingAnimating:
			ok = g.CompletePostTrickDealing()
		case st.Phase == engine.PhaseScoring:
			ok = g.ContinueFromScoring()
		default:
			seat, acting := g.Mode.ActingSeat(&st)
			if !acting {
				return deals, fmt.Errorf("%w: no acting seat in %s", errStuck, st.Phase)
			}
			ok = botTurn(g, &st, players[seat].ID, seat)
		}
		if !ok {
			return deals, fmt.Errorf("%w at step %d (phase %s)", errStuck, step, st.Phase)
		}
	}
	return deals, fmt.Errorf("match not finished after %d steps", maxSteps)
}

// botTurn declares whatever seat may declare and plays the forced card.
func botTurn(g *game.GuinoteGame, st *engine.GameState, playerID uuid.UUID, seat uint8) bool {
	hand := st.Hand(seat)
	if st.Trick.Empty() {
		if engine.CanExchangeTrumpSeven(hand, st.TrumpCard, st.DeckLen, st.TrumpExchanged) {
			g.Cambiar7(playerID)
		}
		leads := (st.TrickCount == 0 && seat == st.FirstLeader()) || st.LastTrickWinner == int8(seat)
		if leads {
			for _, suit := range engine.CantableSuits(hand, st.TrumpSuit, &st.Teams[engine.TeamOf(seat)]) {
				g.Cantar(playerID, engine.SuitName(suit))
			}
		}
	}
	cur := g.State()
	card, ok := cur.ForcedPlay(seat)
	if !ok {
		return false
	}
	return g.PlayCard(playerID, card.ID())
}

// notifyingSaver signals after each stored result.
type notifyingSaver struct {
	game.ResultSaver
	saved chan struct{}
}

func (s notifyingSaver) SaveResult(ctx context.Context, res models.GameResult) error {
	err := s.ResultSaver.SaveResult(ctx, res)
	select {
	case s.saved <- struct{}{}:
	default:
	}
	return err
}

func waitSaved(saved <-chan struct{}, n int, timeout time.Duration) {
	deadline := time.After(timeout)
	for i := 0; i < n; i++ {
		select {
		case <-saved:
		case <-deadline:
			logrus.Warnf("Only %d of %d results stored", i, n)
			return
		}
	}
}

func vueltasTag(v bool) string {
	if v {
		return ", vueltas"
	}
	return ""
}

func printEvent(w io.Writer, ev game.GameEvent) {
	who := ""
	if ev.User != nil {
		who = fmt.Sprintf(" seat %d", ev.User.Seat)
	}
	card := ""
	if ev.Card != nil {
		card = " " + ev.Card.ID
	}
	fmt.Fprintf(w, "%-18s%s%s %v\n", ev.Type, who, card, ev.Payload)
}
