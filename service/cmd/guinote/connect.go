package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	engine "github.com/miguelartazos/Guinote-Mobile-APP-sub000/engine"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/database"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/game"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/remote"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagServer string
	flagGame   string
	flagPlayer string
	flagSeat   int
	flagToken  string
	flagAuto   bool
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Join an online table",
	Long: `Connect one seat to a table owned by the authoritative server. The local
view only changes through server snapshots; plays are sent to the server.
With --auto the seat plays its first legal card whenever it is its turn.

Examples:
  guinote connect --server ws://localhost:8080/game --game <uuid> --player <uuid>
  guinote connect --game <uuid> --player <uuid> --seat 2 --auto`,
	Args: cobra.NoArgs,
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().StringVar(&flagServer, "server", "", "Websocket URL of the server (default: GUINOTE_SERVER_URL)")
	connectCmd.Flags().StringVar(&flagGame, "game", "", "Game id")
	connectCmd.Flags().StringVar(&flagPlayer, "player", "", "Player id of this seat")
	connectCmd.Flags().IntVar(&flagSeat, "seat", 0, "Local seat of this player (0-3)")
	connectCmd.Flags().StringVar(&flagToken, "token", "", "Bearer token sent on connect")
	connectCmd.Flags().BoolVar(&flagAuto, "auto", false, "Play the first legal card automatically")
	_ = connectCmd.MarkFlagRequired("game")
	_ = connectCmd.MarkFlagRequired("player")
}

func runConnect(cmd *cobra.Command, _ []string) error {
	cfg, rules, err := setup()
	if err != nil {
		return err
	}
	server := cfg.ServerURL
	if flagServer != "" {
		server = flagServer
	}
	if server == "" {
		return errors.New("no server: pass --server or set GUINOTE_SERVER_URL")
	}
	gameID, err := uuid.Parse(flagGame)
	if err != nil {
		return fmt.Errorf("invalid --game: %w", err)
	}
	playerID, err := uuid.Parse(flagPlayer)
	if err != nil {
		return fmt.Errorf("invalid --player: %w", err)
	}
	if flagSeat < 0 || flagSeat >= engine.NumPlayers {
		return fmt.Errorf("invalid --seat %d", flagSeat)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := remote.Dial(ctx, server, gameID, flagToken)
	if err != nil {
		return err
	}
	defer client.Close()

	seat := uint8(flagSeat)
	g := game.NewGuinoteGame(rules, game.OnlineMode{Seat: seat})
	g.SetID(gameID)
	g.Authority = client
	g.RemoteTimeout = cfg.RequestTimeout
	defer g.Close()

	if cfg.DatabaseURL != "" {
		store, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		g.Results = store
	}

	log := logrus.WithFields(logrus.Fields{"game_id": gameID, "seat": seat})
	turns := make(chan struct{}, 1)
	g.BroadcastFn = func(ev game.GameEvent) {
		log.WithField("payload", ev.Payload).Infof("%s", ev.Type)
		if ev.Type == game.EventGamePlayerTurn && ev.User != nil && ev.User.Seat == int(seat) {
			select {
			case turns <- struct{}{}:
			default:
			}
		}
	}
	g.BroadcastToPlayerFn = func(_ uuid.UUID, ev game.GameEvent) {
		log.WithField("payload", ev.Payload).Debugf("private %s", ev.Type)
	}
	g.AddPlayer(&models.Player{ID: playerID, Seat: flagSeat, Connected: true})
	g.Start(0)

	poller := &remote.Poller{
		Syncer:   client,
		Interval: cfg.PollInterval,
		Timeout:  cfg.RequestTimeout,
		Since:    g.LastAppliedVersion,
	}
	go poller.Run(ctx)

	if flagAuto {
		go autoPlay(ctx, g, playerID, seat, turns)
	}

	return client.Run(ctx, func(snap *models.ServerSnapshot) {
		if out := g.ReceiveSnapshot(snap); out != game.OutcomeApplied {
			log.Debugf("Snapshot v%d %s", snap.Version, out)
		}
		settle(g)
	})
}

// settle acknowledges every pending animation; a terminal client has none
// to wait for.
func settle(g *game.GuinoteGame) {
	for i := 0; i < 3; i++ {
		st := g.State()
		switch {
		case st.Phase == engine.PhaseDealing && st.CardsInPlay() > 0:
			g.CompleteDealingAnimation()
		case st.TrickAnimating:
			g.CompleteTrickAnimation()
		case st.PostTrickDealingAnimating:
			g.CompletePostTrickDealing()
		default:
			return
		}
	}
}

// autoPlay plays the forced card each time the seat's turn is announced.
func autoPlay(ctx context.Context, g *game.GuinoteGame, playerID uuid.UUID, seat uint8, turns <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-turns:
			st := g.State()
			if card, ok := st.ForcedPlay(seat); ok {
				g.PlayCard(playerID, card.ID())
			}
		}
	}
}
