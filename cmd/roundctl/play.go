package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/auth"
	"github.com/tecu23/roundctl/internal/i18n"
	"github.com/tecu23/roundctl/pkg/board"
	"github.com/tecu23/roundctl/pkg/config"
	"github.com/tecu23/roundctl/pkg/events"
	"github.com/tecu23/roundctl/pkg/manager"
	"github.com/tecu23/roundctl/pkg/repository"
	"github.com/tecu23/roundctl/pkg/round"
	"github.com/tecu23/roundctl/pkg/transport"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	GameURL      string
	SocketURL    string
	Lang         string
	MessagesFile string
	MoveOn       bool
}

// application holds the dependencies of a running client
type application struct {
	Auth      *auth.APIKeyAuth
	Logger    *zap.Logger
	Config    *config.Config
	Publisher *events.Publisher
	Manager   *manager.Manager
	Prefs     *repository.InMemoryPreferences
	Clock     clockwork.Clock

	StartTime time.Time
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a game and play it from the terminal",
		Long: `Join a game: fetch its snapshot, connect to its socket and read
commands from stdin.

Commands:
  e2e4            move (e7e8 then "promote n" to underpromote)
  promote <role>  finish a pending promotion (q, r, b, n or cancel)
  flip            flip the board
  takeback yes|no answer a takeback proposal
  replay | live   browse past moves or return to the game
  moveon          toggle moving on to the next game
  board | clock   print the position or the clocks`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{
				Debug:     opts.Debug,
				GameURL:   config.GetEnv("ROUND_GAME_URL", opts.GameURL),
				SocketURL: config.GetEnv("ROUND_SOCKET_URL", opts.SocketURL),
				APIKey:    os.Getenv("ROUND_API_KEY"),
				Lang:      config.GetEnv("ROUND_LANG", opts.Lang),
			}
			if cmd.Flags().Changed("game-url") {
				cfg.GameURL = opts.GameURL
			}
			if cmd.Flags().Changed("socket-url") {
				cfg.SocketURL = opts.SocketURL
			}

			timing, err := config.LoadTiming(opts.TimingFile)
			if err != nil {
				return err
			}
			cfg.Timing = timing

			return runPlay(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.GameURL, "game-url", "", "URL of the game snapshot")
	cmd.Flags().StringVar(&opts.SocketURL, "socket-url", "", "URL of the game socket")
	cmd.Flags().StringVar(&opts.Lang, "lang", "en", "language of the messages")
	cmd.Flags().StringVar(&opts.MessagesFile, "messages", "", "YAML file of translated messages")
	cmd.Flags().BoolVar(&opts.MoveOn, "move-on", false, "move on to the next game after moving")

	return cmd
}

func runPlay(parent context.Context, cfg *config.Config, opts *PlayOptions) error {
	if cfg.GameURL == "" || cfg.SocketURL == "" {
		return errors.New("game and socket urls are required")
	}

	// Initialize logger
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	publisher := events.NewPublisher()
	app := &application{
		Auth:      auth.NewAPIKeyAuth(cfg.APIKey),
		Logger:    logger,
		Config:    cfg,
		Publisher: publisher,
		Manager:   manager.NewManager(logger, publisher),
		Prefs:     repository.NewInMemoryPreferences(map[string]bool{round.MoveOnPref: opts.MoveOn}, logger),
		Clock:     clockwork.NewRealClock(),
		StartTime: time.Now(),
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := app.play(ctx, opts)
	app.Logger.Info("client stopped", zap.Duration("uptime", time.Since(app.StartTime)))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (app *application) play(ctx context.Context, opts *PlayOptions) error {
	data, err := fetchSnapshot(ctx, app.Config.GameURL, app.Auth)
	if err != nil {
		return err
	}

	entries, err := i18n.LoadEntries(opts.MessagesFile)
	if err != nil {
		return err
	}
	translator, err := i18n.New(app.Config.Lang, entries, app.Logger)
	if err != nil {
		return err
	}

	b, err := board.New(data.Game.FEN, data.Player.Color, app.Logger)
	if err != nil {
		return err
	}

	socket, err := transport.Dial(ctx, app.Config.SocketURL, app.Auth, app.Config.Timing, app.Clock, app.Logger)
	if err != nil {
		return err
	}
	defer socket.Close()

	promotion := round.NewPromotion(b, data.Pref.AutoQueen)
	moveOn := round.NewAutoNavigator(app.Prefs, app.Manager, app.Logger)

	ctrl, err := round.New(data, round.Options{
		Board:                 b,
		Transport:             socket,
		Promotion:             promotion,
		Translator:            translator,
		Sound:                 &logSound{logger: app.Logger},
		Title:                 &logTitle{translator: translator, logger: app.Logger},
		MoveOn:                moveOn,
		ClockDisplay:          &logClock{logger: app.Logger, format: formatClock},
		CorrespondenceDisplay: &logClock{logger: app.Logger, format: formatDeadline},
		Publisher:             app.Publisher,
		Clock:                 app.Clock,
		Timing:                app.Config.Timing,
	}, app.Logger)
	if err != nil {
		return err
	}

	session := round.NewSession(ctrl, socket.Inbound(), app.Logger)
	app.Manager.AddSession(session)
	defer app.Manager.RemoveSession(session.GameID())

	app.Publisher.Subscribe(events.EventNavigate, func(e events.Event) {
		app.Logger.Info("next game awaits", zap.String("game", e.GameID))
	})
	app.Publisher.Subscribe(events.EventTakebackOffers, func(e events.Event) {
		app.Logger.Info(translator.Trans("takebackOffered"), zap.Any("offers", e.Payload))
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	socketDone := make(chan error, 1)
	go func() { socketDone <- socket.Run(ctx) }()

	in := &input{
		session:   session,
		board:     b,
		promotion: promotion,
		moveOn:    moveOn,
		out:       os.Stdout,
		logger:    app.Logger,
	}
	go in.read(ctx, os.Stdin)

	sessionDone := make(chan error, 1)
	go func() { sessionDone <- session.Run(ctx) }()

	select {
	case err := <-socketDone:
		cancel()
		<-sessionDone
		if err != nil {
			return fmt.Errorf("socket: %w", err)
		}
		return nil
	case err := <-sessionDone:
		cancel()
		<-socketDone
		return err
	}
}
