// Package round is the controller of a single game session: it turns user
// moves into server requests, folds confirmed server moves and snapshots into
// the local state and drives whichever clock the game uses.
package round

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/internal/i18n"
	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/chess"
	"github.com/tecu23/roundctl/pkg/config"
	"github.com/tecu23/roundctl/pkg/events"
	"github.com/tecu23/roundctl/pkg/game"
)

// Options are the collaborators of a controller. Board and Transport are
// required, everything else falls back to a silent default.
type Options struct {
	Board     Board
	Transport Transport

	Promotion  PromotionChooser
	Translator Translator
	Sound      Sound
	Title      Title
	MoveOn     MoveOn
	Hold       Hold
	Blur       Blur

	ClockDisplay          chess.Display
	CorrespondenceDisplay chess.Display

	Quiet     *QuietMode
	Publisher *events.Publisher
	Clock     clockwork.Clock
	Timing    config.Timing
}

type viewModel struct {
	flip bool
	// untrusted is set after a protocol violation and cleared by the next
	// reload. Moves are dropped meanwhile.
	untrusted bool
	// holdTime of the last user move, sent along with it
	holdTime time.Duration
}

// Controller owns the session state. It is not safe for concurrent use: a
// Session serializes every call onto one goroutine.
type Controller struct {
	data game.Data
	vm   viewModel

	board      Board
	transport  Transport
	promotion  PromotionChooser
	translator Translator
	sound      Sound
	title      Title
	moveOn     MoveOn
	hold       Hold
	blur       Blur

	clock                 *chess.Clock
	correspondenceClock   *chess.CorrespondenceClock
	correspondenceDisplay chess.Display
	outOfTime             *chess.Throttle

	tick         func()
	tickInterval time.Duration

	replay    *ReplayGate
	txDepth   int
	publisher *events.Publisher
	quiet     *QuietMode
	clk       clockwork.Clock
	logger    *zap.Logger
}

// New creates the controller of a session from its initial snapshot. The
// clock kind is decided here once: a snapshot with a real-time clock gets the
// real-time driver, any other one the correspondence driver.
func New(data game.Data, opts Options, logger *zap.Logger) (*Controller, error) {
	if opts.Board == nil {
		return nil, ErrMissingBoard
	}
	if opts.Transport == nil {
		return nil, ErrMissingTransport
	}
	if data.Clock != nil && data.Correspondence != nil {
		return nil, ErrConflictingClocks
	}
	if !data.Player.Color.Valid() {
		return nil, ErrMissingColor
	}

	timing := opts.Timing
	if timing == (config.Timing{}) {
		timing = config.DefaultTiming()
	}
	if err := timing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing: %w", err)
	}

	c := &Controller{
		data:                  game.Merge(game.Data{}, data),
		board:                 opts.Board,
		transport:             opts.Transport,
		promotion:             opts.Promotion,
		translator:            opts.Translator,
		sound:                 opts.Sound,
		title:                 opts.Title,
		moveOn:                opts.MoveOn,
		hold:                  opts.Hold,
		blur:                  opts.Blur,
		correspondenceDisplay: opts.CorrespondenceDisplay,
		publisher:             opts.Publisher,
		quiet:                 opts.Quiet,
		clk:                   opts.Clock,
		logger:                logger.With(zap.String("game", data.Game.ID)),
	}
	c.setDefaults()

	c.outOfTime = chess.NewThrottle(
		timing.OutOfTimeCooldown(c.data.Player.Spectator),
		c.clk,
		c.sendOutOfTime,
	)

	if c.data.Clock != nil {
		c.clock = c.makeClock(opts.ClockDisplay)
		c.syncClockRunning()
		c.tick = c.clockTick
		c.tickInterval = timing.ClockTick
	} else {
		c.makeCorrespondenceClock()
		c.tick = c.correspondenceClockTick
		c.tickInterval = timing.CorrespondenceTick
	}

	c.replay = newReplayGate(c)
	c.board.Bind(c)
	c.board.SetOrientation(c.orientation())
	c.setQuietMode()

	c.logger.Info("round session created",
		zap.String("color", string(c.data.Player.Color)),
		zap.Bool("spectator", c.data.Player.Spectator),
		zap.String("variant", c.data.Game.Variant.Key.String()),
		zap.Bool("realtime", c.clock != nil),
	)

	return c, nil
}

func (c *Controller) setDefaults() {
	if c.promotion == nil {
		c.promotion = nopPromotion{}
	}
	if c.translator == nil {
		c.translator = nopTranslator{}
	}
	if c.sound == nil {
		c.sound = nopSound{}
	}
	if c.title == nil {
		c.title = nopTitle{}
	}
	if c.moveOn == nil {
		c.moveOn = nopMoveOn{}
	}
	if c.blur == nil {
		c.blur = focused{}
	}
	if c.hold == nil {
		c.hold = NewHoldRecorder(c.transport, c.logger)
	}
	if c.publisher == nil {
		c.publisher = events.NewPublisher()
	}
	if c.quiet == nil {
		c.quiet = DefaultQuietMode
	}
	if c.clk == nil {
		c.clk = clockwork.NewRealClock()
	}
}

// Data returns a copy of the current session state.
func (c *Controller) Data() game.Data {
	return c.data.Clone()
}

// GameID returns the id of the game this controller plays.
func (c *Controller) GameID() string {
	return c.data.Game.ID
}

// Replay returns the replay gate of the session.
func (c *Controller) Replay() *ReplayGate {
	return c.replay
}

// Subscribe registers a handler on the session's publisher.
func (c *Controller) Subscribe(eventType events.EventType, handler events.Handler) {
	c.publisher.Subscribe(eventType, handler)
}

// Untrusted reports whether a protocol violation is waiting for a reload.
func (c *Controller) Untrusted() bool {
	return c.vm.untrusted
}

// Flipped reports whether the board shows the opponent's side.
func (c *Controller) Flipped() bool {
	return c.vm.flip
}

// FlipBoard toggles the board orientation.
func (c *Controller) FlipBoard() {
	c.beginUpdate()
	c.vm.flip = !c.vm.flip
	c.board.SetOrientation(c.orientation())
	c.endUpdate()
}

// RespondTakeback answers the opponent's takeback proposal.
func (c *Controller) RespondTakeback(accept bool) {
	if accept {
		c.transport.Send(messages.EventTakebackYes, nil, messages.SendOptions{})
		c.board.CancelPremove()
		return
	}

	c.transport.Send(messages.EventTakebackNo, nil, messages.SendOptions{})
}

// Trans resolves a user facing string.
func (c *Controller) Trans(key string, args ...interface{}) string {
	return c.translator.Trans(key, args...)
}

func (c *Controller) orientation() color.Color {
	if c.vm.flip {
		return c.data.Player.Color.Opp()
	}
	return c.data.Player.Color
}

// beginUpdate and endUpdate bracket a group of changes. Observers get a
// single redraw when the outermost group ends.
func (c *Controller) beginUpdate() {
	c.txDepth++
}

func (c *Controller) endUpdate() {
	c.txDepth--
	if c.txDepth > 0 {
		return
	}

	c.txDepth = 0
	c.publisher.Publish(events.Event{Type: events.EventRedraw, GameID: c.data.Game.ID})
}

func (c *Controller) setQuietMode() {
	c.quiet.Set(c.data.IsPlayerPlaying())
}

func translateRaw(key string, args ...interface{}) string {
	return i18n.Substitute(key, args...)
}
