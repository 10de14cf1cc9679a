package round

import (
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/chess"
	"github.com/tecu23/roundctl/pkg/events"
	"github.com/tecu23/roundctl/pkg/game"
)

// Tick runs the clock driver bound at construction.
func (c *Controller) Tick() {
	c.tick()
}

// TickInterval is the cadence the bound clock driver expects.
func (c *Controller) TickInterval() time.Duration {
	return c.tickInterval
}

// IsClockRunning reports whether the real-time clock counts down: the game
// is playable and either both sides made their first move or the server
// says the clock runs.
func (c *Controller) IsClockRunning() bool {
	return c.data.Clock != nil &&
		c.data.Playable() &&
		(c.data.MovesSinceStart() > 1 || c.data.Clock.Running)
}

// ClockRemaining returns both sides' remaining time from whichever driver
// runs. ok is false for games without a clock.
func (c *Controller) ClockRemaining() (white, black time.Duration, ok bool) {
	switch {
	case c.clock != nil:
		white, black = c.clock.GetRemainingTime()
		return white, black, true
	case c.correspondenceClock != nil:
		white, black = c.correspondenceClock.GetRemainingTime()
		return white, black, true
	default:
		return 0, 0, false
	}
}

func (c *Controller) makeClock(display chess.Display) *chess.Clock {
	tc := chess.TimeControl{
		Increment: game.Seconds(c.data.Clock.Increment),
		Emerg:     game.Seconds(c.data.Clock.Emerg),
	}
	tc.White, tc.Black = c.data.Clock.Remaining()
	if c.data.Pref.ClockSound && !c.data.Player.Spectator && !c.data.Simul {
		tc.SoundColor = c.data.Player.Color
	}

	return chess.NewClock(tc, chess.Hooks{
		OutOfTime: c.claimOutOfTime,
		LowTime:   c.sound.LowTime,
		Display:   display,
	}, c.clk, c.logger)
}

// makeCorrespondenceClock creates the correspondence driver the first time
// the state carries a correspondence config. Real-time sessions never get one.
func (c *Controller) makeCorrespondenceClock() {
	if c.clock != nil || c.correspondenceClock != nil || c.data.Correspondence == nil {
		return
	}

	white, black := c.data.Correspondence.Remaining()
	c.correspondenceClock = chess.NewCorrespondenceClock(white, black, chess.Hooks{
		OutOfTime: c.claimOutOfTime,
		Display:   c.correspondenceDisplay,
	}, c.clk, c.logger)
	c.logger.Debug("correspondence clock created")
}

func (c *Controller) clockTick() {
	c.syncClockRunning()
	if c.clock.Running() {
		c.clock.Tick(c.data.Game.Player)
	}
}

// syncClockRunning starts or stops the real-time driver as soon as the state
// changes, so the first running tick charges from the move that started it.
func (c *Controller) syncClockRunning() {
	if c.clock != nil {
		c.clock.SetRunning(c.IsClockRunning())
	}
}

func (c *Controller) correspondenceClockTick() {
	if c.correspondenceClock != nil && c.data.Playable() {
		c.correspondenceClock.Tick(c.data.Game.Player)
	}
}

func (c *Controller) claimOutOfTime() {
	c.outOfTime.Call()
}

func (c *Controller) sendOutOfTime() {
	c.logger.Debug("claiming out of time", zap.String("color", string(c.data.Game.Player)))
	c.transport.Send(messages.EventOutOfTime, nil, messages.SendOptions{})
	c.publisher.Publish(events.Event{
		Type:    events.EventOutOfTimeClaimed,
		GameID:  c.data.Game.ID,
		Payload: c.data.Game.Player,
	})
}

// pushClock hands authoritative times from the server to the real-time
// driver.
func (c *Controller) pushClock(white, black float64) {
	if c.clock == nil || c.data.Clock == nil {
		return
	}

	c.data.Clock.White = white
	c.data.Clock.Black = black
	c.clock.Update(game.Seconds(white), game.Seconds(black))
}
