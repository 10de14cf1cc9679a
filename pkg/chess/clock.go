// Package chess implements the clock drivers of a round: a real-time clock
// ticked every few hundred milliseconds and a correspondence clock working
// against day-scale deadlines.
package chess

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/color"
)

// TimeControl defines the time settings of a real-time game
type TimeControl struct {
	White     time.Duration // remaining time
	Black     time.Duration
	Increment time.Duration
	Emerg     time.Duration // low time threshold, zero disables the alert

	// SoundColor is the side whose low time is announced. Empty for
	// spectators and simuls.
	SoundColor color.Color
}

// Display shows both sides' remaining time
type Display interface {
	Update(white, black time.Duration)
}

// Hooks are the side effects a clock driver triggers. Every field is optional.
type Hooks struct {
	// OutOfTime is the advisory claim that the active side flagged. Callers
	// rate-limit it, see Throttle.
	OutOfTime func()
	LowTime   func()
	Display   Display
}

// Clock is the real-time clock driver. It only counts down while running.
type Clock struct {
	whiteTime time.Duration
	blackTime time.Duration
	increment time.Duration
	emerg     time.Duration

	soundColor color.Color
	lowAlerted bool

	isRunning bool
	lastTick  time.Time

	mutex sync.RWMutex

	clock  clockwork.Clock
	hooks  Hooks
	logger *zap.Logger
}

// NewClock creates a stopped real-time clock with the given time control
func NewClock(tc TimeControl, hooks Hooks, clock clockwork.Clock, logger *zap.Logger) *Clock {
	return &Clock{
		whiteTime:  tc.White,
		blackTime:  tc.Black,
		increment:  tc.Increment,
		emerg:      tc.Emerg,
		soundColor: tc.SoundColor,
		lastTick:   clock.Now(),
		clock:      clock,
		hooks:      hooks,
		logger:     logger,
	}
}

// SetRunning starts or stops the countdown. Starting resets the last tick so
// time spent stopped is never charged to either side.
func (c *Clock) SetRunning(running bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if running && !c.isRunning {
		c.lastTick = c.clock.Now()
		c.logger.Debug("clock started")
	}
	c.isRunning = running
}

// Running reports whether the clock counts down.
func (c *Clock) Running() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.isRunning
}

// Tick charges the time elapsed since the previous tick to the active side.
func (c *Clock) Tick(active color.Color) {
	c.mutex.Lock()
	if !c.isRunning {
		c.mutex.Unlock()
		return
	}

	now := c.clock.Now()
	elapsed := now.Sub(c.lastTick)
	c.lastTick = now

	remaining := c.remainingLocked(active) - elapsed
	if remaining < 0 {
		remaining = 0
	}
	c.setLocked(active, remaining)

	lowTime := c.checkLowTimeLocked(active, remaining)
	white, black := c.whiteTime, c.blackTime
	c.mutex.Unlock()

	if c.hooks.Display != nil {
		c.hooks.Display.Update(white, black)
	}
	if lowTime && c.hooks.LowTime != nil {
		c.hooks.LowTime()
	}
	if remaining == 0 && c.hooks.OutOfTime != nil {
		c.hooks.OutOfTime()
	}
}

// Update replaces both sides' remaining time with authoritative values.
func (c *Clock) Update(white, black time.Duration) {
	c.mutex.Lock()
	c.whiteTime = white
	c.blackTime = black
	c.lastTick = c.clock.Now()
	if c.soundColor != "" && c.remainingLocked(c.soundColor) > c.emerg {
		c.lowAlerted = false
	}
	c.mutex.Unlock()

	if c.hooks.Display != nil {
		c.hooks.Display.Update(white, black)
	}
}

// GetRemainingTime returns the current remaining time for both players
func (c *Clock) GetRemainingTime() (white, black time.Duration) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.whiteTime, c.blackTime
}

// IsTimeUp checks if a player has run out of time
func (c *Clock) IsTimeUp(col color.Color) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.remainingLocked(col) <= 0
}

func (c *Clock) remainingLocked(col color.Color) time.Duration {
	if col == color.White {
		return c.whiteTime
	}
	return c.blackTime
}

func (c *Clock) setLocked(col color.Color, d time.Duration) {
	if col == color.White {
		c.whiteTime = d
	} else {
		c.blackTime = d
	}
}

// checkLowTimeLocked reports whether the low time alert fires now. It fires
// once per crossing of the threshold.
func (c *Clock) checkLowTimeLocked(active color.Color, remaining time.Duration) bool {
	if c.emerg <= 0 || active != c.soundColor || c.lowAlerted {
		return false
	}
	if remaining >= c.emerg {
		return false
	}

	c.lowAlerted = true
	return true
}

// FormatClockTime formats a duration to a user-friendly string (e.g., "1:30")
func FormatClockTime(d time.Duration) string {
	timeMs := d.Milliseconds()
	if timeMs < 0 {
		timeMs = 0
	}

	totalSeconds := timeMs / 1000
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	// For times less than 10 seconds, show decimal
	if timeMs < 10000 {
		tenths := (timeMs % 1000) / 100
		return fmt.Sprintf("%d.%d", totalSeconds, tenths)
	}

	if minutes >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", minutes/60, minutes%60, seconds)
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
