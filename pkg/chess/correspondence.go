package chess

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/color"
)

// CorrespondenceClock tracks each side's move deadline in days-scale games
type CorrespondenceClock struct {
	whiteDeadline time.Time
	blackDeadline time.Time

	mu sync.RWMutex

	clock  clockwork.Clock
	hooks  Hooks
	logger *zap.Logger
}

// NewCorrespondenceClock creates a clock whose deadlines lie the given
// durations from now.
func NewCorrespondenceClock(
	white, black time.Duration,
	hooks Hooks,
	clock clockwork.Clock,
	logger *zap.Logger,
) *CorrespondenceClock {
	c := &CorrespondenceClock{
		clock:  clock,
		hooks:  hooks,
		logger: logger,
	}
	c.Update(white, black)

	return c
}

// Update moves both deadlines to the given remaining durations from now.
func (c *CorrespondenceClock) Update(white, black time.Duration) {
	now := c.clock.Now()

	c.mu.Lock()
	c.whiteDeadline = now.Add(white)
	c.blackDeadline = now.Add(black)
	c.mu.Unlock()

	if c.hooks.Display != nil {
		c.hooks.Display.Update(white, black)
	}
}

// Tick checks the active side's deadline against the wall clock.
func (c *CorrespondenceClock) Tick(active color.Color) {
	white, black := c.GetRemainingTime()

	if c.hooks.Display != nil {
		c.hooks.Display.Update(white, black)
	}

	remaining := white
	if active == color.Black {
		remaining = black
	}
	if remaining > 0 {
		return
	}

	c.logger.Debug("correspondence deadline passed", zap.String("color", string(active)))
	if c.hooks.OutOfTime != nil {
		c.hooks.OutOfTime()
	}
}

// GetRemainingTime returns the time left before each side's deadline, never
// negative.
func (c *CorrespondenceClock) GetRemainingTime() (white, black time.Duration) {
	now := c.clock.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	white = c.whiteDeadline.Sub(now)
	black = c.blackDeadline.Sub(now)
	if white < 0 {
		white = 0
	}
	if black < 0 {
		black = 0
	}

	return white, black
}

// FormatDeadline renders a correspondence remaining time, e.g. "2d 5h" or "4h 10m".
func FormatDeadline(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
