package chess

import (
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Throttle lets a call through at most once per cooldown window. Calls inside
// the window are dropped, not delayed.
type Throttle struct {
	limiter *rate.Limiter
	clock   clockwork.Clock
	fn      func()
}

// NewThrottle wraps fn so it runs at most once per cooldown.
func NewThrottle(cooldown time.Duration, clock clockwork.Clock, fn func()) *Throttle {
	return &Throttle{
		limiter: rate.NewLimiter(rate.Every(cooldown), 1),
		clock:   clock,
		fn:      fn,
	}
}

// Call runs the wrapped function unless it already ran within the cooldown.
// It reports whether the function ran.
func (t *Throttle) Call() bool {
	if !t.limiter.AllowN(t.clock.Now(), 1) {
		return false
	}

	t.fn()
	return true
}
