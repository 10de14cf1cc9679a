package round

import "sync/atomic"

// QuietMode is the process wide flag telling presence and notification
// systems to keep quiet while the player is in a game. Controllers write it;
// everything else only reads.
type QuietMode struct {
	enabled atomic.Bool
}

// DefaultQuietMode is the flag shared by every controller built without an
// explicit one.
var DefaultQuietMode = &QuietMode{}

// Enabled reports whether quiet mode is on.
func (q *QuietMode) Enabled() bool {
	return q.enabled.Load()
}

// Set turns quiet mode on or off.
func (q *QuietMode) Set(v bool) {
	q.enabled.Store(v)
}
