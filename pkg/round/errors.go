package round

import (
	"errors"
	"fmt"
)

// Construction errors
var (
	ErrConflictingClocks = errors.New("session has both a real-time and a correspondence clock")
	ErrMissingBoard      = errors.New("board is required")
	ErrMissingTransport  = errors.New("transport is required")
	ErrMissingColor      = errors.New("player color is required")
)

// ProtocolError is a malformed or out of order server message. The local
// state is untrusted until the next full reload.
type ProtocolError struct {
	Event  string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol violation on %s: %s: %v", e.Event, e.Reason, e.Err)
	}
	return fmt.Sprintf("protocol violation on %s: %s", e.Event, e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
