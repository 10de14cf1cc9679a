package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/pkg/game"
)

// InboundMessage is the generic wrapper for messages coming from the server.
// The "type" field tells us the event; "payload" is the data we parse further.
type InboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event types
const (
	EventMove           = "move"
	EventReload         = "reload"
	EventResync         = "resync"
	EventAck            = "ack"
	EventPong           = "n"
	EventTakebackOffers = "takebackOffers"
	EventCrowd          = "crowd"
)

// ClockTimes carries both sides' remaining time in seconds
type ClockTimes struct {
	White float64 `json:"white"`
	Black float64 `json:"black"`
}

// ServerMove is a move confirmed by the server
type ServerMove struct {
	From     string      `json:"from"`
	To       string      `json:"to"`
	SAN      string      `json:"san"`
	Color    color.Color `json:"color"`
	Ply      int         `json:"ply,omitempty"`
	Captured string      `json:"captured,omitempty"` // square of the captured piece
	Clock    *ClockTimes `json:"clock,omitempty"`
}

// TakebackOffersPayload tells which sides currently propose a takeback
type TakebackOffersPayload struct {
	White bool `json:"white,omitempty"`
	Black bool `json:"black,omitempty"`
}

// CrowdPayload reports which players are connected to the game
type CrowdPayload struct {
	White bool `json:"white"`
	Black bool `json:"black"`
}

// ErrMissingField is wrapped by Validate when a required field is absent.
var ErrMissingField = errors.New("missing field")

// Validate checks that the move carries every field the controller relies on.
func (m ServerMove) Validate() error {
	switch {
	case !ValidSquare(m.From):
		return fmt.Errorf("%w: from %q", ErrMissingField, m.From)
	case !ValidSquare(m.To):
		return fmt.Errorf("%w: to %q", ErrMissingField, m.To)
	case m.SAN == "":
		return fmt.Errorf("%w: san", ErrMissingField)
	case !m.Color.Valid():
		return fmt.Errorf("%w: color %q", ErrMissingField, m.Color)
	case m.Captured != "" && !ValidSquare(m.Captured):
		return fmt.Errorf("%w: captured %q", ErrMissingField, m.Captured)
	}

	return nil
}

var sanRoles = map[byte]string{
	'Q': game.RoleQueen,
	'R': game.RoleRook,
	'B': game.RoleBishop,
	'N': game.RoleKnight,
	'K': game.RoleKing,
}

// PromotionRole returns the piece a promotion turns into, read from the
// "=X" suffix of the SAN. Empty when the move does not promote.
func (m ServerMove) PromotionRole() string {
	i := strings.IndexByte(m.SAN, '=')
	if i < 0 || i+1 >= len(m.SAN) {
		return ""
	}
	return sanRoles[m.SAN[i+1]]
}

// ValidSquare reports whether s is an algebraic square such as "e4".
func ValidSquare(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}

// DecodeAck reads the id carried by an ack frame.
func DecodeAck(msg InboundMessage) (int, error) {
	var id int
	if err := json.Unmarshal(msg.Payload, &id); err != nil {
		return 0, fmt.Errorf("decode ack: %w", err)
	}

	return id, nil
}
