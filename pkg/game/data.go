// Package game holds the session state of a single round: who plays, the
// game status, the move list and the clock configuration.
package game

import (
	"time"

	"github.com/tecu23/roundctl/internal/color"
)

// User identifies a connected account
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Player is the local side of the board. A spectator still has a color: the
// side the board is oriented to.
type Player struct {
	Color     color.Color `json:"color"`
	Spectator bool        `json:"spectator,omitempty"`
	User      *User       `json:"user,omitempty"`
	OnGame    bool        `json:"onGame"`
}

// Opponent is the other side of the board
type Opponent struct {
	Color  color.Color `json:"color"`
	User   *User       `json:"user,omitempty"`
	AI     int         `json:"ai,omitempty"` // engine level, 0 for humans
	OnGame bool        `json:"onGame"`
}

// Game is the shared game record
type Game struct {
	ID            string      `json:"id"`
	Status        Status      `json:"status"`
	Variant       Variant     `json:"variant"`
	Moves         []string    `json:"moves"`
	Turns         int         `json:"turns"`
	StartedAtTurn int         `json:"startedAtTurn"`
	Threefold     bool        `json:"threefold,omitempty"`
	Player        color.Color `json:"player"` // side to move
	FEN           string      `json:"fen"`
}

// ClockData is the real-time clock configuration. Times are in seconds.
type ClockData struct {
	Running   bool    `json:"running"`
	Initial   float64 `json:"initial"`
	Increment float64 `json:"increment"`
	White     float64 `json:"white"`
	Black     float64 `json:"black"`
	Emerg     float64 `json:"emerg,omitempty"` // low time threshold
}

// Remaining returns both sides' remaining time.
func (c ClockData) Remaining() (white, black time.Duration) {
	return Seconds(c.White), Seconds(c.Black)
}

// CorrespondenceData is the correspondence clock configuration. White and
// Black are the seconds left before each side's deadline.
type CorrespondenceData struct {
	DaysPerTurn int     `json:"daysPerTurn"`
	Increment   float64 `json:"increment"`
	White       float64 `json:"white"`
	Black       float64 `json:"black"`
}

// Remaining returns both sides' remaining time.
func (c CorrespondenceData) Remaining() (white, black time.Duration) {
	return Seconds(c.White), Seconds(c.Black)
}

// Auto queen preference values
const (
	AutoQueenNever     = 1
	AutoQueenOnPremove = 2
	AutoQueenAlways    = 3
)

// Pref holds the player's preferences relevant to the round
type Pref struct {
	ClockSound bool `json:"clockSound"`
	AutoQueen  int  `json:"autoQueen"`
	Blur       bool `json:"blur"`
}

// Data is the full session state snapshot
type Data struct {
	Game           Game                `json:"game"`
	Player         Player              `json:"player"`
	Opponent       Opponent            `json:"opponent"`
	Clock          *ClockData          `json:"clock,omitempty"`
	Correspondence *CorrespondenceData `json:"correspondence,omitempty"`
	Pref           Pref                `json:"pref"`
	Simul          bool                `json:"simul,omitempty"`
}

// Seconds converts wire seconds to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
