package round

import (
	"time"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/game"
)

// MoveMeta describes how the user made a move on the board
type MoveMeta struct {
	HoldTime time.Duration // time between grabbing and dropping the piece
	Premove  bool
	// Promotion is set when the board holds the move back until a
	// promotion piece is chosen, see Board.Promote.
	Promotion bool
}

// InputHandler receives the board's user events
type InputHandler interface {
	OnUserMove(from, to string, meta MoveMeta)
	OnCapture(from, to string, captured game.Piece)
}

// Board is the board and input component. It only ever shows legal moves to
// the user; the controller trusts what it reports.
type Board interface {
	Bind(h InputHandler)
	// ApplyMove plays a confirmed move, promoting to the promotion role when
	// set, and reports whether the position changed. It does not report
	// captures to the InputHandler.
	ApplyMove(from, to, promotion string) bool
	// Promote completes a user move held back for its promotion piece.
	// Boards that already show the move ignore it.
	Promote(from, to, role string)
	SetOrientation(c color.Color)
	CancelPremove()
	Reload(fen string, orientation color.Color)
	PieceAt(square string) (game.Piece, bool)
	Explode(squares []string)
}

// Transport delivers messages to the server. Ackable messages are delivered
// at least once and in order.
type Transport interface {
	Send(event string, payload interface{}, opts messages.SendOptions)
	AverageLag() time.Duration
}

// MoveSender sends a resolved move
type MoveSender interface {
	SendMove(from, to, promotion string)
}

// PromotionChooser may take over a move that needs a promotion piece. It
// returns true when it did; it then calls SendMove itself once resolved.
type PromotionChooser interface {
	MaybeIntercept(s MoveSender, from, to string, premove bool) bool
}

// Translator resolves user facing strings
type Translator interface {
	Trans(key string, args ...interface{}) string
}

// Sound plays the round's sound effects
type Sound interface {
	Move(white bool)
	Capture()
	Explode()
	LowTime()
}

// Title updates the window or tab title
type Title interface {
	Set(d *game.Data)
}

// MoveOn advances auto navigation between games
type MoveOn interface {
	Next(d game.Data)
}

// Hold collects piece hold times
type Hold interface {
	Register(holdTime time.Duration)
}

// Blur reports whether the window lost focus during the last move
type Blur interface {
	Blurred() bool
}

type nopPromotion struct{}

func (nopPromotion) MaybeIntercept(MoveSender, string, string, bool) bool { return false }

type nopTranslator struct{}

func (nopTranslator) Trans(key string, args ...interface{}) string {
	return translateRaw(key, args...)
}

type nopSound struct{}

func (nopSound) Move(bool) {}
func (nopSound) Capture()  {}
func (nopSound) Explode()  {}
func (nopSound) LowTime()  {}

type nopTitle struct{}

func (nopTitle) Set(*game.Data) {}

type nopMoveOn struct{}

func (nopMoveOn) Next(game.Data) {}

type focused struct{}

func (focused) Blurred() bool { return false }
