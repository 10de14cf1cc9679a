package round

import (
	"github.com/tecu23/roundctl/pkg/game"
)

// PieceReader looks up the piece on a square
type PieceReader interface {
	PieceAt(square string) (game.Piece, bool)
}

type pendingPromotion struct {
	sender   MoveSender
	from, to string
}

// Promotion intercepts pawn moves to the last rank. With auto queen the
// move is sent at once as a queen promotion, otherwise it waits for Finish.
type Promotion struct {
	board     PieceReader
	autoQueen int
	pending   *pendingPromotion
}

// NewPromotion creates a chooser following the auto queen preference.
func NewPromotion(board PieceReader, autoQueen int) *Promotion {
	return &Promotion{
		board:     board,
		autoQueen: autoQueen,
	}
}

// MaybeIntercept takes over moves that promote a pawn.
func (p *Promotion) MaybeIntercept(s MoveSender, from, to string, premove bool) bool {
	if !p.promotes(from, to) {
		return false
	}

	if p.autoQueen == game.AutoQueenAlways || (p.autoQueen == game.AutoQueenOnPremove && premove) {
		s.SendMove(from, to, game.RoleQueen)
		return true
	}

	p.pending = &pendingPromotion{sender: s, from: from, to: to}
	return true
}

// Pending returns the move waiting for a promotion piece.
func (p *Promotion) Pending() (from, to string, ok bool) {
	if p.pending == nil {
		return "", "", false
	}
	return p.pending.from, p.pending.to, true
}

// Finish sends the pending move promoting to role. It reports false when
// nothing was pending.
func (p *Promotion) Finish(role string) bool {
	if p.pending == nil {
		return false
	}

	pending := p.pending
	p.pending = nil
	pending.sender.SendMove(pending.from, pending.to, role)

	return true
}

// Cancel drops the pending move.
func (p *Promotion) Cancel() {
	p.pending = nil
}

// promotes finds the pawn on to when the board already shows the move, or
// still on from when the board waits for the piece.
func (p *Promotion) promotes(from, to string) bool {
	for _, sq := range []string{to, from} {
		if piece, ok := p.board.PieceAt(sq); ok {
			return piece.Role == game.RolePawn && lastRank(to, piece)
		}
	}
	return false
}

func lastRank(square string, piece game.Piece) bool {
	if piece.Color.IsWhite() {
		return square[1] == '8'
	}
	return square[1] == '1'
}
