// Package board is a headless board: it keeps the position shown to the
// player, accepts their moves and premoves and applies confirmed moves.
package board

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/game"
	"github.com/tecu23/roundctl/pkg/round"
)

// Board errors
var (
	ErrInvalidSquare    = errors.New("invalid square")
	ErrPromotionPending = errors.New("promotion piece not chosen yet")
)

var roles = map[chess.PieceType]string{
	chess.Pawn:   game.RolePawn,
	chess.Knight: game.RoleKnight,
	chess.Bishop: game.RoleBishop,
	chess.Rook:   game.RoleRook,
	chess.Queen:  game.RoleQueen,
	chess.King:   game.RoleKing,
}

var promotionLetters = map[string]string{
	game.RoleQueen:  "q",
	game.RoleRook:   "r",
	game.RoleBishop: "b",
	game.RoleKnight: "n",
	game.RoleKing:   "k",
}

type premove struct {
	from, to string
	hold     time.Duration
}

// Board is a round.Board backed by a chess position.
type Board struct {
	game        *chess.Game
	player      color.Color
	orientation color.Color
	premove     *premove
	// promoting is a user move held back until its promotion piece is known
	promoting *premove

	handler round.InputHandler
	logger  *zap.Logger
}

// New creates a board showing fen to player.
func New(fen string, player color.Color, logger *zap.Logger) (*Board, error) {
	g, err := newGame(fen)
	if err != nil {
		return nil, err
	}

	return &Board{
		game:        g,
		player:      player,
		orientation: player,
		logger:      logger,
	}, nil
}

func newGame(fen string) (*chess.Game, error) {
	if fen == "" || fen == "startpos" {
		return chess.NewGame(), nil
	}

	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid fen %q: %w", fen, err)
	}

	return chess.NewGame(opt), nil
}

// Bind sets the receiver of user moves and captures.
func (b *Board) Bind(h round.InputHandler) {
	b.handler = h
}

// UserMove plays a move made by the player. Outside the player's turn the
// move is kept as a premove and played right after the opponent's move.
// A pawn reaching the last rank stays where it is until Promote.
func (b *Board) UserMove(from, to string, hold time.Duration) error {
	if b.promoting != nil {
		return ErrPromotionPending
	}
	if b.turn() != b.player {
		if !messages.ValidSquare(from) || !messages.ValidSquare(to) {
			return fmt.Errorf("%w: %s%s", ErrInvalidSquare, from, to)
		}
		b.premove = &premove{from: from, to: to, hold: hold}
		return nil
	}

	return b.play(from, to, round.MoveMeta{HoldTime: hold})
}

func (b *Board) play(from, to string, meta round.MoveMeta) error {
	if b.promotes(from, to) {
		return b.holdPromotion(from, to, meta)
	}

	captured, isCapture := b.capturedBy(from, to)
	if err := b.move(from, to, ""); err != nil {
		return err
	}

	if b.handler == nil {
		return nil
	}
	if isCapture {
		b.handler.OnCapture(from, to, captured)
	}
	b.handler.OnUserMove(from, to, meta)

	return nil
}

// holdPromotion checks the move is legal and keeps it until the handler
// picks a piece.
func (b *Board) holdPromotion(from, to string, meta round.MoveMeta) error {
	trial := b.game.Clone()
	move, err := b.decode(trial, from, to, game.RoleQueen)
	if err != nil {
		return err
	}
	if err := trial.Move(move, nil); err != nil {
		return fmt.Errorf("illegal move %s%s: %w", from, to, err)
	}

	b.promoting = &premove{from: from, to: to, hold: meta.HoldTime}
	if b.handler != nil {
		meta.Promotion = true
		b.handler.OnUserMove(from, to, meta)
	}

	return nil
}

// Promote plays the held promotion from→to as role. Anything else held or
// nothing held at all leaves the board untouched.
func (b *Board) Promote(from, to, role string) {
	pm := b.promoting
	if pm == nil || pm.from != from || pm.to != to {
		return
	}
	b.promoting = nil

	captured, isCapture := b.capturedBy(from, to)
	if err := b.move(from, to, role); err != nil {
		b.logger.Warn("promotion not played", zap.String("role", role), zap.Error(err))
		return
	}
	if isCapture && b.handler != nil {
		b.handler.OnCapture(from, to, captured)
	}
}

// PendingPromotion returns the move waiting for a promotion piece.
func (b *Board) PendingPromotion() (from, to string, ok bool) {
	if b.promoting == nil {
		return "", "", false
	}
	return b.promoting.from, b.promoting.to, true
}

// CancelPromotion drops the held promotion; the pawn stays on its square.
func (b *Board) CancelPromotion() {
	b.promoting = nil
}

// ApplyMove plays a confirmed move, promoting to promotion when set. Moves
// that do not fit the position, like one the player already made here,
// leave the board untouched.
func (b *Board) ApplyMove(from, to, promotion string) bool {
	if err := b.move(from, to, promotion); err != nil {
		b.logger.Debug("move not applied", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return false
	}

	b.playPremove()
	return true
}

func (b *Board) playPremove() {
	pm := b.premove
	if pm == nil || b.turn() != b.player {
		return
	}

	b.premove = nil
	if err := b.play(pm.from, pm.to, round.MoveMeta{HoldTime: pm.hold, Premove: true}); err != nil {
		b.logger.Debug("premove dropped", zap.Error(err))
	}
}

// HasPremove reports whether a premove waits for the opponent's move.
func (b *Board) HasPremove() bool {
	return b.premove != nil
}

// CancelPremove drops the waiting premove.
func (b *Board) CancelPremove() {
	b.premove = nil
}

// SetOrientation sets the side shown at the bottom.
func (b *Board) SetOrientation(c color.Color) {
	b.orientation = c
}

// Orientation returns the side shown at the bottom.
func (b *Board) Orientation() color.Color {
	return b.orientation
}

// Reload resets the position. An unreadable fen keeps the current one.
func (b *Board) Reload(fen string, orientation color.Color) {
	b.orientation = orientation
	b.premove = nil
	b.promoting = nil

	g, err := newGame(fen)
	if err != nil {
		b.logger.Warn("reload ignored", zap.Error(err))
		return
	}
	b.game = g
}

// PieceAt returns the piece on square.
func (b *Board) PieceAt(square string) (game.Piece, bool) {
	sq, err := parseSquare(square)
	if err != nil {
		return game.Piece{}, false
	}

	p := b.game.Position().Board().Piece(sq)
	if p == chess.NoPiece {
		return game.Piece{}, false
	}

	return toPiece(p), true
}

// Explode removes the pieces on squares. Castling rights are dropped for
// kings and rooks that are gone.
func (b *Board) Explode(squares []string) {
	pos := b.game.Position()
	pieces := pos.Board().SquareMap()
	for _, s := range squares {
		if sq, err := parseSquare(s); err == nil {
			delete(pieces, sq)
		}
	}

	fields := strings.Fields(pos.String())
	if len(fields) < 3 {
		b.logger.Warn("unexpected fen", zap.String("fen", pos.String()))
		return
	}
	fields[0] = chess.NewBoard(pieces).String()
	fields[2] = castlingRights(fields[2], pieces)

	g, err := newGame(strings.Join(fields, " "))
	if err != nil {
		b.logger.Warn("explosion left an unreadable position", zap.Error(err))
		return
	}
	b.game = g
}

// FEN returns the current position.
func (b *Board) FEN() string {
	return b.game.Position().String()
}

// Draw renders the board as text.
func (b *Board) Draw() string {
	return b.game.Position().Board().Draw()
}

func (b *Board) turn() color.Color {
	return color.FromChess(b.game.Position().Turn())
}

func (b *Board) move(from, to, promotion string) error {
	move, err := b.decode(b.game, from, to, promotion)
	if err != nil {
		return err
	}
	if err := b.game.Move(move, nil); err != nil {
		return fmt.Errorf("illegal move %s%s: %w", from, to, err)
	}

	return nil
}

// promotes reports whether from→to takes a pawn to its last rank.
func (b *Board) promotes(from, to string) bool {
	p, ok := b.PieceAt(from)
	if !ok || p.Role != game.RolePawn || !messages.ValidSquare(to) {
		return false
	}
	if p.Color.IsWhite() {
		return to[1] == '8'
	}
	return to[1] == '1'
}

// decode reads from→to in the position of g. A pawn reaching the last rank
// without a promotion piece becomes a queen.
func (b *Board) decode(g *chess.Game, from, to, promotion string) (*chess.Move, error) {
	if !messages.ValidSquare(from) || !messages.ValidSquare(to) {
		return nil, fmt.Errorf("%w: %s%s", ErrInvalidSquare, from, to)
	}

	uci := from + to
	if letter, ok := promotionLetters[promotion]; ok {
		uci += letter
	} else if b.promotes(from, to) {
		uci += promotionLetters[game.RoleQueen]
	}

	move, err := chess.UCINotation{}.Decode(g.Position(), uci)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", uci, err)
	}

	return move, nil
}

// capturedBy returns the piece a move from→to would take, including en
// passant captures.
func (b *Board) capturedBy(from, to string) (game.Piece, bool) {
	if p, ok := b.PieceAt(to); ok {
		return p, true
	}

	mover, ok := b.PieceAt(from)
	if !ok || mover.Role != game.RolePawn || from[0] == to[0] {
		return game.Piece{}, false
	}

	return b.PieceAt(string([]byte{to[0], from[1]}))
}

func parseSquare(s string) (chess.Square, error) {
	if !messages.ValidSquare(s) {
		return chess.NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return chess.Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}

func toPiece(p chess.Piece) game.Piece {
	return game.Piece{
		Role:  roles[p.Type()],
		Color: color.FromChess(p.Color()),
	}
}

func castlingRights(rights string, pieces map[chess.Square]chess.Piece) string {
	if rights == "-" {
		return rights
	}

	intact := func(king, rook chess.Square, kingPiece, rookPiece chess.Piece) bool {
		return pieces[king] == kingPiece && pieces[rook] == rookPiece
	}

	var sb strings.Builder
	for _, r := range rights {
		var keep bool
		switch r {
		case 'K':
			keep = intact(chess.E1, chess.H1, chess.WhiteKing, chess.WhiteRook)
		case 'Q':
			keep = intact(chess.E1, chess.A1, chess.WhiteKing, chess.WhiteRook)
		case 'k':
			keep = intact(chess.E8, chess.H8, chess.BlackKing, chess.BlackRook)
		case 'q':
			keep = intact(chess.E8, chess.A8, chess.BlackKing, chess.BlackRook)
		}
		if keep {
			sb.WriteRune(r)
		}
	}

	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
