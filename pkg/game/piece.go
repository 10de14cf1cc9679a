package game

import "github.com/tecu23/roundctl/internal/color"

// Piece roles
const (
	RolePawn   = "pawn"
	RoleKnight = "knight"
	RoleBishop = "bishop"
	RoleRook   = "rook"
	RoleQueen  = "queen"
	RoleKing   = "king"
)

// Piece describes a piece on a square
type Piece struct {
	Role  string      `json:"role"`
	Color color.Color `json:"color"`
}
