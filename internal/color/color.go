// Package color provides basic color definitions for a chess game
package color

import "github.com/corentings/chess/v2"

// Color represent a chess color
type Color string

// Possible color variations in a chess game
const (
	White Color = "white"
	Black Color = "black"
)

// Opp returns the opposite color for the given color.
func (c Color) Opp() Color {
	if c == White {
		return Black
	}

	return White
}

// IsWhite reports whether c is white.
func (c Color) IsWhite() bool {
	return c == White
}

// Valid reports whether c names one of the two sides.
func (c Color) Valid() bool {
	return c == White || c == Black
}

// FromChess converts the board library's color.
func FromChess(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}

	return White
}

// FromPly returns the side to move after the given number of half moves.
func FromPly(ply int) Color {
	if ply%2 == 0 {
		return White
	}

	return Black
}
