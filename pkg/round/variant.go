package round

import (
	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/game"
)

// captureRule is what a capture does to the board in a given variant
type captureRule interface {
	capture(c *Controller, square string)
}

type soundCapture struct{}

func (soundCapture) capture(c *Controller, _ string) {
	c.sound.Capture()
}

// explosiveCapture removes the capturing piece and every non-pawn piece
// around the capture square.
type explosiveCapture struct{}

func (explosiveCapture) capture(c *Controller, square string) {
	c.board.Explode(explosion(c.board, square))
	c.sound.Explode()
}

func captureRuleFor(key game.VariantKey) captureRule {
	if key.ExplosiveCapture() {
		return explosiveCapture{}
	}
	return soundCapture{}
}

func (c *Controller) capture(square string) {
	captureRuleFor(c.data.Game.Variant.Key).capture(c, square)
}

// explosion lists the squares cleared by a capture on center.
func explosion(board Board, center string) []string {
	squares := []string{center}
	file, rank := center[0], center[1]

	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}

			sq := string([]byte{byte(int(file) + df), byte(int(rank) + dr)})
			if !messages.ValidSquare(sq) {
				continue
			}
			if p, ok := board.PieceAt(sq); ok && p.Role != game.RolePawn {
				squares = append(squares, sq)
			}
		}
	}

	return squares
}
