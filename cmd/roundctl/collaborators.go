package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/roundctl/pkg/chess"
	"github.com/tecu23/roundctl/pkg/game"
	"github.com/tecu23/roundctl/pkg/round"
)

// logSound stands in for audio in a terminal
type logSound struct {
	logger *zap.Logger
}

func (s *logSound) Move(white bool) {
	side := "black"
	if white {
		side = "white"
	}
	s.logger.Debug("sound: move", zap.String("side", side))
}

func (s *logSound) Capture() { s.logger.Debug("sound: capture") }
func (s *logSound) Explode() { s.logger.Debug("sound: explosion") }
func (s *logSound) LowTime() { s.logger.Info("sound: low time") }

type logTitle struct {
	translator round.Translator
	logger     *zap.Logger
	last       string
}

func (t *logTitle) Set(d *game.Data) {
	title := round.TitleText(d, t.translator)
	if title == t.last {
		return
	}

	t.last = title
	t.logger.Info(title, zap.String("game", d.Game.ID))
}

// logClock logs the clocks at most once per displayed second
type logClock struct {
	logger *zap.Logger
	format func(time.Duration) string
	white  string
	black  string
}

func (c *logClock) Update(white, black time.Duration) {
	w, b := c.format(white), c.format(black)
	if w == c.white && b == c.black {
		return
	}

	c.white, c.black = w, b
	c.logger.Debug("clock", zap.String("white", w), zap.String("black", b))
}

func formatClock(d time.Duration) string {
	// tenths only matter under ten seconds
	if d >= 10*time.Second {
		d = d.Truncate(time.Second)
	}
	return chess.FormatClockTime(d)
}

func formatDeadline(d time.Duration) string {
	return chess.FormatDeadline(d)
}
