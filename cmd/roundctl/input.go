package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/board"
	"github.com/tecu23/roundctl/pkg/game"
	"github.com/tecu23/roundctl/pkg/round"
)

var errUnknownCommand = errors.New("unknown command")

var promotionRoles = map[string]string{
	"q": game.RoleQueen,
	"r": game.RoleRook,
	"b": game.RoleBishop,
	"n": game.RoleKnight,
}

// input turns stdin lines into work on the session goroutine
type input struct {
	session   *round.Session
	board     *board.Board
	promotion *round.Promotion
	moveOn    *round.AutoNavigator
	out       io.Writer
	logger    *zap.Logger
}

func (in *input) read(ctx context.Context, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		fn, err := in.parse(scanner.Text())
		if err != nil {
			fmt.Fprintln(in.out, err)
			continue
		}
		if fn != nil {
			in.session.Do(fn)
		}
	}
}

// parse maps a command line to the work it does. Empty lines do nothing.
func (in *input) parse(line string) (func(*round.Controller), error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, nil
	}

	switch cmd := fields[0]; {
	case len(fields) == 1 && len(cmd) == 4 && messages.ValidSquare(cmd[:2]) && messages.ValidSquare(cmd[2:]):
		return func(*round.Controller) {
			if err := in.board.UserMove(cmd[:2], cmd[2:], 0); err != nil {
				fmt.Fprintln(in.out, err)
			}
		}, nil

	case cmd == "promote" && len(fields) == 2 && fields[1] == "cancel":
		return func(*round.Controller) {
			in.promotion.Cancel()
			in.board.CancelPromotion()
		}, nil

	case cmd == "promote" && len(fields) == 2:
		role, ok := promotionRoles[fields[1]]
		if !ok {
			return nil, fmt.Errorf("%w: promote q|r|b|n", errUnknownCommand)
		}
		return func(*round.Controller) {
			if !in.promotion.Finish(role) {
				fmt.Fprintln(in.out, "no promotion pending")
			}
		}, nil

	case cmd == "flip":
		return (*round.Controller).FlipBoard, nil

	case cmd == "takeback" && len(fields) == 2 && (fields[1] == "yes" || fields[1] == "no"):
		accept := fields[1] == "yes"
		return func(c *round.Controller) { c.RespondTakeback(accept) }, nil

	case cmd == "replay":
		return func(c *round.Controller) { c.Replay().Enter() }, nil

	case cmd == "live":
		return func(c *round.Controller) { c.Replay().Exit() }, nil

	case cmd == "moveon":
		return func(c *round.Controller) {
			fmt.Fprintf(in.out, "%s: %t\n", c.Trans("moveOnEnabled"), in.moveOn.Toggle())
		}, nil

	case cmd == "board":
		return func(*round.Controller) { fmt.Fprint(in.out, in.board.Draw()) }, nil

	case cmd == "clock":
		return func(c *round.Controller) {
			white, black, ok := c.ClockRemaining()
			if !ok {
				fmt.Fprintln(in.out, "no clock")
				return
			}
			format := formatClock
			if c.Data().Correspondence != nil {
				format = formatDeadline
			}
			fmt.Fprintf(in.out, "white %s  black %s\n", format(white), format(black))
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", errUnknownCommand, line)
}
