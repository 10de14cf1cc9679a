package round

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/events"
	"github.com/tecu23/roundctl/pkg/game"
)

// OnUserMove is called by the board when the local player makes a legal
// move. The board already shows it; the server confirms it later.
func (c *Controller) OnUserMove(from, to string, meta MoveMeta) {
	c.hold.Register(meta.HoldTime)
	c.vm.holdTime = meta.HoldTime

	if !c.promotion.MaybeIntercept(c, from, to, meta.Premove) {
		promotion := ""
		if meta.Promotion {
			promotion = game.RoleQueen
		}
		c.SendMove(from, to, promotion)
	}

	c.sound.Move(c.data.Player.Color.IsWhite())
}

// SubmitLocalMove is OnUserMove for callers that are not the board.
func (c *Controller) SubmitLocalMove(from, to string, meta MoveMeta) {
	c.OnUserMove(from, to, meta)
}

// SendMove sends a resolved move to the server. Moves are ackable so the
// transport redelivers them until confirmed. A promotion is first played on
// the board, which may have held the move back for it.
func (c *Controller) SendMove(from, to, promotion string) {
	if promotion != "" {
		c.board.Promote(from, to, promotion)
	}

	move := messages.MovePayload{
		From:      from,
		To:        to,
		Promotion: promotion,
		HoldTime:  c.vm.holdTime.Milliseconds(),
	}
	c.vm.holdTime = 0

	if c.blur.Blurred() {
		move.Blur = 1
	}
	if c.clock != nil {
		lag := roundMillis(c.transport.AverageLag())
		move.Lag = &lag
	}

	c.transport.Send(messages.EventSendMove, move, messages.SendOptions{Ackable: true})
}

// OnCapture is called by the board when a user move captures a piece.
func (c *Controller) OnCapture(_, to string, _ game.Piece) {
	c.capture(to)
}

// ApplyServerMove folds a move confirmed by the server into the session. A
// *ProtocolError is returned for records that cannot be trusted; the session
// has then already asked the server for a fresh snapshot.
func (c *Controller) ApplyServerMove(o messages.ServerMove) error {
	if c.vm.untrusted {
		c.logger.Debug("dropping move until reload", zap.String("san", o.SAN), zap.Int("ply", o.Ply))
		return nil
	}
	if err := o.Validate(); err != nil {
		return c.violation(&ProtocolError{Event: messages.EventMove, Reason: "invalid move record", Err: err})
	}
	if o.Ply > 0 {
		if o.Ply <= c.data.Game.Turns {
			c.logger.Debug("dropping redelivered move", zap.Int("ply", o.Ply), zap.Int("turns", c.data.Game.Turns))
			return nil
		}
		if o.Ply > c.data.Game.Turns+1 {
			return c.violation(&ProtocolError{
				Event:  messages.EventMove,
				Reason: fmt.Sprintf("ply %d skips ahead of turn %d", o.Ply, c.data.Game.Turns),
			})
		}
	}

	c.beginUpdate()

	c.data.Game.Threefold = false
	c.data.Game.Moves = append(c.data.Game.Moves, o.SAN)
	if o.Ply > 0 {
		c.data.Game.Turns = o.Ply
	} else {
		c.data.Game.Turns++
	}
	c.data.Game.Player = o.Color.Opp()
	c.data.SetOnGame(o.Color, true)
	if o.Clock != nil {
		c.pushClock(o.Clock.White, o.Clock.Black)
	}
	c.syncClockRunning()

	if c.replay.Active() {
		c.replay.hold(o)
		c.publisher.Publish(events.Event{Type: events.EventMoveHeld, GameID: c.data.Game.ID, Payload: o})
	} else {
		c.playOnBoard(o)
		c.publisher.Publish(events.Event{Type: events.EventMoveApplied, GameID: c.data.Game.ID, Payload: o})
	}

	if c.data.Player.Spectator || o.Color != c.data.Player.Color {
		c.sound.Move(o.Color.IsWhite())
	}
	if c.data.IsPlayerTurn() || (c.data.IsPlayerPlaying() && o.Color == c.data.Player.Color) {
		c.moveOn.Next(c.data.Clone())
	}
	c.setQuietMode()

	c.endUpdate()
	return nil
}

// playOnBoard shows a confirmed move. Captures are only dispatched when the
// move changed the board, so a move the local player already made on this
// board is not captured twice.
func (c *Controller) playOnBoard(o messages.ServerMove) {
	if c.board.ApplyMove(o.From, o.To, o.PromotionRole()) && o.Captured != "" {
		c.capture(o.To)
	}
}

func (c *Controller) violation(err *ProtocolError) error {
	c.vm.untrusted = true
	c.transport.Send(messages.EventResyncReq, nil, messages.SendOptions{})
	c.publisher.Publish(events.Event{Type: events.EventProtocolViolation, GameID: c.data.Game.ID, Payload: err})

	return err
}

func roundMillis(d time.Duration) int64 {
	return int64(math.Round(float64(d) / float64(time.Millisecond)))
}
