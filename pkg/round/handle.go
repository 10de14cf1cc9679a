package round

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/events"
	"github.com/tecu23/roundctl/pkg/game"
)

// Handle dispatches a message received from the server.
func (c *Controller) Handle(msg messages.InboundMessage) {
	switch msg.Type {
	case messages.EventMove:
		var o messages.ServerMove
		if err := json.Unmarshal(msg.Payload, &o); err != nil {
			c.logProtocolError(c.violation(&ProtocolError{Event: msg.Type, Reason: "undecodable move", Err: err}))
			return
		}
		if err := c.ApplyServerMove(o); err != nil {
			c.logProtocolError(err)
		}

	case messages.EventReload:
		var snap game.Data
		if err := json.Unmarshal(msg.Payload, &snap); err != nil {
			c.logProtocolError(c.violation(&ProtocolError{Event: msg.Type, Reason: "undecodable snapshot", Err: err}))
			return
		}
		c.Reload(snap)

	case messages.EventResync:
		c.logger.Info("server asked for a resync")
		c.transport.Send(messages.EventResyncReq, nil, messages.SendOptions{})

	case messages.EventTakebackOffers:
		var offers messages.TakebackOffersPayload
		if err := json.Unmarshal(msg.Payload, &offers); err != nil {
			c.logger.Warn("invalid takeback offers", zap.Error(err))
			return
		}
		c.beginUpdate()
		c.publisher.Publish(events.Event{Type: events.EventTakebackOffers, GameID: c.data.Game.ID, Payload: offers})
		c.endUpdate()

	case messages.EventCrowd:
		var crowd messages.CrowdPayload
		if err := json.Unmarshal(msg.Payload, &crowd); err != nil {
			c.logger.Warn("invalid crowd", zap.Error(err))
			return
		}
		c.beginUpdate()
		c.data.SetOnGame(color.White, crowd.White)
		c.data.SetOnGame(color.Black, crowd.Black)
		c.publisher.Publish(events.Event{Type: events.EventCrowd, GameID: c.data.Game.ID, Payload: crowd})
		c.endUpdate()

	default:
		c.logger.Debug("unhandled message", zap.String("type", msg.Type))
	}
}

func (c *Controller) logProtocolError(err error) {
	var perr *ProtocolError
	if errors.As(err, &perr) {
		c.logger.Warn("protocol violation, requested resync",
			zap.String("event", perr.Event),
			zap.String("reason", perr.Reason),
			zap.Error(perr.Err),
		)
		return
	}

	c.logger.Error("failed to handle message", zap.Error(err))
}
