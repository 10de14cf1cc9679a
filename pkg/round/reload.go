package round

import (
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/pkg/events"
	"github.com/tecu23/roundctl/pkg/game"
)

// Reload replaces the session state with an authoritative snapshot.
// Reloading the same snapshot twice leaves the same state as reloading it
// once.
func (c *Controller) Reload(snap game.Data) {
	c.beginUpdate()

	c.replay.onReload(snap)

	if snap.Player.Color.Valid() && snap.Player.Color != c.data.Player.Color {
		c.logger.Warn("snapshot player color ignored",
			zap.String("local", string(c.data.Player.Color)),
			zap.String("snapshot", string(snap.Player.Color)),
		)
	}

	c.data = game.Merge(c.data, snap)
	c.keepClockKind()
	c.vm.untrusted = false

	c.makeCorrespondenceClock()
	if c.clock != nil && snap.Clock != nil {
		c.clock.Update(c.data.Clock.Remaining())
	} else if c.correspondenceClock != nil && snap.Correspondence != nil {
		c.correspondenceClock.Update(c.data.Correspondence.Remaining())
	}
	c.syncClockRunning()

	switch {
	case snap.Game.FEN == "":
		c.logger.Debug("snapshot without position, board kept")
	case !c.replay.Active():
		c.board.Reload(c.data.Game.FEN, c.orientation())
	}

	c.title.Set(&c.data)
	c.moveOn.Next(c.data.Clone())
	c.setQuietMode()

	c.publisher.Publish(events.Event{Type: events.EventReloaded, GameID: c.data.Game.ID})
	c.endUpdate()
}

// keepClockKind strips the clock config that does not match the driver
// chosen at construction.
func (c *Controller) keepClockKind() {
	if c.clock != nil && c.data.Correspondence != nil {
		c.logger.Warn("ignoring correspondence config in a real-time session")
		c.data.Correspondence = nil
	}
	if c.clock == nil && c.data.Clock != nil {
		c.logger.Warn("ignoring real-time clock config in a session without one")
		c.data.Clock = nil
	}
}
