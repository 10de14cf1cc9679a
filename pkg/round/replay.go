package round

import (
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/game"
)

// ReplayGate holds the board still while the user browses past positions.
// Confirmed moves keep updating the session state but only reach the board
// when the user returns to the live position.
type ReplayGate struct {
	active     bool
	held       []messages.ServerMove
	pendingFEN string

	ctrl *Controller
}

func newReplayGate(c *Controller) *ReplayGate {
	return &ReplayGate{ctrl: c}
}

// Active reports whether the user is replaying.
func (g *ReplayGate) Active() bool {
	return g.active
}

// Late reports whether the board is behind the session state.
func (g *ReplayGate) Late() bool {
	return g.pendingFEN != "" || len(g.held) > 0
}

// Held returns the moves waiting for the board, in receipt order.
func (g *ReplayGate) Held() []messages.ServerMove {
	return append([]messages.ServerMove(nil), g.held...)
}

// Enter starts replaying. The board keeps its position until Exit.
func (g *ReplayGate) Enter() {
	g.active = true
}

// Exit returns to the live position: the board is reset to the last
// snapshot if one arrived meanwhile, then every held move is played in order.
func (g *ReplayGate) Exit() {
	if !g.active {
		return
	}

	c := g.ctrl
	c.beginUpdate()

	g.active = false
	if g.pendingFEN != "" {
		c.board.Reload(g.pendingFEN, c.orientation())
	}
	for _, o := range g.held {
		c.playOnBoard(o)
	}

	c.logger.Debug("caught up after replay",
		zap.Bool("reloaded", g.pendingFEN != ""),
		zap.Int("moves", len(g.held)),
	)
	g.held = nil
	g.pendingFEN = ""

	c.endUpdate()
}

func (g *ReplayGate) hold(o messages.ServerMove) {
	g.held = append(g.held, o)
}

// onReload is called before a snapshot is merged. The snapshot position
// already contains the held moves, so they are superseded by it. A snapshot
// without a position supersedes nothing.
func (g *ReplayGate) onReload(snap game.Data) {
	if !g.active || snap.Game.FEN == "" {
		return
	}

	g.held = nil
	g.pendingFEN = snap.Game.FEN
}
