package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/pkg/events"
)

func TestReplayHoldsMovesBack(t *testing.T) {
	f := newFixture(t, realtimeData(color.White))
	var held int
	f.ctrl.Subscribe(events.EventMoveHeld, func(events.Event) { held++ })

	f.ctrl.Replay().Enter()
	require.NoError(t, f.ctrl.ApplyServerMove(serverMove("e2", "e4", "e4", color.White)))
	require.NoError(t, f.ctrl.ApplyServerMove(serverMove("e7", "e5", "e5", color.Black)))

	assert.Empty(t, f.board.applied)
	assert.True(t, f.ctrl.Replay().Late())
	assert.Len(t, f.ctrl.Replay().Held(), 2)
	assert.Equal(t, 2, held)
	assert.Equal(t, []string{"e4", "e5"}, f.ctrl.Data().Game.Moves)

	f.ctrl.Replay().Exit()

	assert.False(t, f.ctrl.Replay().Active())
	assert.False(t, f.ctrl.Replay().Late())
	assert.Equal(t, [][2]string{{"e2", "e4"}, {"e7", "e5"}}, f.board.applied)
}

func TestReplayDispatchesCapturesOnCatchUp(t *testing.T) {
	f := newFixture(t, realtimeData(color.Black))

	f.ctrl.Replay().Enter()
	o := serverMove("e4", "d5", "exd5", color.White)
	o.Captured = "d5"
	require.NoError(t, f.ctrl.ApplyServerMove(o))
	assert.Equal(t, 0, f.sound.captures)

	f.ctrl.Replay().Exit()
	assert.Equal(t, 1, f.sound.captures)
}

func TestReplayReloadSupersedesHeldMoves(t *testing.T) {
	f := newFixture(t, realtimeData(color.White))

	f.ctrl.Replay().Enter()
	require.NoError(t, f.ctrl.ApplyServerMove(serverMove("e2", "e4", "e4", color.White)))
	f.ctrl.Reload(snapshotAfterE4())
	assert.Empty(t, f.board.reloads)
	assert.Empty(t, f.ctrl.Replay().Held())

	require.NoError(t, f.ctrl.ApplyServerMove(serverMove("e7", "e5", "e5", color.Black)))

	f.ctrl.Replay().Exit()

	require.Len(t, f.board.reloads, 1)
	assert.Equal(t, afterE4, f.board.reloads[0].fen)
	assert.Equal(t, [][2]string{{"e7", "e5"}}, f.board.applied)
}

func TestReplayKeepsHeldMovesOnSnapshotWithoutPosition(t *testing.T) {
	f := newFixture(t, realtimeData(color.White))

	f.ctrl.Replay().Enter()
	require.NoError(t, f.ctrl.ApplyServerMove(serverMove("e2", "e4", "e4", color.White)))

	snap := snapshotAfterE4()
	snap.Game.FEN = ""
	f.ctrl.Reload(snap)
	assert.Len(t, f.ctrl.Replay().Held(), 1)

	f.ctrl.Replay().Exit()

	assert.Empty(t, f.board.reloads)
	assert.Equal(t, [][2]string{{"e2", "e4"}}, f.board.applied)
}

func TestReplayExitWhenLiveIsNoop(t *testing.T) {
	f := newFixture(t, realtimeData(color.White))

	f.ctrl.Replay().Exit()

	assert.Equal(t, 0, f.redraws)
	assert.Empty(t, f.board.reloads)
}

func TestReplayExitRedrawsOnce(t *testing.T) {
	f := newFixture(t, realtimeData(color.White))
	f.ctrl.Replay().Enter()
	require.NoError(t, f.ctrl.ApplyServerMove(serverMove("e2", "e4", "e4", color.White)))
	require.NoError(t, f.ctrl.ApplyServerMove(serverMove("e7", "e5", "e5", color.Black)))
	before := f.redraws

	f.ctrl.Replay().Exit()

	assert.Equal(t, before+1, f.redraws)
}
