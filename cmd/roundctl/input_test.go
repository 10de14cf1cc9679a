package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/pkg/board"
	"github.com/tecu23/roundctl/pkg/game"
	"github.com/tecu23/roundctl/pkg/round"
)

func newInput(t *testing.T) (*input, *bytes.Buffer) {
	t.Helper()

	b, err := board.New("", color.White, zap.NewNop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &input{
		board:     b,
		promotion: round.NewPromotion(b, game.AutoQueenNever),
		out:       out,
		logger:    zap.NewNop(),
	}, out
}

func TestParseCommands(t *testing.T) {
	in, _ := newInput(t)

	for _, line := range []string{"e2e4", "E7E8", "promote n", "promote cancel", "flip", "takeback yes", "takeback no", "replay", "live", "moveon", "board", "clock"} {
		fn, err := in.parse(line)
		require.NoError(t, err, line)
		assert.NotNil(t, fn, line)
	}

	fn, err := in.parse("   ")
	assert.NoError(t, err)
	assert.Nil(t, fn)

	for _, line := range []string{"e2e9", "promote k", "takeback maybe", "resign now", "e2 e4"} {
		_, err := in.parse(line)
		assert.ErrorIs(t, err, errUnknownCommand, line)
	}
}

func TestParseMovePlaysOnBoard(t *testing.T) {
	in, out := newInput(t)

	fn, err := in.parse("e2e5")
	require.NoError(t, err)
	fn(nil)
	assert.NotEmpty(t, out.String(), "illegal moves are reported")

	out.Reset()
	fn, err = in.parse("e2e4")
	require.NoError(t, err)
	fn(nil)

	_, ok := in.board.PieceAt("e4")
	assert.True(t, ok)
	assert.Empty(t, out.String())
}

func TestParsePromoteWithoutPending(t *testing.T) {
	in, out := newInput(t)

	fn, err := in.parse("promote q")
	require.NoError(t, err)
	fn(nil)

	assert.Equal(t, "no promotion pending\n", out.String())
}

func TestParsePromoteCancel(t *testing.T) {
	in, _ := newInput(t)
	in.board.Reload("8/4P3/8/8/8/8/k7/4K3 w - - 0 1", color.White)
	require.NoError(t, in.board.UserMove("e7", "e8", 0))

	fn, err := in.parse("promote cancel")
	require.NoError(t, err)
	fn(nil)

	_, _, ok := in.board.PendingPromotion()
	assert.False(t, ok)
	assert.NoError(t, in.board.UserMove("e1", "d1", 0))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, formatClock(90_900_000_000), formatClock(90_000_000_000))
}
