package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/pkg/game"
)

type sentMove struct {
	from, to, promotion string
}

type moveRecorder struct {
	moves []sentMove
}

func (r *moveRecorder) SendMove(from, to, promotion string) {
	r.moves = append(r.moves, sentMove{from, to, promotion})
}

func TestPromotionIgnoresOtherMoves(t *testing.T) {
	board := &fakeBoard{pieces: map[string]game.Piece{
		"e4": {Role: game.RolePawn, Color: color.White},
		"e8": {Role: game.RoleRook, Color: color.White},
		"e1": {Role: game.RolePawn, Color: color.White},
	}}
	p := NewPromotion(board, game.AutoQueenAlways)
	rec := &moveRecorder{}

	assert.False(t, p.MaybeIntercept(rec, "e2", "e4", false))
	assert.False(t, p.MaybeIntercept(rec, "e7", "e8", false))
	assert.False(t, p.MaybeIntercept(rec, "e2", "e1", false))
	assert.False(t, p.MaybeIntercept(rec, "a7", "a8", false))
	assert.Empty(t, rec.moves)
}

func TestPromotionAutoQueen(t *testing.T) {
	tests := []struct {
		name      string
		autoQueen int
		premove   bool
		auto      bool
	}{
		{"always", game.AutoQueenAlways, false, true},
		{"premove only, premove", game.AutoQueenOnPremove, true, true},
		{"premove only, regular", game.AutoQueenOnPremove, false, false},
		{"never", game.AutoQueenNever, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := &fakeBoard{pieces: map[string]game.Piece{
				"d1": {Role: game.RolePawn, Color: color.Black},
			}}
			p := NewPromotion(board, tt.autoQueen)
			rec := &moveRecorder{}

			require.True(t, p.MaybeIntercept(rec, "d2", "d1", tt.premove))

			if tt.auto {
				assert.Equal(t, []sentMove{{"d2", "d1", game.RoleQueen}}, rec.moves)
				_, _, pending := p.Pending()
				assert.False(t, pending)
				return
			}

			assert.Empty(t, rec.moves)
			from, to, pending := p.Pending()
			require.True(t, pending)
			assert.Equal(t, "d2", from)
			assert.Equal(t, "d1", to)
		})
	}
}

func TestPromotionFinishAndCancel(t *testing.T) {
	board := &fakeBoard{pieces: map[string]game.Piece{
		"a8": {Role: game.RolePawn, Color: color.White},
	}}
	p := NewPromotion(board, game.AutoQueenNever)
	rec := &moveRecorder{}

	assert.False(t, p.Finish(game.RoleRook))

	require.True(t, p.MaybeIntercept(rec, "a7", "a8", false))
	require.True(t, p.Finish(game.RoleRook))
	assert.Equal(t, []sentMove{{"a7", "a8", game.RoleRook}}, rec.moves)
	assert.False(t, p.Finish(game.RoleRook))

	require.True(t, p.MaybeIntercept(rec, "a7", "a8", false))
	p.Cancel()
	assert.False(t, p.Finish(game.RoleQueen))
	assert.Len(t, rec.moves, 1)
}

func TestPromotionFindsPawnStillOnOrigin(t *testing.T) {
	board := &fakeBoard{pieces: map[string]game.Piece{
		"g2": {Role: game.RolePawn, Color: color.Black},
		"c7": {Role: game.RolePawn, Color: color.Black},
	}}
	p := NewPromotion(board, game.AutoQueenNever)
	rec := &moveRecorder{}

	assert.False(t, p.MaybeIntercept(rec, "c7", "c8", false))
	require.True(t, p.MaybeIntercept(rec, "g2", "h1", false))

	from, to, pending := p.Pending()
	require.True(t, pending)
	assert.Equal(t, "g2", from)
	assert.Equal(t, "h1", to)
}
