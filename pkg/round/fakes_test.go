package round

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/color"
	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/events"
	"github.com/tecu23/roundctl/pkg/game"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type boardReload struct {
	fen         string
	orientation color.Color
}

type fakeBoard struct {
	handler     InputHandler
	applied     [][2]string
	promotions  []string // promotion role of each applied move
	promoted    [][3]string
	reject      bool
	orientation color.Color
	reloads     []boardReload
	pieces      map[string]game.Piece
	explosions  [][]string
	cancels     int
}

func (b *fakeBoard) Bind(h InputHandler) { b.handler = h }

func (b *fakeBoard) ApplyMove(from, to, promotion string) bool {
	if b.reject {
		return false
	}
	b.applied = append(b.applied, [2]string{from, to})
	b.promotions = append(b.promotions, promotion)
	return true
}

func (b *fakeBoard) Promote(from, to, role string) {
	b.promoted = append(b.promoted, [3]string{from, to, role})
}

func (b *fakeBoard) SetOrientation(c color.Color) { b.orientation = c }
func (b *fakeBoard) CancelPremove()               { b.cancels++ }

func (b *fakeBoard) Reload(fen string, orientation color.Color) {
	b.reloads = append(b.reloads, boardReload{fen, orientation})
	b.orientation = orientation
}

func (b *fakeBoard) PieceAt(square string) (game.Piece, bool) {
	p, ok := b.pieces[square]
	return p, ok
}

func (b *fakeBoard) Explode(squares []string) {
	b.explosions = append(b.explosions, squares)
}

type sent struct {
	event   string
	payload interface{}
	opts    messages.SendOptions
}

type fakeTransport struct {
	sent []sent
	lag  time.Duration
}

func (t *fakeTransport) Send(event string, payload interface{}, opts messages.SendOptions) {
	t.sent = append(t.sent, sent{event, payload, opts})
}

func (t *fakeTransport) AverageLag() time.Duration { return t.lag }

func (t *fakeTransport) events(name string) []sent {
	var out []sent
	for _, s := range t.sent {
		if s.event == name {
			out = append(out, s)
		}
	}
	return out
}

type fakeSound struct {
	moves    []bool
	captures int
	explodes int
	lowTimes int
}

func (s *fakeSound) Move(white bool) { s.moves = append(s.moves, white) }
func (s *fakeSound) Capture()        { s.captures++ }
func (s *fakeSound) Explode()        { s.explodes++ }
func (s *fakeSound) LowTime()        { s.lowTimes++ }

type fakeTitle struct{ sets int }

func (t *fakeTitle) Set(*game.Data) { t.sets++ }

type fakeMoveOn struct{ calls []game.Data }

func (m *fakeMoveOn) Next(d game.Data) { m.calls = append(m.calls, d) }

type fakeBlur struct{ blurred bool }

func (b fakeBlur) Blurred() bool { return b.blurred }

type fakeDisplay struct{ white, black time.Duration }

func (d *fakeDisplay) Update(white, black time.Duration) { d.white, d.black = white, black }

type fixture struct {
	ctrl      *Controller
	board     *fakeBoard
	transport *fakeTransport
	sound     *fakeSound
	title     *fakeTitle
	moveOn    *fakeMoveOn
	quiet     *QuietMode
	clock     *clockwork.FakeClock
	redraws   int
}

func realtimeData(player color.Color) game.Data {
	return game.Data{
		Game: game.Game{
			ID:      "abcd1234",
			Status:  game.Status{ID: game.StatusStarted, Name: "started"},
			Variant: game.Variant{Key: game.Standard},
			Moves:   []string{},
			Player:  color.White,
			FEN:     startFEN,
		},
		Player:   game.Player{Color: player, OnGame: true},
		Opponent: game.Opponent{Color: player.Opp(), OnGame: true},
		Clock:    &game.ClockData{Initial: 300, White: 300, Black: 300, Emerg: 30},
		Pref:     game.Pref{ClockSound: true, AutoQueen: game.AutoQueenOnPremove},
	}
}

func correspondenceData(player color.Color) game.Data {
	d := realtimeData(player)
	d.Clock = nil
	d.Correspondence = &game.CorrespondenceData{DaysPerTurn: 3, White: 3 * 86400, Black: 3 * 86400}
	return d
}

func newFixture(t *testing.T, data game.Data, tweak ...func(*Options)) *fixture {
	t.Helper()

	f := &fixture{
		board:     &fakeBoard{pieces: map[string]game.Piece{}},
		transport: &fakeTransport{},
		sound:     &fakeSound{},
		title:     &fakeTitle{},
		moveOn:    &fakeMoveOn{},
		quiet:     &QuietMode{},
		clock:     clockwork.NewFakeClock(),
	}

	publisher := events.NewPublisher()
	publisher.Subscribe(events.EventRedraw, func(events.Event) { f.redraws++ })

	opts := Options{
		Board:     f.board,
		Transport: f.transport,
		Sound:     f.sound,
		Title:     f.title,
		MoveOn:    f.moveOn,
		Quiet:     f.quiet,
		Publisher: publisher,
		Clock:     f.clock,
	}
	for _, fn := range tweak {
		fn(&opts)
	}

	ctrl, err := New(data, opts, zap.NewNop())
	require.NoError(t, err)
	f.ctrl = ctrl

	return f
}

// tick advances the fake clock by d and runs the bound driver.
func (f *fixture) tick(d time.Duration) {
	f.clock.Advance(d)
	f.ctrl.Tick()
}

func serverMove(from, to, san string, c color.Color) messages.ServerMove {
	return messages.ServerMove{From: from, To: to, SAN: san, Color: c}
}
