package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/tecu23/roundctl/internal/auth"
	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/config"
)

type roundServer struct {
	frames  chan messages.OutboundMessage
	headers chan http.Header
	sris    chan string
	ack     bool
	greet   []string
	// dropPongs is the number of pings left unanswered
	dropPongs atomic.Int32
}

func newRoundServer(t *testing.T, ack bool, greet ...string) (*httptest.Server, *roundServer) {
	t.Helper()

	rs := &roundServer{
		frames:  make(chan messages.OutboundMessage, 64),
		headers: make(chan http.Header, 1),
		sris:    make(chan string, 1),
		ack:     ack,
		greet:   greet,
	}
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.headers <- r.Header.Clone()
		rs.sris <- r.URL.Query().Get("sri")

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		for _, frame := range rs.greet {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var m messages.OutboundMessage
			if err := json.Unmarshal(data, &m); err != nil {
				continue
			}
			rs.frames <- m

			if m.Event == messages.EventPing {
				if rs.dropPongs.Add(-1) >= 0 {
					continue
				}
				_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"n"}`))
			}
			if rs.ack && m.Ack > 0 {
				_ = ws.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf(`{"type":"ack","payload":%d}`, m.Ack)))
			}
		}
	}))
	t.Cleanup(srv.Close)

	return srv, rs
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/play/abcd1234/v6"
}

func testTiming() config.Timing {
	timing := config.DefaultTiming()
	timing.PingInterval = 50 * time.Millisecond
	timing.AckResend = 50 * time.Millisecond
	return timing
}

func dial(t *testing.T, srv *httptest.Server, key *auth.APIKeyAuth) (*Socket, context.CancelFunc, chan error) {
	t.Helper()

	// pumps may still log after the test returns
	s, err := Dial(context.Background(), wsURL(srv), key, testTiming(), clockwork.NewRealClock(), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	return s, cancel, done
}

func nextFrame(t *testing.T, rs *roundServer, event string) messages.OutboundMessage {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-rs.frames:
			if m.Event == event {
				return m
			}
		case <-deadline:
			t.Fatalf("no %q frame received", event)
		}
	}
}

func TestDialSendsIdentity(t *testing.T) {
	srv, rs := newRoundServer(t, true)

	s, cancel, done := dial(t, srv, auth.NewAPIKeyAuth("k-123"))
	defer cancel()

	assert.Equal(t, "k-123", (<-rs.headers).Get(auth.HeaderName))
	assert.Equal(t, s.ID.String(), <-rs.sris)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/socket", nil, testTiming(), clockwork.NewRealClock(), zap.NewNop())
	assert.Error(t, err)
}

func TestAckableMessageAcknowledged(t *testing.T) {
	srv, rs := newRoundServer(t, true)
	s, cancel, _ := dial(t, srv, nil)
	defer cancel()

	s.Send(messages.EventSendMove, messages.MovePayload{From: "e2", To: "e4"}, messages.SendOptions{Ackable: true})
	s.Send(messages.EventOutOfTime, nil, messages.SendOptions{})

	move := nextFrame(t, rs, messages.EventSendMove)
	assert.Equal(t, 1, move.Ack)
	assert.Equal(t, 0, nextFrame(t, rs, messages.EventOutOfTime).Ack)

	require.Eventually(t, func() bool { return len(s.Pending()) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestUnacknowledgedMessageResent(t *testing.T) {
	srv, rs := newRoundServer(t, false)
	s, cancel, _ := dial(t, srv, nil)
	defer cancel()

	s.Send(messages.EventSendMove, messages.MovePayload{From: "e2", To: "e4"}, messages.SendOptions{Ackable: true})

	first := nextFrame(t, rs, messages.EventSendMove)
	again := nextFrame(t, rs, messages.EventSendMove)
	assert.Equal(t, first.Ack, again.Ack)
	assert.Equal(t, []int{1}, s.Pending())
}

func TestInboundForwarded(t *testing.T) {
	srv, _ := newRoundServer(t, true,
		`{"type":"ack","payload":7}`,
		`{"type":"move","payload":{"from":"e2","to":"e4","san":"e4","color":"white"}}`,
	)
	s, cancel, _ := dial(t, srv, nil)
	defer cancel()

	select {
	case msg := <-s.Inbound():
		assert.Equal(t, messages.EventMove, msg.Type)
		var o messages.ServerMove
		require.NoError(t, json.Unmarshal(msg.Payload, &o))
		assert.Equal(t, "e4", o.SAN)
	case <-time.After(2 * time.Second):
		t.Fatal("no inbound message")
	}
}

func TestPingMeasuresLag(t *testing.T) {
	srv, rs := newRoundServer(t, true)
	s, cancel, _ := dial(t, srv, nil)
	defer cancel()

	nextFrame(t, rs, messages.EventPing)
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.pongs > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPingRecoversFromLostPong(t *testing.T) {
	srv, rs := newRoundServer(t, true)
	rs.dropPongs.Store(1)
	s, cancel, _ := dial(t, srv, nil)
	defer cancel()

	nextFrame(t, rs, messages.EventPing)
	nextFrame(t, rs, messages.EventPing)
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.pongs > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPingWaitsForPongWithinInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newOfflineSocket(t, clock)

	s.ping()
	clock.Advance(20 * time.Millisecond)
	s.ping()
	assert.Len(t, s.send, 1)

	for i := 0; i < 4; i++ {
		clock.Advance(50 * time.Millisecond)
		s.ping()
	}
	assert.Len(t, s.send, 5)

	clock.Advance(30 * time.Millisecond)
	s.pong()
	assert.Equal(t, 30*time.Millisecond, s.AverageLag(), "measured from the last ping")
}

func newOfflineSocket(t *testing.T, clock clockwork.Clock) *Socket {
	t.Helper()
	return NewSocket(uuid.New(), nil, testTiming(), clock, zaptest.NewLogger(t))
}

func TestLagMovingAverage(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newOfflineSocket(t, clock)

	s.pong()
	assert.Zero(t, s.AverageLag(), "pong without ping is ignored")

	s.ping()
	clock.Advance(100 * time.Millisecond)
	s.pong()
	assert.Equal(t, 100*time.Millisecond, s.AverageLag())

	s.ping()
	clock.Advance(50 * time.Millisecond)
	s.pong()
	assert.Equal(t, 75*time.Millisecond, s.AverageLag())

	ping := <-s.send
	assert.JSONEq(t, `{"event":"p","payload":0}`, string(ping))
}

func TestResendPendingWaitsForInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newOfflineSocket(t, clock)

	s.Send(messages.EventSendMove, messages.MovePayload{From: "e2", To: "e4"}, messages.SendOptions{Ackable: true})
	s.Send(messages.EventSendMove, messages.MovePayload{From: "g1", To: "f3"}, messages.SendOptions{Ackable: true})
	<-s.send
	<-s.send

	s.resendPending()
	assert.Empty(t, s.send)

	clock.Advance(50 * time.Millisecond)
	s.acknowledge(1)
	s.resendPending()
	require.Len(t, s.send, 1)

	var m messages.OutboundMessage
	require.NoError(t, json.Unmarshal(<-s.send, &m))
	assert.Equal(t, 2, m.Ack)
}

func TestSendAfterCloseDoesNotBlock(t *testing.T) {
	srv, _ := newRoundServer(t, true)
	s, err := Dial(context.Background(), wsURL(srv), nil, testTiming(), clockwork.NewRealClock(), zaptest.NewLogger(t))
	require.NoError(t, err)

	s.Close()
	s.Close()
	for i := 0; i < 300; i++ {
		s.Send(messages.EventOutOfTime, nil, messages.SendOptions{})
	}
}
