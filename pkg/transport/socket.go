// Package transport is the websocket link to the round server. Ackable
// messages are kept until the server acknowledges them and resent meanwhile.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/auth"
	"github.com/tecu23/roundctl/internal/messages"
	"github.com/tecu23/roundctl/pkg/config"
)

// ErrClosed is returned when sending on a closed socket.
var ErrClosed = errors.New("socket closed")

// lagMix is the weight of a new round trip once the average has settled
const lagMix = 0.1

type pendingFrame struct {
	data   []byte
	sentAt time.Time
}

// Socket is a round.Transport over a websocket connection
type Socket struct {
	ID      uuid.UUID // sent as sri, identifies this client to the server
	ws      *websocket.Conn
	send    chan []byte // Buffered channel of outbound messages.
	inbound chan messages.InboundMessage
	writeMu sync.Mutex // Mutex to protect concurrent writes to ws.

	mu        sync.Mutex
	ackID     int
	pending   map[int]pendingFrame
	lag       time.Duration
	pongs     int
	pingSent  time.Time
	awaitPong bool

	done      chan struct{}
	closeOnce sync.Once

	timing config.Timing
	clock  clockwork.Clock
	logger *zap.Logger
}

// Dial connects to the round socket at rawURL.
func Dial(
	ctx context.Context,
	rawURL string,
	key *auth.APIKeyAuth,
	timing config.Timing,
	clock clockwork.Clock,
	logger *zap.Logger,
) (*Socket, error) {
	id := uuid.New()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid socket url: %w", err)
	}
	q := u.Query()
	q.Set("sri", id.String())
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), key.Header())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}

	logger.Info("socket connected", zap.String("sri", id.String()), zap.String("url", u.Redacted()))
	return NewSocket(id, ws, timing, clock, logger), nil
}

// NewSocket wraps an open connection.
func NewSocket(
	id uuid.UUID,
	ws *websocket.Conn,
	timing config.Timing,
	clock clockwork.Clock,
	logger *zap.Logger,
) *Socket {
	return &Socket{
		ID:      id,
		ws:      ws,
		send:    make(chan []byte, 256), // buffered for outgoing messages
		inbound: make(chan messages.InboundMessage, 64),
		pending: make(map[int]pendingFrame),
		done:    make(chan struct{}),
		timing:  timing,
		clock:   clock,
		logger:  logger.With(zap.String("sri", id.String())),
	}
}

// Inbound delivers the server's messages. It is closed when the read pump
// stops.
func (s *Socket) Inbound() <-chan messages.InboundMessage {
	return s.inbound
}

// Run pumps messages until ctx is done or the connection fails.
func (s *Socket) Run(ctx context.Context) error {
	go s.WritePump()
	go s.keepAlive()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	err := s.ReadPump()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Close shuts the connection down. It is safe to call more than once.
func (s *Socket) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.ws.Close()
	})
}

// ReadPump handles inbound messages from the server
func (s *Socket) ReadPump() error {
	defer func() {
		close(s.inbound)
		s.Close()
	}()

	for {
		msgType, msg, err := s.ws.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
			}
			s.logger.Error("read error", zap.Error(err))
			return fmt.Errorf("read: %w", err)
		}

		// We only handle text
		if msgType != websocket.TextMessage {
			continue
		}

		var inbound messages.InboundMessage
		if err := json.Unmarshal(msg, &inbound); err != nil {
			s.logger.Error("Failed to parse inbound JSON", zap.Error(err))
			continue
		}

		switch inbound.Type {
		case messages.EventAck:
			id, err := messages.DecodeAck(inbound)
			if err != nil {
				s.logger.Warn("invalid ack", zap.Error(err))
				continue
			}
			s.acknowledge(id)
		case messages.EventPong:
			s.pong()
		default:
			select {
			case s.inbound <- inbound:
			case <-s.done:
				return nil
			}
		}
	}
}

// WritePump handles outbound messages to the server
func (s *Socket) WritePump() {
	for {
		select {
		case <-s.done:
			return
		case message := <-s.send:
			s.writeMu.Lock()
			err := s.ws.WriteMessage(websocket.TextMessage, message)
			s.writeMu.Unlock()
			if err != nil {
				s.logger.Error("write error", zap.Error(err))
				s.Close()
				return
			}
		}
	}
}

func (s *Socket) keepAlive() {
	ping := s.clock.NewTicker(s.timing.PingInterval)
	defer ping.Stop()
	resend := s.clock.NewTicker(s.timing.AckResend)
	defer resend.Stop()

	s.ping()
	for {
		select {
		case <-s.done:
			return
		case <-ping.Chan():
			s.ping()
		case <-resend.Chan():
			s.resendPending()
		}
	}
}

// Send queues a message for the server. Ackable messages get the next ack
// id and stay pending until the server acknowledges them.
func (s *Socket) Send(event string, payload interface{}, opts messages.SendOptions) {
	msg := messages.OutboundMessage{Event: event, Payload: payload}

	s.mu.Lock()
	if opts.Ackable {
		s.ackID++
		msg.Ack = s.ackID
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("Error marshaling JSON", zap.String("event", event), zap.Error(err))
		return
	}
	if opts.Ackable {
		s.pending[msg.Ack] = pendingFrame{data: data, sentAt: s.clock.Now()}
	}
	s.mu.Unlock()

	if err := s.enqueue(data); err != nil {
		s.logger.Debug("message not sent", zap.String("event", event), zap.Error(err))
	}
}

func (s *Socket) enqueue(data []byte) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	select {
	case s.send <- data:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Pending returns the ids of the unacknowledged messages in send order.
func (s *Socket) Pending() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pendingIDsLocked()
}

func (s *Socket) pendingIDsLocked() []int {
	ids := make([]int, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Socket) acknowledge(id int) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// resendPending sends again, in order, every message left unacknowledged
// for longer than the resend interval.
func (s *Socket) resendPending() {
	now := s.clock.Now()

	s.mu.Lock()
	var frames [][]byte
	for _, id := range s.pendingIDsLocked() {
		f := s.pending[id]
		if now.Sub(f.sentAt) < s.timing.AckResend {
			continue
		}
		f.sentAt = now
		s.pending[id] = f
		frames = append(frames, f.data)
	}
	s.mu.Unlock()

	for _, data := range frames {
		if err := s.enqueue(data); err != nil {
			return
		}
	}
	if len(frames) > 0 {
		s.logger.Debug("resent unacknowledged messages", zap.Int("count", len(frames)))
	}
}

// ping sends a ping unless one is still in flight. A ping unanswered for a
// whole interval counts as lost.
func (s *Socket) ping() {
	s.mu.Lock()
	if s.awaitPong && s.clock.Since(s.pingSent) < s.timing.PingInterval {
		s.mu.Unlock()
		return
	}
	s.awaitPong = true
	s.pingSent = s.clock.Now()
	lag := s.lag
	s.mu.Unlock()

	data, err := json.Marshal(messages.OutboundMessage{Event: messages.EventPing, Payload: lag.Milliseconds()})
	if err != nil {
		s.logger.Error("Error marshaling JSON", zap.Error(err))
		return
	}
	_ = s.enqueue(data)
}

// pong folds a round trip into the moving average. The first few pongs
// weigh more so the average settles quickly.
func (s *Socket) pong() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.awaitPong {
		return
	}
	s.awaitPong = false

	rtt := s.clock.Since(s.pingSent)
	s.pongs++
	mix := lagMix
	if s.pongs <= 4 {
		mix = 1 / float64(s.pongs)
	}
	s.lag += time.Duration(mix * float64(rtt-s.lag))
}

// AverageLag returns the moving average of the ping round trips.
func (s *Socket) AverageLag() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lag
}
