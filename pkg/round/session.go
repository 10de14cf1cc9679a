package round

import (
	"context"

	"go.uber.org/zap"

	"github.com/tecu23/roundctl/internal/messages"
)

// Session runs a controller on a single goroutine. Server messages, user
// input and clock ticks are handled one at a time, each to completion.
type Session struct {
	ctrl    *Controller
	inbound <-chan messages.InboundMessage
	input   chan func(*Controller)
	logger  *zap.Logger
}

// NewSession creates a session reading server messages from inbound.
func NewSession(ctrl *Controller, inbound <-chan messages.InboundMessage, logger *zap.Logger) *Session {
	return &Session{
		ctrl:    ctrl,
		inbound: inbound,
		input:   make(chan func(*Controller), 64),
		logger:  logger,
	}
}

// GameID returns the id of the game the session plays.
func (s *Session) GameID() string {
	return s.ctrl.GameID()
}

// Do queues fn to run on the session goroutine. It blocks while the queue
// is full.
func (s *Session) Do(fn func(*Controller)) {
	s.input <- fn
}

// Run handles events until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ticker := s.ctrl.clk.NewTicker(s.ctrl.TickInterval())
	defer ticker.Stop()

	s.logger.Info("session started",
		zap.String("game", s.GameID()),
		zap.Duration("tick", s.ctrl.TickInterval()),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session stopped", zap.String("game", s.GameID()))
			return ctx.Err()

		case msg, ok := <-s.inbound:
			if !ok {
				s.logger.Warn("server stream closed", zap.String("game", s.GameID()))
				s.inbound = nil
				continue
			}
			s.ctrl.Handle(msg)

		case fn := <-s.input:
			fn(s.ctrl)

		case <-ticker.Chan():
			s.drainInbound()
			s.ctrl.Tick()
		}
	}
}

// drainInbound handles the messages already received so a tick never runs
// on a state older than them.
func (s *Session) drainInbound() {
	for {
		select {
		case msg, ok := <-s.inbound:
			if !ok {
				s.inbound = nil
				return
			}
			s.ctrl.Handle(msg)
		default:
			return
		}
	}
}
