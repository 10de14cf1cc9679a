package manager

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/pkg/events"
	"github.com/tecu23/roundctl/pkg/round"
)

type entry struct {
	id       uuid.UUID
	gameID   string
	session  *round.Session
	awaiting bool
}

// Manager keeps the live round sessions of the player and knows which of
// them wait for a move.
type Manager struct {
	sessions  map[string]*entry
	order     []string
	mu        sync.RWMutex
	publisher *events.Publisher
	logger    *zap.Logger
}

// NewManager creates an empty manager
func NewManager(logger *zap.Logger, publisher *events.Publisher) *Manager {
	return &Manager{
		sessions:  make(map[string]*entry),
		logger:    logger,
		publisher: publisher,
	}
}

// AddSession registers a session and returns its instance id. Registering a
// game again replaces the previous session.
func (m *Manager) AddSession(s *round.Session) uuid.UUID {
	id := uuid.New()
	gameID := s.GameID()

	m.mu.Lock()
	if _, ok := m.sessions[gameID]; !ok {
		m.order = append(m.order, gameID)
	}
	m.sessions[gameID] = &entry{id: id, gameID: gameID, session: s}
	m.mu.Unlock()

	m.logger.Info("registered round session",
		zap.String("session_id", id.String()),
		zap.String("game", gameID),
	)

	return id
}

// GetSession returns the session of a game
func (m *Manager) GetSession(gameID string) (*round.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[gameID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// RemoveSession forgets a finished session
func (m *Manager) RemoveSession(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[gameID]; !ok {
		return
	}
	delete(m.sessions, gameID)
	for i, id := range m.order {
		if id == gameID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	m.logger.Info("removed round session", zap.String("game", gameID))
}

// Len returns the number of registered sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// MarkAwaiting records whether a game waits for the player's move.
// Unknown games are ignored.
func (m *Manager) MarkAwaiting(gameID string, awaiting bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[gameID]; ok {
		e.awaiting = awaiting
	}
}

// NextAwaiting returns the first registered game, other than exclude, that
// waits for the player.
func (m *Manager) NextAwaiting(exclude string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, gameID := range m.order {
		if gameID != exclude && m.sessions[gameID].awaiting {
			return gameID, true
		}
	}

	return "", false
}

// Navigate announces that the player should be shown another game.
func (m *Manager) Navigate(gameID string) {
	m.publisher.Publish(events.Event{
		Type:    events.EventNavigate,
		GameID:  gameID,
		Payload: gameID,
	})
}
