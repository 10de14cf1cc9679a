package repository

import (
	"sync"

	"go.uber.org/zap"
)

// InMemoryPreferences is an in-memory store of the player's bool preferences
type InMemoryPreferences struct {
	values map[string]bool
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewInMemoryPreferences creates a store seeded with defaults
func NewInMemoryPreferences(defaults map[string]bool, logger *zap.Logger) *InMemoryPreferences {
	values := make(map[string]bool, len(defaults))
	for k, v := range defaults {
		values[k] = v
	}

	return &InMemoryPreferences{
		values: values,
		logger: logger,
	}
}

// Get returns a preference, false when unset
func (r *InMemoryPreferences) Get(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.values[key]
}

// Set stores a preference
func (r *InMemoryPreferences) Set(key string, value bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = value
	r.logger.Debug("preference set", zap.String("key", key), zap.Bool("value", value))
}

// All returns a copy of every stored preference
func (r *InMemoryPreferences) All() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}

	return out
}
