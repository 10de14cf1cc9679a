// Package config holds the client configuration: where to connect and the
// timing policy of clocks and transport.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the client
type Config struct {
	Debug     bool
	GameURL   string // REST endpoint serving the initial snapshot
	SocketURL string
	APIKey    string
	Lang      string
	Timing    Timing
}

// Timing groups the cadences and cooldowns. None of them is a correctness
// constant; each only has to be positive.
type Timing struct {
	ClockTick                  time.Duration `yaml:"clock_tick"`
	CorrespondenceTick         time.Duration `yaml:"correspondence_tick"`
	PlayerOutOfTimeCooldown    time.Duration `yaml:"player_outoftime_cooldown"`
	SpectatorOutOfTimeCooldown time.Duration `yaml:"spectator_outoftime_cooldown"`
	PingInterval               time.Duration `yaml:"ping_interval"`
	AckResend                  time.Duration `yaml:"ack_resend"`
}

// ErrInvalidTiming is returned when a timing value is not positive.
var ErrInvalidTiming = errors.New("timing values must be positive")

// DefaultTiming returns the cadences the server expects from clients.
func DefaultTiming() Timing {
	return Timing{
		ClockTick:                  100 * time.Millisecond,
		CorrespondenceTick:         time.Second,
		PlayerOutOfTimeCooldown:    500 * time.Millisecond,
		SpectatorOutOfTimeCooldown: time.Second,
		PingInterval:               2 * time.Second,
		AckResend:                  time.Second,
	}
}

// OutOfTimeCooldown picks the cooldown for players or spectators.
func (t Timing) OutOfTimeCooldown(spectator bool) time.Duration {
	if spectator {
		return t.SpectatorOutOfTimeCooldown
	}
	return t.PlayerOutOfTimeCooldown
}

// Validate checks every value is positive.
func (t Timing) Validate() error {
	values := map[string]time.Duration{
		"clock_tick":                   t.ClockTick,
		"correspondence_tick":          t.CorrespondenceTick,
		"player_outoftime_cooldown":    t.PlayerOutOfTimeCooldown,
		"spectator_outoftime_cooldown": t.SpectatorOutOfTimeCooldown,
		"ping_interval":                t.PingInterval,
		"ack_resend":                   t.AckResend,
	}
	for name, v := range values {
		if v <= 0 {
			return fmt.Errorf("%w: %s is %s", ErrInvalidTiming, name, v)
		}
	}

	return nil
}

// LoadTiming reads a YAML timing file over the defaults. An empty path
// returns the defaults.
func LoadTiming(path string) (Timing, error) {
	timing := DefaultTiming()
	if path == "" {
		return timing, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Timing{}, fmt.Errorf("failed to read timing file: %w", err)
	}

	if err := yaml.Unmarshal(data, &timing); err != nil {
		return Timing{}, fmt.Errorf("failed to parse timing file: %w", err)
	}

	if err := timing.Validate(); err != nil {
		return Timing{}, err
	}

	return timing, nil
}

// GetEnv returns the environment value of key or defaultValue when unset.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
