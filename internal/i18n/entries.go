package i18n

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default holds the english messages of the round.
var Default = map[string]string{
	"yourTurn":           "Your turn",
	"waitingForOpponent": "Waiting for opponent",
	"gameOver":           "Game over",
	"spectating":         "Spectating %s",
	"outOfTime":          "%s is out of time",
	"takebackOffered":    "Takeback proposed",
	"moveOnEnabled":      "Move on to the next game",
}

// LoadEntries reads a YAML map of messages over Default. An empty path
// returns a copy of Default.
func LoadEntries(path string) (map[string]string, error) {
	entries := make(map[string]string, len(Default))
	for k, v := range Default {
		entries[k] = v
	}
	if path == "" {
		return entries, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	for k, v := range overrides {
		entries[k] = v
	}

	return entries, nil
}
