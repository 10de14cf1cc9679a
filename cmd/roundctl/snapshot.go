package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tecu23/roundctl/internal/auth"
	"github.com/tecu23/roundctl/pkg/game"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

// fetchSnapshot loads the initial state of the game.
func fetchSnapshot(ctx context.Context, url string, key *auth.APIKeyAuth) (game.Data, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return game.Data{}, fmt.Errorf("snapshot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	key.Apply(req.Header)

	resp, err := httpClient.Do(req)
	if err != nil {
		return game.Data{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return game.Data{}, fmt.Errorf("fetch snapshot: unexpected status %s", resp.Status)
	}

	var data game.Data
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return game.Data{}, fmt.Errorf("decode snapshot: %w", err)
	}

	return data, nil
}
