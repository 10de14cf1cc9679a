package round

import (
	"go.uber.org/zap"

	"github.com/tecu23/roundctl/pkg/game"
)

// MoveOnPref is the preference key of auto navigation.
const MoveOnPref = "move_on"

// Preferences is a bool preference store
type Preferences interface {
	Get(key string) bool
	Set(key string, value bool)
}

// Navigator knows the player's other games
type Navigator interface {
	MarkAwaiting(gameID string, awaiting bool)
	NextAwaiting(exclude string) (string, bool)
	Navigate(gameID string)
}

// AutoNavigator moves the player to the next game waiting for them once
// they have moved in the current one.
type AutoNavigator struct {
	prefs  Preferences
	nav    Navigator
	logger *zap.Logger
}

// NewAutoNavigator creates a MoveOn backed by prefs.
func NewAutoNavigator(prefs Preferences, nav Navigator, logger *zap.Logger) *AutoNavigator {
	return &AutoNavigator{
		prefs:  prefs,
		nav:    nav,
		logger: logger,
	}
}

// Enabled reports whether auto navigation is on.
func (a *AutoNavigator) Enabled() bool {
	return a.prefs.Get(MoveOnPref)
}

// Toggle flips the preference and returns the new value.
func (a *AutoNavigator) Toggle() bool {
	v := !a.Enabled()
	a.prefs.Set(MoveOnPref, v)
	return v
}

// Next records whether d waits for the player and, once the player has
// moved, navigates to another game that does.
func (a *AutoNavigator) Next(d game.Data) {
	a.nav.MarkAwaiting(d.Game.ID, d.IsPlayerTurn())

	if !a.Enabled() || !d.IsPlayerPlaying() || d.IsPlayerTurn() {
		return
	}

	next, ok := a.nav.NextAwaiting(d.Game.ID)
	if !ok {
		return
	}

	a.logger.Info("moving on", zap.String("from", d.Game.ID), zap.String("to", next))
	a.nav.Navigate(next)
}
