package game

import "github.com/tecu23/roundctl/internal/color"

// Playable reports whether the game still accepts moves.
func (d *Data) Playable() bool {
	return d.Game.Status.Playable()
}

// IsPlayerPlaying reports whether the local player takes part in a live game.
func (d *Data) IsPlayerPlaying() bool {
	return d.Playable() && !d.Player.Spectator
}

// IsPlayerTurn reports whether the local player is to move.
func (d *Data) IsPlayerTurn() bool {
	return d.IsPlayerPlaying() && d.Game.Player == d.Player.Color
}

// MovesSinceStart counts half moves played since the game (re)started.
func (d *Data) MovesSinceStart() int {
	return d.Game.Turns - d.Game.StartedAtTurn
}

// SetOnGame records the presence of the side playing c.
func (d *Data) SetOnGame(c color.Color, onGame bool) {
	if d.Player.Color == c {
		d.Player.OnGame = onGame
		return
	}

	d.Opponent.OnGame = onGame
}

// Clone returns a deep copy that shares no memory with d.
func (d Data) Clone() Data {
	out := d
	if d.Game.Moves != nil {
		out.Game.Moves = append([]string(nil), d.Game.Moves...)
	}
	if d.Clock != nil {
		c := *d.Clock
		out.Clock = &c
	}
	if d.Correspondence != nil {
		c := *d.Correspondence
		out.Correspondence = &c
	}
	if d.Player.User != nil {
		u := *d.Player.User
		out.Player.User = &u
	}
	if d.Opponent.User != nil {
		u := *d.Opponent.User
		out.Opponent.User = &u
	}

	return out
}

// Merge folds an authoritative snapshot into the current state. Snapshot
// fields win and lists are replaced. Sections the snapshot omits are kept,
// as are the position when it has none and the local player's color. Merging the same snapshot twice yields the
// same state as merging it once.
func Merge(old, snap Data) Data {
	merged := snap.Clone()
	prev := old.Clone()

	if prev.Player.Color.Valid() {
		merged.Player.Color = prev.Player.Color
		merged.Opponent.Color = prev.Player.Color.Opp()
	}
	if merged.Player.User == nil {
		merged.Player.User = prev.Player.User
	}
	if merged.Clock == nil {
		merged.Clock = prev.Clock
	}
	if merged.Correspondence == nil {
		merged.Correspondence = prev.Correspondence
	}
	if merged.Game.FEN == "" {
		merged.Game.FEN = prev.Game.FEN
	}
	if merged.Game.Moves == nil {
		merged.Game.Moves = []string{}
	}

	return merged
}
