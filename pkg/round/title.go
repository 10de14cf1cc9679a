package round

import "github.com/tecu23/roundctl/pkg/game"

// TitleText is the window title for the session state.
func TitleText(d *game.Data, t Translator) string {
	switch {
	case !d.Playable():
		return t.Trans("gameOver")
	case d.Player.Spectator:
		return t.Trans("spectating", d.Game.ID)
	case d.IsPlayerTurn():
		return t.Trans("yourTurn")
	default:
		return t.Trans("waitingForOpponent")
	}
}
