package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the game and its hosts to work with intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - steer up
	ActionDown           // S, Down arrow - steer down
	ActionLeft           // A, Left arrow - steer left
	ActionRight          // D, Right arrow - steer right
	ActionPause          // Space, P - pause/unpause game
	ActionRestart        // R key - restart game
	ActionScores         // H key - show highscores
	ActionConfirm        // Enter - confirm name entry
	ActionBack           // Esc - leave the current overlay
	ActionQuit           // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionScores:
		return "Scores"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ParseAction maps a lowercase action name (as sent by web clients) to an Action.
func ParseAction(name string) Action {
	switch name {
	case "up":
		return ActionUp
	case "down":
		return ActionDown
	case "left":
		return ActionLeft
	case "right":
		return ActionRight
	case "pause":
		return ActionPause
	case "restart":
		return ActionRestart
	default:
		return ActionNone
	}
}
