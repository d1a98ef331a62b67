package domain

// State is the position of the dialogue engine in its state machine.
type State uint8

const (
	// StateIdle means no conversation is running and the box is hidden.
	StateIdle State = iota
	// StateRevealing means the current block is being exposed one character at a time.
	StateRevealing
	// StateAwaitingSelection means the block is fully shown and the option menu waits for a confirm press.
	StateAwaitingSelection
	// StateAwaitingDismiss means the block is fully shown and one confirm press closes the box.
	StateAwaitingDismiss
)

// String returns the readable name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRevealing:
		return "revealing"
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateAwaitingDismiss:
		return "awaiting_dismiss"
	default:
		return "unknown"
	}
}

// Visible reports whether the dialogue box is on screen in this state.
func (s State) Visible() bool {
	return s != StateIdle
}

// Awaiting reports whether the engine is waiting for the player to confirm.
func (s State) Awaiting() bool {
	return s == StateAwaitingSelection || s == StateAwaitingDismiss
}
