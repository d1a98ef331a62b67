package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBegin          EventType = "begin"
	EventStateChange    EventType = "state_change"
	EventReveal         EventType = "reveal"
	EventBranchSelected EventType = "branch_selected"
	EventEnd            EventType = "end"
	EventFault          EventType = "fault"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
}

// ConversationEvent is emitted when a conversation opens.
type ConversationEvent struct {
	EventBase
	Blocks   int `json:"blocks"`
	Branches int `json:"branches"`
}

// StateEvent represents a move between two engine states.
type StateEvent struct {
	EventBase
	From State `json:"from"`
	To   State `json:"to"`
}

// RevealEvent is emitted once per revealed character.
type RevealEvent struct {
	EventBase
	Block    int  `json:"block"`
	Revealed int  `json:"revealed"`
	Char     rune `json:"char"`
}

// BranchEvent is emitted when the player confirms an option.
type BranchEvent struct {
	EventBase
	Index int    `json:"index"`
	Label string `json:"label"`
}

// EndEvent is emitted when the box closes. Forced is true when the close came from ForceClose
// or from an invariant violation rather than a dismiss press.
type EndEvent struct {
	EventBase
	Forced bool `json:"forced,omitempty"`
}

// FaultEvent reports an internal invariant violation.
type FaultEvent struct {
	EventBase
	Err error `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside Begin/Tick and must return promptly.
type LifecycleHooks struct {
	OnBegin          func(*ConversationEvent)
	OnStateChange    func(*StateEvent)
	OnReveal         func(*RevealEvent)
	OnBranchSelected func(*BranchEvent)
	OnEnd            func(*EndEvent)
	OnFault          func(*FaultEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnBegin:          chain(h.OnBegin, other.OnBegin),
		OnStateChange:    chain(h.OnStateChange, other.OnStateChange),
		OnReveal:         chain(h.OnReveal, other.OnReveal),
		OnBranchSelected: chain(h.OnBranchSelected, other.OnBranchSelected),
		OnEnd:            chain(h.OnEnd, other.OnEnd),
		OnFault:          chain(h.OnFault, other.OnFault),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
