package memberskill

import (
	"errors"
	"fmt"
	"slices"
)

// State is the single source of truth for where an assignment stands.
type State string

const (
	StateAssigned  State = "assigned"
	StatePending   State = "pending"
	StateLearning  State = "learning"
	StateRejected  State = "rejected"
	StateOnHold    State = "on-hold"
	StateCompleted State = "completed"
	StateMastered  State = "mastered"
)

// Phase is the coarse progress bucket shown to clients.
type Phase string

const (
	PhaseNotStarted Phase = "NOT_STARTED"
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseCompleted  Phase = "COMPLETED"
)

// Event is an action requested against an assignment.
type Event string

const (
	EventSubmit   Event = "submit"
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventHold     Event = "hold"
	EventComplete Event = "complete"
	EventMaster   Event = "master"
)

var ErrInvalidTransition = errors.New("invalid assignment transition")

type transition struct {
	from []State
	to   State
}

var transitions = map[Event]transition{
	EventSubmit: {
		from: []State{StateAssigned, StateRejected},
		to:   StatePending,
	},
	EventApprove: {
		from: []State{StateAssigned, StatePending, StateRejected, StateOnHold, StateLearning},
		to:   StateLearning,
	},
	EventReject: {
		from: []State{StateAssigned, StatePending, StateLearning, StateOnHold, StateRejected},
		to:   StateRejected,
	},
	EventHold: {
		from: []State{StateAssigned, StatePending, StateLearning},
		to:   StateOnHold,
	},
	EventComplete: {
		from: []State{StateAssigned, StatePending, StateLearning, StateRejected, StateOnHold, StateCompleted},
		to:   StateCompleted,
	},
	EventMaster: {
		from: []State{StateCompleted},
		to:   StateMastered,
	},
}

// Next returns the state reached by applying ev in from.
func Next(from State, ev Event) (State, error) {
	t, ok := transitions[ev]
	if !ok {
		return from, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, ev)
	}
	if !slices.Contains(t.from, from) {
		return from, fmt.Errorf("%w: cannot %s an assignment that is %s", ErrInvalidTransition, ev, from)
	}
	return t.to, nil
}

// Approved reports whether an admin has signed off on the assignment.
func (s State) Approved() bool {
	switch s {
	case StateLearning, StateCompleted, StateMastered:
		return true
	}
	return false
}

func (s State) Phase() Phase {
	switch s {
	case StateLearning, StatePending, StateOnHold:
		return PhaseInProgress
	case StateCompleted, StateMastered:
		return PhaseCompleted
	default:
		return PhaseNotStarted
	}
}

func (s State) Valid() bool {
	switch s {
	case StateAssigned, StatePending, StateLearning, StateRejected, StateOnHold, StateCompleted, StateMastered:
		return true
	}
	return false
}

// ParseState accepts current state names plus the older status and phase spellings.
func ParseState(raw string) (State, bool) {
	switch raw {
	case "approved", "in_progress", "IN_PROGRESS":
		return StateLearning, true
	case "not_started", "NOT_STARTED":
		return StateAssigned, true
	case "COMPLETED":
		return StateCompleted, true
	}
	s := State(raw)
	return s, s.Valid()
}
