package statemachine

import (
	"time"
)

// State represents a state in a lifecycle chart.
type State interface {
	Name() string
}

// Event represents an event that can trigger a state transition.
type Event interface {
	Name() string
}

// Payload carries arbitrary context recorded alongside a transition. It is
// stored with the audit record but never consulted when deciding legality.
type Payload map[string]any

// TransitionDef declares one edge of a chart: applying Event while in From
// moves the entity to To.
type TransitionDef struct {
	From  State
	To    State
	Event Event
}

// Outcome is the result of a successful transition decision. It is the
// complete audit record for one move: where the entity was, what happened,
// where it ended up, and when.
type Outcome struct {
	From       State
	Event      Event
	To         State
	Payload    Payload
	OccurredAt time.Time
}

// StringState provides a simple string-based state implementation for basic use cases.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent provides a simple string-based event implementation for basic use cases.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}
