package lead

import (
	"time"

	"github.com/google/uuid"

	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// Lead is the snapshot row: where the lead is right now, plus the contact
// attributes the FSM never looks at.
type Lead struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Company   string
	Title     string
	Industry  string
	Source    string

	State          statemachine.StringState
	StateEnteredAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the lead has finished its lifecycle.
func (l Lead) Terminal() bool {
	return Lifecycle.IsTerminal(l.State)
}

// Transition is one immutable audit entry: every committed state change
// appends exactly one of these, and no core operation ever updates or
// deletes one. The ordered sequence per lead replays to its current state.
type Transition struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	FromState  statemachine.StringState
	Event      statemachine.StringEvent
	ToState    statemachine.StringState
	Payload    statemachine.Payload
	OccurredAt time.Time
}
