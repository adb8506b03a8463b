package lead

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// DecideFunc is invoked with a lead's current state while the row lock is
// held. It must be a pure decision (no I/O); the storage layer persists the
// returned outcome atomically with the state change, or nothing at all when
// an error comes back.
type DecideFunc func(current statemachine.StringState) (statemachine.Outcome, error)

// ListFilter narrows ListLeads. A nil State means all states.
type ListFilter struct {
	State *statemachine.StringState
	Limit int
}

// Storage is the entity store for leads: the snapshot row plus its
// append-only transition log.
//
// ApplyOutcome is the concurrency-critical operation. Implementations must
// acquire an exclusive per-lead lock for the whole load-decide-write span,
// so that concurrent calls against the same lead serialize (lock order =
// commit order = audit order) while calls against different leads proceed
// independently. A decide error releases the lock without writing anything.
type Storage interface {
	// CreateLead inserts the snapshot row together with its creation
	// transition in one atomic unit.
	CreateLead(ctx context.Context, l Lead, initial Transition) error

	// ApplyOutcome locks the lead row, feeds its current state to decide,
	// and on success appends the outcome's transition and moves the
	// snapshot, all in one commit. Returns the committed transition.
	ApplyOutcome(ctx context.Context, id uuid.UUID, decide DecideFunc) (Transition, error)

	LeadByID(ctx context.Context, id uuid.UUID) (Lead, error)
	LeadByEmail(ctx context.Context, email string) (Lead, error)
	ListLeads(ctx context.Context, f ListFilter) ([]Lead, error)

	// History returns the lead's transitions ordered by occurrence time.
	History(ctx context.Context, id uuid.UUID) ([]Transition, error)
}
