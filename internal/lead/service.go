package lead

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// TransitionHook runs after a transition has been committed. Hooks must not
// mutate lead state directly; anything they trigger goes back through
// ApplyEvent.
type TransitionHook func(ctx context.Context, rec Transition)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTransitionHook registers a post-commit hook.
func WithTransitionHook(hook TransitionHook) ServiceOption {
	return func(s *Service) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}

// Service is the sole mutation path for leads. Every state change flows
// through the lifecycle chart and the storage locking discipline; nothing
// writes around it.
type Service struct {
	storage Storage
	log     *slog.Logger
	hooks   []TransitionHook
}

func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a lead in the start state together with its creation
// transition (NONE + LEAD_CREATED -> NEW) in one atomic unit. The caller
// (ingestion pipeline) has already validated and deduplicated the lead.
func (s *Service) Create(ctx context.Context, l Lead, payload statemachine.Payload) (Lead, error) {
	now := time.Now().UTC()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.State = StateNew
	l.StateEnteredAt = now
	l.CreatedAt = now
	l.UpdatedAt = now

	initial := Transition{
		ID:         uuid.New(),
		LeadID:     l.ID,
		FromState:  StateNone,
		Event:      EventLeadCreated,
		ToState:    StateNew,
		Payload:    payload,
		OccurredAt: now,
	}

	if err := s.storage.CreateLead(ctx, l, initial); err != nil {
		return Lead{}, err
	}

	s.log.InfoContext(ctx, "lead created",
		"lead_id", l.ID,
		"state", l.State.Name(),
	)
	s.notify(ctx, initial)
	return l, nil
}

// ApplyEvent applies one lifecycle event to a lead and returns the new
// state. Exactly one of these things happens: the transition commits in
// full (snapshot moved, audit row appended), or nothing is persisted and
// the failure kind says why.
func (s *Service) ApplyEvent(ctx context.Context, id uuid.UUID, event statemachine.StringEvent, payload statemachine.Payload) (statemachine.StringState, error) {
	if _, ok := allEvents[event]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, event.Name())
	}

	rec, err := s.storage.ApplyOutcome(ctx, id, func(current statemachine.StringState) (statemachine.Outcome, error) {
		return Lifecycle.Decide(current, event, payload)
	})
	if err != nil {
		return "", err
	}

	s.log.InfoContext(ctx, "lead transition",
		"lead_id", id,
		"from", rec.FromState.Name(),
		"event", rec.Event.Name(),
		"to", rec.ToState.Name(),
	)
	s.notify(ctx, rec)
	return rec.ToState, nil
}

// Lead returns the current snapshot of a lead.
func (s *Service) Lead(ctx context.Context, id uuid.UUID) (Lead, error) {
	return s.storage.LeadByID(ctx, id)
}

// LeadByEmail returns the lead owning the given email, if any.
func (s *Service) LeadByEmail(ctx context.Context, email string) (Lead, error) {
	return s.storage.LeadByEmail(ctx, email)
}

// History returns the lead's full audit trail ordered by occurrence.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]Transition, error) {
	return s.storage.History(ctx, id)
}

// List returns leads matching the filter, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Lead, error) {
	return s.storage.ListLeads(ctx, f)
}

// VerifyHistory replays the lead's committed transition sequence from its
// creation state and checks the fold reproduces the stored current state.
func (s *Service) VerifyHistory(ctx context.Context, id uuid.UUID) error {
	l, err := s.storage.LeadByID(ctx, id)
	if err != nil {
		return err
	}
	history, err := s.storage.History(ctx, id)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("%w: lead %s has no creation record", ErrHistoryMismatch, id)
	}

	events := make([]statemachine.Event, 0, len(history)-1)
	for _, rec := range history[1:] {
		events = append(events, rec.Event)
	}

	final, err := Lifecycle.Replay(history[0].ToState, events)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHistoryMismatch, err)
	}
	if final.Name() != l.State.Name() {
		return fmt.Errorf("%w: replay ends at %s, snapshot says %s", ErrHistoryMismatch, final.Name(), l.State.Name())
	}
	return nil
}

func (s *Service) notify(ctx context.Context, rec Transition) {
	for _, hook := range s.hooks {
		hook(ctx, rec)
	}
}
