package lead

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// MemoryStorage is an in-memory Storage for tests and demos. It mirrors the
// PostgreSQL discipline: a per-lead mutex is held across the whole
// load-decide-write span, so concurrent ApplyOutcome calls on one lead
// serialize while different leads proceed independently.
type MemoryStorage struct {
	mu      sync.RWMutex
	leads   map[uuid.UUID]Lead
	history map[uuid.UUID][]Transition
	locks   map[uuid.UUID]*sync.Mutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		leads:   make(map[uuid.UUID]Lead),
		history: make(map[uuid.UUID][]Transition),
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *MemoryStorage) CreateLead(_ context.Context, l Lead, initial Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[l.ID]; ok {
		return ErrAlreadyExists
	}
	for _, existing := range s.leads {
		if existing.Email != "" && existing.Email == l.Email {
			return ErrAlreadyExists
		}
	}

	s.leads[l.ID] = l
	s.history[l.ID] = []Transition{cloneTransition(initial)}
	s.locks[l.ID] = &sync.Mutex{}
	return nil
}

func (s *MemoryStorage) ApplyOutcome(_ context.Context, id uuid.UUID, decide DecideFunc) (Transition, error) {
	s.mu.RLock()
	rowLock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return Transition{}, ErrNotFound
	}

	// Exclusive per-lead lock for the whole load-decide-write span.
	rowLock.Lock()
	defer rowLock.Unlock()

	s.mu.RLock()
	l := s.leads[id]
	s.mu.RUnlock()

	outcome, err := decide(l.State)
	if err != nil {
		return Transition{}, err
	}

	rec := Transition{
		ID:         uuid.New(),
		LeadID:     id,
		FromState:  statemachine.StringState(outcome.From.Name()),
		Event:      statemachine.StringEvent(outcome.Event.Name()),
		ToState:    statemachine.StringState(outcome.To.Name()),
		Payload:    outcome.Payload,
		OccurredAt: outcome.OccurredAt,
	}

	s.mu.Lock()
	l.State = rec.ToState
	l.StateEnteredAt = rec.OccurredAt
	l.UpdatedAt = rec.OccurredAt
	s.leads[id] = l
	s.history[id] = append(s.history[id], cloneTransition(rec))
	s.mu.Unlock()

	return rec, nil
}

func (s *MemoryStorage) LeadByID(_ context.Context, id uuid.UUID) (Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leads[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return l, nil
}

func (s *MemoryStorage) LeadByEmail(_ context.Context, email string) (Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.leads {
		if l.Email == email {
			return l, nil
		}
	}
	return Lead{}, ErrNotFound
}

func (s *MemoryStorage) ListLeads(_ context.Context, f ListFilter) ([]Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var leads []Lead
	for _, l := range s.leads {
		if f.State != nil && l.State != *f.State {
			continue
		}
		leads = append(leads, l)
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].CreatedAt.After(leads[j].CreatedAt) })
	if f.Limit > 0 && len(leads) > f.Limit {
		leads = leads[:f.Limit]
	}
	return leads, nil
}

func (s *MemoryStorage) History(_ context.Context, id uuid.UUID) ([]Transition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[id]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]Transition, len(history))
	for i, rec := range history {
		out[i] = cloneTransition(rec)
	}
	return out, nil
}

func cloneTransition(rec Transition) Transition {
	if rec.Payload != nil {
		payload := make(statemachine.Payload, len(rec.Payload))
		maps.Copy(payload, rec.Payload)
		rec.Payload = payload
	}
	return rec
}
