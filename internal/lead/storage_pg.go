package lead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadflowhq/leadflow/pkg/pg"
	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// PGStorage implements Storage on PostgreSQL. Per-lead serialization comes
// from SELECT ... FOR UPDATE on the snapshot row; the row lock is held until
// the surrounding transaction commits or rolls back, which makes the
// load-decide-write span atomic and strictly ordered per lead.
type PGStorage struct {
	pool *pgxpool.Pool
}

func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

const leadColumns = `id, email, first_name, last_name, company, title, industry, source, state, state_entered_at, created_at, updated_at`

func (s *PGStorage) CreateLead(ctx context.Context, l Lead, initial Transition) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		l.ID, l.Email, l.FirstName, l.LastName, l.Company, l.Title, l.Industry,
		l.Source, string(l.State), l.StateEnteredAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return errors.Join(ErrAlreadyExists, err)
		}
		return errors.Join(ErrPersistenceFailure, err)
	}

	if err := insertTransition(ctx, tx, initial); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}
	return nil
}

func (s *PGStorage) ApplyOutcome(ctx context.Context, id uuid.UUID, decide DecideFunc) (Transition, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Transition{}, errors.Join(ErrPersistenceFailure, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// The row lock serializes concurrent appliers on this lead until commit.
	var current string
	err = tx.QueryRow(ctx, `SELECT state FROM leads WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Transition{}, ErrNotFound
		}
		return Transition{}, errors.Join(ErrPersistenceFailure, err)
	}

	outcome, err := decide(statemachine.StringState(current))
	if err != nil {
		// Engine errors pass through intact; the deferred rollback releases
		// the lock without writing anything.
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

	if err := insertTransition(ctx, tx, rec); err != nil {
		return Transition{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE leads SET state = $2, state_entered_at = $3, updated_at = $3
		WHERE id = $1`,
		id, string(rec.ToState), rec.OccurredAt,
	)
	if err != nil {
		return Transition{}, errors.Join(ErrPersistenceFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Transition{}, errors.Join(ErrPersistenceFailure, err)
	}
	return rec, nil
}

func insertTransition(ctx context.Context, tx pgx.Tx, rec Transition) error {
	payload, err := marshalPayload(rec.Payload)
	if err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO lead_transitions (id, lead_id, from_state, event, to_state, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.LeadID, string(rec.FromState), string(rec.Event), string(rec.ToState),
		payload, rec.OccurredAt,
	)
	if err != nil {
		return errors.Join(ErrPersistenceFailure, err)
	}
	return nil
}

func (s *PGStorage) LeadByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return s.queryLead(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
}

func (s *PGStorage) LeadByEmail(ctx context.Context, email string) (Lead, error) {
	return s.queryLead(ctx, `SELECT `+leadColumns+` FROM leads WHERE lower(email) = lower($1)`, email)
}

func (s *PGStorage) queryLead(ctx context.Context, query string, arg any) (Lead, error) {
	var l Lead
	var state string
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&l.ID, &l.Email, &l.FirstName, &l.LastName, &l.Company, &l.Title,
		&l.Industry, &l.Source, &state, &l.StateEnteredAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, errors.Join(ErrPersistenceFailure, err)
	}
	l.State = statemachine.StringState(state)
	return l, nil
}

func (s *PGStorage) ListLeads(ctx context.Context, f ListFilter) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	args := []any{}
	if f.State != nil {
		query += ` WHERE state = $1`
		args = append(args, string(*f.State))
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrPersistenceFailure, err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		var state string
		if err := rows.Scan(
			&l.ID, &l.Email, &l.FirstName, &l.LastName, &l.Company, &l.Title,
			&l.Industry, &l.Source, &state, &l.StateEnteredAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, errors.Join(ErrPersistenceFailure, err)
		}
		l.State = statemachine.StringState(state)
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrPersistenceFailure, err)
	}
	return leads, nil
}

func (s *PGStorage) History(ctx context.Context, id uuid.UUID) ([]Transition, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, lead_id, from_state, event, to_state, payload, occurred_at
		FROM lead_transitions
		WHERE lead_id = $1
		ORDER BY seq`, id)
	if err != nil {
		return nil, errors.Join(ErrPersistenceFailure, err)
	}
	defer rows.Close()

	var history []Transition
	for rows.Next() {
		var rec Transition
		var fromState, event, toState string
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.LeadID, &fromState, &event, &toState, &payload, &rec.OccurredAt); err != nil {
			return nil, errors.Join(ErrPersistenceFailure, err)
		}
		rec.FromState = statemachine.StringState(fromState)
		rec.Event = statemachine.StringEvent(event)
		rec.ToState = statemachine.StringState(toState)
		if rec.Payload, err = unmarshalPayload(payload); err != nil {
			return nil, errors.Join(ErrPersistenceFailure, err)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrPersistenceFailure, err)
	}

	// Every lead is created together with its first transition, so an empty
	// result means the lead itself is unknown.
	if len(history) == 0 {
		if _, err := s.LeadByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return history, nil
}

func marshalPayload(p statemachine.Payload) ([]byte, error) {
	if p == nil {
		return []byte(`{}`), nil
	}
	return json.Marshal(p)
}

func unmarshalPayload(b []byte) (statemachine.Payload, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var p statemachine.Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return p, nil
}
