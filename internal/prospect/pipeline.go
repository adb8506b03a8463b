package prospect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/leadflowhq/leadflow/internal/lead"
	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// RawLead is an unvalidated lead as it arrives from a source.
type RawLead struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Title     string `json:"title"`
	Industry  string `json:"industry"`
}

// Status classifies the outcome of one ingestion attempt.
type Status string

const (
	StatusCreated   Status = "created"
	StatusRejected  Status = "rejected"
	StatusDuplicate Status = "duplicate"
)

// Result reports what happened to an ingested lead.
type Result struct {
	Status   Status   `json:"status"`
	LeadID   string   `json:"lead_id,omitempty"`
	Score    float64  `json:"score,omitempty"`
	Tier     string   `json:"tier,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

// Pipeline ingests leads: validate, deduplicate, score, then create the
// lead in its start state through the lead service. The pipeline decides
// the initial state; it never moves a lead afterwards.
type Pipeline struct {
	leads    *lead.Service
	sourceID string
	log      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

func WithSourceID(sourceID string) Option {
	return func(p *Pipeline) {
		if sourceID != "" {
			p.sourceID = sourceID
		}
	}
}

func NewPipeline(leads *lead.Service, opts ...Option) *Pipeline {
	p := &Pipeline{
		leads:    leads,
		sourceID: "api",
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest runs one raw lead through the full pipeline. Only structural
// failures return an error; business rejections and duplicates are normal
// results.
func (p *Pipeline) Ingest(ctx context.Context, raw RawLead) (Result, error) {
	email, problems := Sanitize(raw)
	if len(problems) > 0 {
		p.log.InfoContext(ctx, "lead rejected", "problems", problems)
		return Result{Status: StatusRejected, Problems: problems}, nil
	}

	if email != "" {
		existing, err := p.leads.LeadByEmail(ctx, email)
		switch {
		case err == nil:
			p.log.InfoContext(ctx, "duplicate lead", "lead_id", existing.ID, "fingerprint", Fingerprint(email))
			return Result{Status: StatusDuplicate, LeadID: existing.ID.String()}, nil
		case !errors.Is(err, lead.ErrNotFound):
			return Result{}, err
		}
	}

	score, breakdown := Score(raw)

	payload := statemachine.Payload{
		"score":       score,
		"source":      p.sourceID,
		"fingerprint": Fingerprint(email),
	}
	for k, v := range breakdown {
		payload[k] = v
	}

	created, err := p.leads.Create(ctx, lead.Lead{
		Email:     email,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Company:   raw.Company,
		Title:     raw.Title,
		Industry:  raw.Industry,
		Source:    p.sourceID,
	}, payload)
	if err != nil {
		// Unique index on email closes the race between the dedup check and
		// the insert.
		if errors.Is(err, lead.ErrAlreadyExists) {
			return Result{Status: StatusDuplicate}, nil
		}
		return Result{}, err
	}

	tier, _ := breakdown["tier"].(string)
	return Result{
		Status: StatusCreated,
		LeadID: created.ID.String(),
		Score:  score,
		Tier:   tier,
	}, nil
}

// Fingerprint produces a stable dedup hash for a normalized email.
func Fingerprint(email string) string {
	key := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
