package outreach

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leadflowhq/leadflow/internal/lead"
	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// Config holds environment-driven dispatcher settings.
type Config struct {
	QueueKey    string        `env:"OUTREACH_QUEUE_KEY" envDefault:"outreach:pending"` // QueueKey is the Redis list holding pending lead IDs.
	DequeueWait time.Duration `env:"OUTREACH_DEQUEUE_WAIT" envDefault:"5s"`            // DequeueWait bounds each blocking pop.
	Channel     string        `env:"OUTREACH_CHANNEL" envDefault:"email"`              // Channel is recorded in the MESSAGE_SENT payload.
}

// Dispatcher consumes queued leads and records the first outreach touch.
// It never mutates lead state directly: every move goes through the lead
// service, so the transition chart and the row-locking discipline hold.
type Dispatcher struct {
	queue Queue
	leads *lead.Service
	cfg   Config
	log   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDispatcher(queue Queue, leads *lead.Service, cfg Config, opts ...Option) *Dispatcher {
	if cfg.DequeueWait <= 0 {
		cfg.DequeueWait = 5 * time.Second
	}
	if cfg.Channel == "" {
		cfg.Channel = "email"
	}
	d := &Dispatcher{
		queue: queue,
		leads: leads,
		cfg:   cfg,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// EnqueueHook returns a transition hook that feeds the queue whenever a
// lead reaches QUEUED. It runs post-commit, so a lead is only ever enqueued
// for a state it actually holds.
func EnqueueHook(queue Queue, log *slog.Logger) lead.TransitionHook {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(ctx context.Context, rec lead.Transition) {
		if rec.ToState != lead.StateQueued {
			return
		}
		if err := queue.Enqueue(ctx, rec.LeadID); err != nil {
			log.ErrorContext(ctx, "failed to enqueue lead for outreach",
				"lead_id", rec.LeadID, "error", err)
		}
	}
}

// Hook exposes the dispatcher's own enqueue hook.
func (d *Dispatcher) Hook() lead.TransitionHook {
	return EnqueueHook(d.queue, d.log)
}

// Run consumes the queue until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		id, ok, err := d.queue.Dequeue(ctx, d.cfg.DequeueWait)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			d.log.ErrorContext(ctx, "outreach dequeue failed", "error", err)
			// A broken backend fails immediately rather than after the
			// blocking wait; pause so the loop does not spin hot.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.backoff()):
			}
			continue
		}
		if !ok {
			continue
		}

		d.dispatch(ctx, id)
	}
}

func (d *Dispatcher) backoff() time.Duration {
	if d.cfg.DequeueWait > 0 {
		return d.cfg.DequeueWait
	}
	return time.Second
}

func (d *Dispatcher) dispatch(ctx context.Context, id uuid.UUID) {
	payload := statemachine.Payload{"channel": d.cfg.Channel, "touch": 1}

	newState, err := d.leads.ApplyEvent(ctx, id, lead.EventMessageSent, payload)
	switch {
	case err == nil:
		d.log.InfoContext(ctx, "outreach message recorded", "lead_id", id, "state", newState.Name())
	case statemachine.IsIllegalTransitionError(err), statemachine.IsTerminalStateError(err):
		// The lead moved on (or opted out) between enqueue and dispatch;
		// the queue entry is stale, not an error.
		d.log.InfoContext(ctx, "skipping stale outreach entry", "lead_id", id, "reason", err)
	case errors.Is(err, lead.ErrNotFound):
		d.log.WarnContext(ctx, "queued lead no longer exists", "lead_id", id)
	default:
		d.log.ErrorContext(ctx, "outreach dispatch failed", "lead_id", id, "error", err)
	}
}
