package outreach_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadflowhq/leadflow/internal/lead"
	"github.com/leadflowhq/leadflow/internal/outreach"
	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// failingQueue simulates a queue backend that is down: every call fails
// immediately instead of after the blocking wait.
type failingQueue struct {
	mu    sync.Mutex
	calls int
}

func (q *failingQueue) Enqueue(context.Context, uuid.UUID) error {
	return outreach.ErrQueueUnavailable
}

func (q *failingQueue) Dequeue(context.Context, time.Duration) (uuid.UUID, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	return uuid.Nil, false, outreach.ErrQueueUnavailable
}

func (q *failingQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

func queueLead(t *testing.T, svc *lead.Service) lead.Lead {
	t.Helper()
	ctx := context.Background()

	l, err := svc.Create(ctx, lead.Lead{Email: "q@corp.com", Source: "test"}, nil)
	require.NoError(t, err)
	for _, event := range []statemachine.StringEvent{
		lead.EventValidationPassed,
		lead.EventScoreComputed,
		lead.EventQueuedForOutreach,
	} {
		_, err = svc.ApplyEvent(ctx, l.ID, event, nil)
		require.NoError(t, err)
	}
	return l
}

func TestMemoryQueue(t *testing.T) {
	t.Parallel()

	t.Run("fifo order", func(t *testing.T) {
		t.Parallel()
		q := outreach.NewMemoryQueue(8)
		ctx := context.Background()

		first, second := uuid.New(), uuid.New()
		require.NoError(t, q.Enqueue(ctx, first))
		require.NoError(t, q.Enqueue(ctx, second))

		got, ok, err := q.Dequeue(ctx, time.Second)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first, got)

		got, ok, err = q.Dequeue(ctx, time.Second)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, second, got)
	})

	t.Run("empty queue times out", func(t *testing.T) {
		t.Parallel()
		q := outreach.NewMemoryQueue(1)
		_, ok, err := q.Dequeue(context.Background(), 10*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDispatcherHook(t *testing.T) {
	t.Parallel()

	q := outreach.NewMemoryQueue(8)

	// The hook only touches the queue, so the dispatcher's service reference
	// can be wired afterwards.
	d := outreach.NewDispatcher(q, nil, outreach.Config{})
	svc := lead.NewService(lead.NewMemoryStorage(), lead.WithTransitionHook(d.Hook()))

	l, err := svc.Create(context.Background(), lead.Lead{Email: "h@corp.com"}, nil)
	require.NoError(t, err)

	// Creation and validation transitions must not enqueue anything.
	_, err = svc.ApplyEvent(context.Background(), l.ID, lead.EventValidationPassed, nil)
	require.NoError(t, err)
	_, err = svc.ApplyEvent(context.Background(), l.ID, lead.EventScoreComputed, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Len())

	// Reaching QUEUED does.
	_, err = svc.ApplyEvent(context.Background(), l.ID, lead.EventQueuedForOutreach, nil)
	require.NoError(t, err)
	require.Equal(t, 1, q.Len())

	got, ok, err := q.Dequeue(context.Background(), time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, l.ID, got)
}

func TestDispatcherRun(t *testing.T) {
	t.Parallel()

	t.Run("records the first touch", func(t *testing.T) {
		t.Parallel()
		q := outreach.NewMemoryQueue(8)
		svc := lead.NewService(lead.NewMemoryStorage())
		d := outreach.NewDispatcher(q, svc, outreach.Config{DequeueWait: 20 * time.Millisecond})

		l := queueLead(t, svc)
		require.NoError(t, q.Enqueue(context.Background(), l.ID))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = d.Run(ctx) }()

		require.Eventually(t, func() bool {
			current, err := svc.Lead(context.Background(), l.ID)
			return err == nil && current.State == lead.StateContacted
		}, 2*time.Second, 10*time.Millisecond)

		history, err := svc.History(context.Background(), l.ID)
		require.NoError(t, err)
		last := history[len(history)-1]
		assert.Equal(t, lead.EventMessageSent, last.Event)
		assert.Equal(t, "email", last.Payload["channel"])
	})

	t.Run("stale entries are skipped without corrupting state", func(t *testing.T) {
		t.Parallel()
		q := outreach.NewMemoryQueue(8)
		svc := lead.NewService(lead.NewMemoryStorage())
		d := outreach.NewDispatcher(q, svc, outreach.Config{DequeueWait: 20 * time.Millisecond})

		l := queueLead(t, svc)

		// The lead moves past QUEUED before the dispatcher sees the entry.
		_, err := svc.ApplyEvent(context.Background(), l.ID, lead.EventMessageSent, nil)
		require.NoError(t, err)
		require.NoError(t, q.Enqueue(context.Background(), l.ID))

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		_ = d.Run(ctx)

		current, err := svc.Lead(context.Background(), l.ID)
		require.NoError(t, err)
		assert.Equal(t, lead.StateContacted, current.State)
		assert.NoError(t, svc.VerifyHistory(context.Background(), l.ID))
	})

	t.Run("failing queue backend is retried with a pause", func(t *testing.T) {
		t.Parallel()
		q := &failingQueue{}
		svc := lead.NewService(lead.NewMemoryStorage())
		d := outreach.NewDispatcher(q, svc, outreach.Config{DequeueWait: 50 * time.Millisecond})

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
		defer cancel()
		_ = d.Run(ctx)

		// A broken backend fails instantly; without a pause the loop would
		// get through thousands of attempts in this window.
		assert.LessOrEqual(t, q.count(), 5)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()
		q := outreach.NewMemoryQueue(1)
		svc := lead.NewService(lead.NewMemoryStorage())
		d := outreach.NewDispatcher(q, svc, outreach.Config{DequeueWait: 10 * time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- d.Run(ctx) }()
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("dispatcher did not stop")
		}
	})
}
