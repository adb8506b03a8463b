package outreach

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrQueueUnavailable indicates the queue backend could not serve the call.
var ErrQueueUnavailable = errors.New("outreach queue unavailable")

// Queue hands lead IDs from the moment they become ready for outreach to
// the dispatcher that contacts them.
type Queue interface {
	// Enqueue appends a lead ID to the tail of the queue.
	Enqueue(ctx context.Context, leadID uuid.UUID) error

	// Dequeue pops the head of the queue, waiting up to wait for an entry.
	// The second return value is false when the wait expired empty.
	Dequeue(ctx context.Context, wait time.Duration) (uuid.UUID, bool, error)
}

// DefaultQueueKey is the Redis list the dispatcher consumes by default.
const DefaultQueueKey = "outreach:pending"

// RedisQueue implements Queue on a Redis list. RPUSH/BLPOP keeps FIFO order
// and lets multiple dispatcher replicas share one queue, each entry going to
// exactly one of them.
type RedisQueue struct {
	client redis.UniversalClient
	key    string
}

func NewRedisQueue(client redis.UniversalClient, key string) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, leadID uuid.UUID) error {
	if err := q.client.RPush(ctx, q.key, leadID.String()).Err(); err != nil {
		return errors.Join(ErrQueueUnavailable, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, wait time.Duration) (uuid.UUID, bool, error) {
	vals, err := q.client.BLPop(ctx, wait, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, errors.Join(ErrQueueUnavailable, err)
	}

	// BLPOP returns [key, value].
	id, err := uuid.Parse(vals[1])
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// MemoryQueue is an in-process Queue for tests and single-node setups.
type MemoryQueue struct {
	ch chan uuid.UUID
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryQueue{ch: make(chan uuid.UUID, capacity)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, leadID uuid.UUID) error {
	select {
	case q.ch <- leadID:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrQueueUnavailable, ctx.Err())
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, wait time.Duration) (uuid.UUID, bool, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case id := <-q.ch:
		return id, true, nil
	case <-timer.C:
		return uuid.Nil, false, nil
	case <-ctx.Done():
		return uuid.Nil, false, ctx.Err()
	}
}

// Len reports the number of queued entries. Test helper.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}
