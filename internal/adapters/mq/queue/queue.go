// Package queue carries device location callbacks from the transports that
// receive them to the single consumer that applies them.
package queue

import (
	"context"
	"sync"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Update is the payload type flowing through the queue.
type Update = model.Update

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds an update. It fails with ErrFull or ErrClosed instead of
	// blocking.
	Enqueue(ctx context.Context, u Update) error

	// Dequeue returns a channel of updates in arrival order. The channel is
	// closed when the queue is closed and drained, or ctx is done.
	Dequeue(ctx context.Context) <-chan Update

	// Len returns the number of pending updates.
	Len() int

	// Close stops accepting updates. Pending ones can still be dequeued.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	updates  chan Update
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.updates = make(chan Update, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds an update to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, u Update) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrClosed
	}

	select {
	case q.updates <- u:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.updates))
		return nil
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError("context_cancelled")
		return ctx.Err()
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that receives updates as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Update {
	out := make(chan Update)
	go func() {
		defer close(out)
		for u := range q.updates {
			select {
			case out <- u:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.updates))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of pending updates.
func (q *InMemoryQueue) Len() int {
	return len(q.updates)
}

// Capacity returns the maximum number of pending updates.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops the queue. Calling it twice is fine.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.updates)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
