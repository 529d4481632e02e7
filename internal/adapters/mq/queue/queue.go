// Package queue defines the contract for enqueuing and consuming save
// requests.
//
// Auto-save is fire-and-forget: the engine enqueues and returns without
// blocking user input. A full queue drops the request; the next periodic
// save pass will persist the same state again.
package queue

import (
	"context"
	"sync"

	"github.com/revgate/revgate/internal/adapters/repository"
	"github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10_000
)

// SaveRequest is the payload flowing through the queue. Exactly one of
// Profile/Progress is meaningful per request.
type SaveRequest struct {
	Profile  *ledger.Profile
	Progress *repository.SavedProgress
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a save request to the queue.
	// Returns false if the queue is full and the request was not enqueued.
	Enqueue(ctx context.Context, r SaveRequest) bool

	// Dequeue returns a channel that receives requests as they arrive.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan SaveRequest

	// Len returns the current number of queued requests.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	requests chan SaveRequest
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.requests = make(chan SaveRequest, q.capacity)

	metrics.UpdateSaveQueueCapacity(q.capacity)
	metrics.UpdateSaveQueueSize(0)

	return q
}

// Enqueue adds a save request without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r SaveRequest) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.requests <- r:
		metrics.UpdateSaveQueueSize(len(q.requests))
		return true
	case <-ctx.Done():
		return false
	default:
		return false // queue is full
	}
}

// Dequeue returns a channel that receives requests as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan SaveRequest {
	out := make(chan SaveRequest)
	go func() {
		defer close(out)
		for r := range q.requests {
			select {
			case out <- r:
				metrics.UpdateSaveQueueSize(len(q.requests))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued requests.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.requests)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.requests)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
