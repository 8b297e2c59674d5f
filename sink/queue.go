// Package sink delivers cycle results from any number of probe drivers to the consumers
// that log, record and display them.
package sink

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nathanhack/memprobe/probe"
)

var (
	// ErrQueueFull is returned when a result could not be queued in time and was dropped.
	ErrQueueFull = errors.New("result queue full")
	// ErrQueueClosed is returned when enqueueing after Close.
	ErrQueueClosed = errors.New("result queue closed")
)

// DefaultCapacity is the number of results a Queue buffers when no capacity is given.
const DefaultCapacity = 1024

// Queue is a bounded multiple producer result queue. Enqueue never blocks longer
// than Timeout; results that do not fit are dropped and counted.
type Queue struct {
	// Timeout bounds how long Enqueue waits for room, zero means do not wait.
	Timeout time.Duration

	results  chan probe.Result
	closeMux sync.RWMutex
	closed   bool
	dropped  atomic.Uint64
	enqueued atomic.Uint64
}

// NewQueue creates a Queue holding up to capacity results, DefaultCapacity if capacity <= 0.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		results: make(chan probe.Result, capacity),
	}
}

// Enqueue adds result to the queue. It is safe for concurrent use.
func (q *Queue) Enqueue(result probe.Result) error {
	q.closeMux.RLock()
	defer q.closeMux.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.results <- result:
		q.enqueued.Add(1)
		return nil
	default:
	}

	if q.Timeout > 0 {
		timer := time.NewTimer(q.Timeout)
		defer timer.Stop()
		select {
		case q.results <- result:
			q.enqueued.Add(1)
			return nil
		case <-timer.C:
		}
	}

	q.dropped.Add(1)
	return ErrQueueFull
}

// Close stops accepting results. Results already queued are still delivered by Drain.
func (q *Queue) Close() {
	q.closeMux.Lock()
	defer q.closeMux.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.results)
}

// Dropped is the number of results that did not fit in the queue.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Enqueued is the number of results accepted by the queue.
func (q *Queue) Enqueued() uint64 {
	return q.enqueued.Load()
}

// Handler consumes results drained from a Queue.
type Handler interface {
	Handle(result probe.Result) error
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(result probe.Result) error

func (f HandlerFunc) Handle(result probe.Result) error {
	return f(result)
}

// Drain hands every queued result to each handler in order until the queue is closed
// and empty, or ctx is done. A failing handler does not stop delivery to the others;
// the first error seen is returned once draining ends.
func (q *Queue) Drain(ctx context.Context, handlers ...Handler) error {
	var first error
	for {
		select {
		case <-ctx.Done():
			if first != nil {
				return first
			}
			return ctx.Err()
		case result, ok := <-q.results:
			if !ok {
				return first
			}
			for _, h := range handlers {
				if err := h.Handle(result); err != nil && first == nil {
					first = err
				}
			}
		}
	}
}
