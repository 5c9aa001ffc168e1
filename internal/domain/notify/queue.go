package notify

import (
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrQueueClosed = errors.New("notify queue closed")
	ErrQueueFull   = errors.New("notify queue full")
)

// Handler processes one queued item.
type Handler[T any] func(item T) error

// Queue is a bounded background work queue. Submit never blocks: when the
// buffer is full the item is dropped, which is the contract of every
// fire-and-forget channel in this system. Handler errors are logged and the
// item discarded; there is no retry.
type Queue[T any] struct {
	items   chan T
	handler Handler[T]
	logger  *slog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewQueue[T any](workers, buffer int, handler Handler[T], logger *slog.Logger) *Queue[T] {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 64
	}
	q := &Queue[T]{
		items:   make(chan T, buffer),
		handler: handler,
		logger:  logger,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.run()
	}
	return q
}

func (q *Queue[T]) run() {
	defer q.wg.Done()
	for item := range q.items {
		if err := q.handler(item); err != nil {
			q.logger.Warn("notify handler failed", "error", err)
		}
	}
}

// Submit enqueues one item without blocking.
func (q *Queue[T]) Submit(item T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped {
		return ErrQueueClosed
	}
	select {
	case q.items <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight items to drain.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.items)
	q.mu.Unlock()

	q.wg.Wait()
}
