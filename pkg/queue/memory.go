package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultJobTimeout bounds a single handler invocation.
const DefaultJobTimeout = 600 * time.Second

// Enqueuer schedules a payload for execution after a delay. A zero delay
// means "as soon as possible".
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any, delay time.Duration) error
}

// MemoryOption configures a Memory queue.
type MemoryOption func(*Memory)

// WithJobTimeout bounds each handler run.
func WithJobTimeout(timeout time.Duration) MemoryOption {
	return func(q *Memory) {
		if timeout > 0 {
			q.jobTimeout = timeout
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) MemoryOption {
	return func(q *Memory) {
		if log != nil {
			q.log = log
		}
	}
}

// Memory is an in-process Enqueuer backed by timers. Delayed payloads do
// not survive a process restart; it suits tests and single-node setups.
type Memory struct {
	handler    Handler
	jobTimeout time.Duration
	log        *slog.Logger

	mu     sync.Mutex
	timers map[int64]*time.Timer
	nextID int64
	closed bool
	wg     sync.WaitGroup
}

// NewMemory creates a queue that feeds every payload to handler.
func NewMemory(handler Handler, opts ...MemoryOption) (*Memory, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	q := &Memory{
		handler:    handler,
		jobTimeout: DefaultJobTimeout,
		log:        slog.Default(),
		timers:     make(map[int64]*time.Timer),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Enqueue serializes the payload and arms a timer for it. Serialization
// errors surface here, not in the worker.
func (q *Memory) Enqueue(_ context.Context, payload any, delay time.Duration) error {
	if payload == nil {
		return ErrNilPayload
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue: marshal payload of type %T: %w", payload, err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}

	id := q.nextID
	q.nextID++
	q.wg.Add(1)
	q.timers[id] = time.AfterFunc(delay, func() {
		defer q.wg.Done()

		q.mu.Lock()
		delete(q.timers, id)
		q.mu.Unlock()

		q.run(raw)
	})
	return nil
}

func (q *Memory) run(raw json.RawMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), q.jobTimeout)
	defer cancel()

	if err := q.handler.Handle(ctx, raw); err != nil {
		q.log.ErrorContext(ctx, "queued job failed",
			slog.String("handler", q.handler.Name()),
			slog.String("error", err.Error()))
	}
}

// Stop cancels timers that have not fired and waits for running handlers,
// or until ctx expires. The queue rejects new payloads afterwards.
func (q *Memory) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for id, timer := range q.timers {
		if timer.Stop() {
			q.wg.Done()
		}
		delete(q.timers, id)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
