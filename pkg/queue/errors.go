package queue

import "errors"

var (
	// ErrNilHandler is returned when a queue is created without a handler.
	ErrNilHandler = errors.New("queue: nil handler")

	// ErrNilPayload is returned when Enqueue is called with a nil payload.
	ErrNilPayload = errors.New("queue: nil payload")

	// ErrQueueClosed is returned when Enqueue is called after Stop.
	ErrQueueClosed = errors.New("queue: queue is closed")
)
