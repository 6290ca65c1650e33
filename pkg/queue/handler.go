package queue

import (
	"context"
	"encoding/json"
)

// Handler processes one dequeued payload.
type Handler interface {
	Name() string
	Handle(ctx context.Context, payload json.RawMessage) error
}

// NewTaskHandler adapts a typed function into a Handler, unmarshaling the
// raw payload into T before each call.
func NewTaskHandler[T any](name string, fn func(ctx context.Context, payload T) error) Handler {
	return &taskHandler[T]{name: name, fn: fn}
}

type taskHandler[T any] struct {
	name string
	fn   func(ctx context.Context, payload T) error
}

func (h *taskHandler[T]) Name() string {
	return h.name
}

func (h *taskHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return err
	}
	return h.fn(ctx, t)
}
