package queue_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrgarest/firebase-sender/pkg/queue"
)

type testPayload struct {
	Value string `json:"value"`
}

func TestMemoryQueue(t *testing.T) {
	t.Parallel()

	t.Run("delivers payload to handler", func(t *testing.T) {
		t.Parallel()

		got := make(chan testPayload, 1)
		handler := queue.NewTaskHandler("test", func(_ context.Context, p testPayload) error {
			got <- p
			return nil
		})

		q, err := queue.NewMemory(handler)
		require.NoError(t, err)
		t.Cleanup(func() { _ = q.Stop(context.Background()) })

		require.NoError(t, q.Enqueue(context.Background(), testPayload{Value: "hello"}, 0))

		select {
		case p := <-got:
			assert.Equal(t, "hello", p.Value)
		case <-time.After(2 * time.Second):
			t.Fatal("handler was never called")
		}
	})

	t.Run("honors delay", func(t *testing.T) {
		t.Parallel()

		var fired atomic.Bool
		handler := queue.NewTaskHandler("test", func(_ context.Context, _ testPayload) error {
			fired.Store(true)
			return nil
		})

		q, err := queue.NewMemory(handler)
		require.NoError(t, err)
		t.Cleanup(func() { _ = q.Stop(context.Background()) })

		require.NoError(t, q.Enqueue(context.Background(), testPayload{}, 200*time.Millisecond))

		time.Sleep(50 * time.Millisecond)
		assert.False(t, fired.Load(), "fired before its delay elapsed")

		assert.Eventually(t, fired.Load, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("stop cancels pending timers", func(t *testing.T) {
		t.Parallel()

		var fired atomic.Bool
		handler := queue.NewTaskHandler("test", func(_ context.Context, _ testPayload) error {
			fired.Store(true)
			return nil
		})

		q, err := queue.NewMemory(handler)
		require.NoError(t, err)

		require.NoError(t, q.Enqueue(context.Background(), testPayload{}, time.Hour))
		require.NoError(t, q.Stop(context.Background()))

		assert.False(t, fired.Load())
		assert.ErrorIs(t, q.Enqueue(context.Background(), testPayload{}, 0), queue.ErrQueueClosed)
	})

	t.Run("unserializable payload fails synchronously", func(t *testing.T) {
		t.Parallel()

		handler := queue.NewTaskHandler("test", func(_ context.Context, _ testPayload) error {
			return nil
		})
		q, err := queue.NewMemory(handler)
		require.NoError(t, err)
		t.Cleanup(func() { _ = q.Stop(context.Background()) })

		assert.Error(t, q.Enqueue(context.Background(), make(chan int), 0))
		assert.ErrorIs(t, q.Enqueue(context.Background(), nil, 0), queue.ErrNilPayload)
	})

	t.Run("nil handler rejected", func(t *testing.T) {
		t.Parallel()
		_, err := queue.NewMemory(nil)
		assert.ErrorIs(t, err, queue.ErrNilHandler)
	})
}
