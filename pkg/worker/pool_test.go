package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debuggerone/comako/errors"
	"github.com/debuggerone/comako/metric"
)

func TestPool_ProcessesAllWork(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)
	pool := NewPool(2, 16, func(_ context.Context, n int) error {
		mu.Lock()
		seen[n] = true
		mu.Unlock()
		return nil
	})

	require.NoError(t, pool.Start(context.Background()))
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Submit(i))
	}
	require.NoError(t, pool.Stop(time.Second))

	assert.Len(t, seen, 10)

	stats := pool.Stats()
	assert.Equal(t, int64(10), stats.Submitted)
	assert.Equal(t, int64(10), stats.Processed)
	assert.Equal(t, int64(0), stats.Failed)
}

func TestPool_CountsFailures(t *testing.T) {
	pool := NewPool(1, 8, func(_ context.Context, n int) error {
		if n%2 == 0 {
			return errors.New("even input")
		}
		return nil
	})

	require.NoError(t, pool.Start(context.Background()))
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(i))
	}
	require.NoError(t, pool.Stop(time.Second))

	stats := pool.Stats()
	assert.Equal(t, int64(4), stats.Processed)
	assert.Equal(t, int64(2), stats.Failed)
}

func TestPool_Lifecycle(t *testing.T) {
	pool := NewPool(1, 8, func(context.Context, string) error { return nil })

	assert.ErrorIs(t, pool.Submit("early"), ErrPoolNotStarted)

	require.NoError(t, pool.Start(context.Background()))
	assert.ErrorIs(t, pool.Start(context.Background()), ErrPoolAlreadyStarted)

	require.NoError(t, pool.Stop(time.Second))
	assert.ErrorIs(t, pool.Submit("late"), ErrPoolStopped)

	// Stopping twice is a no-op.
	require.NoError(t, pool.Stop(time.Second))
}

func TestPool_QueueFull(t *testing.T) {
	block := make(chan struct{})
	pool := NewPool(1, 1, func(_ context.Context, _ string) error {
		<-block
		return nil
	})
	require.NoError(t, pool.Start(context.Background()))

	// First item occupies the worker, second fills the queue.
	require.NoError(t, pool.Submit("a"))
	var errFull error
	for i := 0; i < 50; i++ {
		if errFull = pool.Submit("b"); errFull != nil {
			break
		}
	}
	assert.ErrorIs(t, errFull, ErrQueueFull)
	assert.Positive(t, pool.Stats().Dropped)

	close(block)
	require.NoError(t, pool.Stop(time.Second))
}

func TestPool_NilProcessorPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewPool[int](1, 1, nil)
	})
}

func TestPool_DefaultSizes(t *testing.T) {
	pool := NewPool(0, 0, func(context.Context, int) error { return nil })

	stats := pool.Stats()
	assert.Equal(t, 4, stats.Workers)
	assert.Equal(t, 256, stats.QueueSize)
}

func TestPool_StopTimeout(t *testing.T) {
	block := make(chan struct{})
	pool := NewPool(1, 8, func(_ context.Context, _ int) error {
		<-block
		return nil
	})
	require.NoError(t, pool.Start(context.Background()))
	require.NoError(t, pool.Submit(1))

	err := pool.Stop(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrStopTimeout)

	close(block)
}

func TestPool_WithMetricsRegistry(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	pool := NewPool(1, 8,
		func(context.Context, int) error { return nil },
		WithMetricsRegistry[int](registry, "test_pool"),
	)

	require.NoError(t, pool.Start(context.Background()))
	require.NoError(t, pool.Submit(1))
	require.NoError(t, pool.Stop(time.Second))

	assert.Equal(t, int64(1), pool.Stats().Processed)
}
