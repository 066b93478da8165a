package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimitedDispatcher(t *testing.T) {
	t.Run("requires a positive interval", func(t *testing.T) {
		_, err := NewRateLimitedDispatcher(DispatcherOptions{})
		require.Error(t, err)
	})

	t.Run("creates dispatcher with valid options", func(t *testing.T) {
		d, err := NewRateLimitedDispatcher(DispatcherOptions{Interval: time.Second})
		require.NoError(t, err)
		assert.NotNil(t, d)
	})
}

func TestDispatcherPreservesFIFOOrder(t *testing.T) {
	d, err := NewRateLimitedDispatcher(DispatcherOptions{Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		order []int
	)
	done := make(chan struct{})

	for i := 1; i <= 5; i++ {
		i := i
		d.Enqueue(func() {
			mu.Lock()
			order = append(order, i)
			finished := len(order) == 5
			mu.Unlock()
			if finished {
				close(done)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not drain in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestDispatcherStartsAtMostOneTaskPerInterval(t *testing.T) {
	interval := 50 * time.Millisecond
	d, err := NewRateLimitedDispatcher(DispatcherOptions{Interval: interval})
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		starts []time.Time
	)
	done := make(chan struct{})

	for i := 0; i < 3; i++ {
		d.Enqueue(func() {
			mu.Lock()
			starts = append(starts, time.Now())
			finished := len(starts) == 3
			mu.Unlock()
			if finished {
				close(done)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("tasks did not drain in time")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, starts, 3)
	for i := 1; i < len(starts); i++ {
		gap := starts[i].Sub(starts[i-1])
		// Allow generous scheduling slack but reject same-tick releases.
		assert.GreaterOrEqual(t, gap, interval/2, "tasks %d and %d started %v apart", i-1, i, gap)
	}
}

func TestDispatcherSurvivesPanickingTask(t *testing.T) {
	d, err := NewRateLimitedDispatcher(DispatcherOptions{Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	done := make(chan struct{})
	d.Enqueue(func() { panic("boom") })
	d.Enqueue(func() { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task after panic never ran")
	}
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	d, err := NewRateLimitedDispatcher(DispatcherOptions{Interval: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	cancel()

	select {
	case runErr := <-errCh:
		assert.NoError(t, runErr, "graceful shutdown should not be an error")
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDispatcherIgnoresNilTasks(t *testing.T) {
	d, err := NewRateLimitedDispatcher(DispatcherOptions{Interval: time.Second})
	require.NoError(t, err)

	d.Enqueue(nil)

	assert.Equal(t, 0, d.QueueDepth())
}
