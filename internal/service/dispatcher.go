// Package service provides the business logic of the background job
// coordinator: the rate-limited dispatcher, the scan workflow, the deletion
// scheduler, the download tracker, and the resume-on-startup reconciler.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hmodding/website-jobs/internal/observability/statsd"
)

// RateLimitedDispatcher gates all outbound calls to the external scan
// provider. Tasks are queued in submission order and at most one task is
// started per interval, so the provider's rate limit holds no matter how
// many workflows are in flight.
//
// A started task runs in its own goroutine: a hung provider call occupies
// its logical slot but never delays the release of the next one.
type RateLimitedDispatcher struct {
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink

	mu    sync.Mutex
	queue []func()
}

// DispatcherOptions groups dependencies for RateLimitedDispatcher.
type DispatcherOptions struct {
	Interval time.Duration // Required: minimum spacing between task starts
	Logger   *slog.Logger  // Optional: structured logger
	Metrics  statsd.Sink   // Optional: metrics sink
}

// NewRateLimitedDispatcher constructs a new RateLimitedDispatcher.
func NewRateLimitedDispatcher(opts DispatcherOptions) (*RateLimitedDispatcher, error) {
	if opts.Interval <= 0 {
		return nil, errors.New("dispatch interval must be positive")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "dispatcher")
	}

	return &RateLimitedDispatcher{
		interval: opts.Interval,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// Enqueue appends a task to the FIFO queue. Tasks enqueued before Run
// starts are retained and released once the loop is running. There is no
// cancellation primitive; an abandoned task simply produces a result nobody
// reads.
func (d *RateLimitedDispatcher) Enqueue(task func()) {
	if task == nil {
		return
	}

	d.mu.Lock()
	d.queue = append(d.queue, task)
	depth := len(d.queue)
	d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.Gauge("dispatcher.queue_depth", float64(depth), nil)
	}
}

// Run releases one queued task per interval until the context is
// cancelled. Returns nil on graceful shutdown (context.Canceled), the
// context error otherwise.
func (d *RateLimitedDispatcher) Run(ctx context.Context) error {
	if d.logger != nil {
		d.logger.InfoContext(ctx, "starting dispatcher", "interval", d.interval)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if d.logger != nil {
				d.logger.InfoContext(ctx, "dispatcher stopping", "reason", ctx.Err(), "queued", d.QueueDepth())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			d.releaseNext()
		}
	}
}

// QueueDepth returns the number of tasks waiting for a slot.
func (d *RateLimitedDispatcher) QueueDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// releaseNext pops the head of the queue and starts it. The task runs in
// its own goroutine so the next tick fires on schedule even if this task
// stalls; starts remain strictly one per interval in FIFO order.
func (d *RateLimitedDispatcher) releaseNext() {
	d.mu.Lock()
	if len(d.queue) == 0 {
		d.mu.Unlock()
		return
	}
	task := d.queue[0]
	d.queue = d.queue[1:]
	d.mu.Unlock()

	go d.runTask(task)
}

func (d *RateLimitedDispatcher) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			if d.logger != nil {
				d.logger.Error("dispatched task panicked", "panic", r)
			}
			if d.metrics != nil {
				d.metrics.Count("dispatcher.task_panic", 1, nil)
			}
		}
	}()

	task()
}
