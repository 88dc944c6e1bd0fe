// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outbox records intended remote writes and attempts them in the
// background with exponential backoff. It makes the engine's "local
// durable now, remote eventually" contract explicit: callers enqueue a
// mirror write and return immediately; a write that exhausts its retries
// is reported as a warning and dropped, never surfaced to the caller.
package outbox

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/engagewise/engagewise/internal/httputil"
	"github.com/engagewise/engagewise/pkg/types"
)

const defaultMaxRetries = 3

// Op is one recorded remote write.
type Op struct {
	// ID identifies the op in warnings.
	ID string

	// Name describes the write (e.g. "mirror project project_…").
	Name string

	// Do performs the write. It is retried on error.
	Do func(ctx context.Context) error
}

// Outbox drains recorded ops in order on a single background worker.
type Outbox struct {
	mu     sync.Mutex
	closed bool

	queue      chan Op
	pending    sync.WaitGroup
	maxRetries int
	w          io.Writer

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts an outbox worker. Warnings for dropped writes go to w.
func New(cfg types.OutboxConfig, w io.Writer) *Outbox {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Outbox{
		queue:      make(chan Op, 64),
		maxRetries: maxRetries,
		w:          w,
		ctx:        ctx,
		cancel:     cancel,
	}
	go o.run()
	return o
}

// Enqueue records a write and returns its op id without waiting for the
// attempt. After Close the write is refused with a warning.
func (o *Outbox) Enqueue(name string, do func(ctx context.Context) error) string {
	op := Op{ID: uuid.NewString(), Name: name, Do: do}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		fmt.Fprintf(o.w, "warning: outbox closed, dropping write %s (%s)\n", op.ID, name)
		return op.ID
	}
	o.pending.Add(1)
	o.mu.Unlock()

	o.queue <- op
	return op.ID
}

func (o *Outbox) run() {
	for op := range o.queue {
		o.attempt(op)
		o.pending.Done()
	}
}

func (o *Outbox) attempt(op Op) {
	var err error
	for try := 0; try <= o.maxRetries; try++ {
		if try > 0 {
			select {
			case <-o.ctx.Done():
				fmt.Fprintf(o.w, "warning: outbox shutting down, dropping write %s (%s)\n", op.ID, op.Name)
				return
			case <-time.After(httputil.Backoff(try - 1)):
			}
		}
		if err = op.Do(o.ctx); err == nil {
			return
		}
	}
	fmt.Fprintf(o.w, "warning: remote write %s (%s) failed after %d attempts: %v\n",
		op.ID, op.Name, o.maxRetries+1, err)
}

// Flush blocks until every recorded write has been attempted, or ctx ends.
func (o *Outbox) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting writes, lets queued ops finish their current
// attempt, and releases the worker.
func (o *Outbox) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	o.pending.Wait()
	o.cancel()
	close(o.queue)
}
