// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sink implements the Sink pipeline stage (§4.5): it writes each
// OutputRecord's stdout/stderr as one atomic, non-interleaved block (or, in
// keep-order mode, reorders by InvocationID first), drives the progress
// bar, and accumulates RunStatistics. Grounded on the teacher's pattern of
// a single task owning the terminal (internal/tui.Runner), narrowed here
// to own stdout/stderr directly instead of an alt-screen TUI.
package sink

import (
	"container/heap"
	"context"
	"io"
	"sync"

	"parun/internal/ctxlog"
	"parun/internal/model"
	"parun/internal/progressbar"
)

// Sink consumes SinkItems until the channel closes, per §5 "Sink drains
// remaining records, then returns" — it never selects on ctx itself; it is
// the last stage to stop, by design.
type Sink struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Stats     *model.RunStatistics
	KeepOrder bool
	Bar       *progressbar.Bar // nil when -p/--progress-bar was not set

	mu sync.Mutex // the sole contended lock on the hot path (§5 Locks)
}

// Run drains items, writing output per §4.5. It returns once items is
// closed.
func (s *Sink) Run(ctx context.Context, items <-chan model.SinkItem) {
	if s.KeepOrder {
		s.runKeepOrder(ctx, items)
		return
	}

	s.runStreaming(ctx, items)
}

func (s *Sink) runStreaming(ctx context.Context, items <-chan model.SinkItem) {
	for item := range items {
		s.emit(ctx, item)
	}
}

// runKeepOrder implements the min-heap reorder buffer of §4.5/§9: items
// arrive in completion order, are pushed onto a heap keyed by
// InvocationID, and are drained in ascending order as soon as the heap's
// minimum equals next_expected. Skip markers still advance next_expected
// without ever being written.
func (s *Sink) runKeepOrder(ctx context.Context, items <-chan model.SinkItem) {
	h := &idHeap{}
	next := model.InvocationID(1)

	for raw := range items {
		heap.Push(h, idItem{id: idOf(raw), item: raw})

		for h.Len() > 0 && (*h)[0].id == next {
			popped := heap.Pop(h).(idItem) //nolint:forcetypeassert
			s.emit(ctx, popped.item)
			next++
		}
	}
}

func idOf(item model.SinkItem) model.InvocationID {
	if item.Output != nil {
		return item.Output.ID
	}

	return item.Skip.ID
}

// emit writes one OutputRecord's blocks (or advances past a SkipMarker),
// updates statistics and the progress bar, and logs per-command failures
// per §7.
func (s *Sink) emit(ctx context.Context, raw model.SinkItem) {
	if raw.Skip != nil {
		if s.Bar != nil {
			s.Bar.Increment(false)
		}

		return
	}

	out := raw.Output
	s.Stats.Record(out.Outcome)

	var resume func()
	if s.Bar != nil {
		resume = s.Bar.Suspend()
	}

	s.write(out)

	if resume != nil {
		resume()
	}

	if s.Bar != nil {
		s.Bar.Increment(out.Outcome.Failed())
	}

	if out.Outcome.Failed() {
		ctxlog.Logger(ctx).Warn("command failed",
			"id", out.ID, "origin", out.Origin.String(),
			"outcome", out.Outcome.Kind.String(), "code", out.Outcome.Code, "error", out.Outcome.Err)
	}
}

// write performs the atomic, non-interleaved stdout-then-stderr block for
// one OutputRecord (§3 Invariants, §9 "Output serialization").
func (s *Sink) write(out *model.OutputRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(out.StdOut) > 0 {
		_, _ = s.Stdout.Write(out.StdOut)
	}

	if len(out.StdErr) > 0 {
		_, _ = s.Stderr.Write(out.StdErr)
	}
}

