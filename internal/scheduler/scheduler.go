// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scheduler implements the Scheduler pipeline stage (§4.3): it
// bounds the number of concurrently live child processes to J via a
// counting semaphore, dispatching one runner task per SpawnRequest and
// blocking on the semaphore before pulling the next request so that
// backpressure propagates all the way back to the builder and source
// (§5 "Parallelism cap").
package scheduler

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"parun/internal/ctxlog"
	"parun/internal/model"
)

// RunFunc executes one SpawnRequest and produces its OutputRecord. It is
// the runner stage's entry point, injected so the scheduler stays ignorant
// of process-spawning details.
type RunFunc func(ctx context.Context, req model.SpawnRequest) model.OutputRecord

// Scheduler gates SpawnRequests through a semaphore of capacity J.
type Scheduler struct {
	J   int64
	Run RunFunc
}

// Serve consumes requests until the channel is closed or ctx is cancelled,
// running each one (gated by the semaphore) and emitting its OutputRecord
// onto sink. It blocks until every in-flight runner has returned before
// itself returning, so callers can rely on "no live children" the instant
// Serve returns (§5 Invariant 1, §8 Testable property 1).
func (s *Scheduler) Serve(ctx context.Context, requests <-chan model.SpawnRequest, sink chan<- model.SinkItem) {
	j := s.J
	if j < 1 {
		j = 1
	}

	sem := semaphore.NewWeighted(j)

	var wg sync.WaitGroup

	for {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled while waiting for a permit: stop
			// accepting new requests, let in-flight runners finish.
			ctxlog.Logger(ctx).Debug("scheduler: semaphore acquire cancelled", "error", err)
			wg.Wait()

			return
		}

		select {
		case req, ok := <-requests:
			if !ok {
				sem.Release(1)
				wg.Wait()

				return
			}

			wg.Add(1)

			go func(req model.SpawnRequest) {
				defer wg.Done()
				defer sem.Release(1)

				out := s.Run(ctx, req)

				// Once a child has actually run, its OutputRecord must
				// reach the sink regardless of cancellation (§5 "no
				// record is lost"); the sink keeps draining until every
				// upstream producer, including this one, has exited.
				sink <- model.SinkItem{Output: &out}
			}(req)

		case <-ctx.Done():
			sem.Release(1)
			wg.Wait()

			return
		}
	}
}
