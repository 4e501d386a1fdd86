// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"parun/internal/model"
	"parun/internal/scheduler"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSchedulerBoundsConcurrency(t *testing.T) {
	t.Parallel()

	const (
		jobs  = 1
		total = 5
	)

	var (
		live    atomic.Int64
		maxLive atomic.Int64
	)

	s := &scheduler.Scheduler{
		J: jobs,
		Run: func(_ context.Context, req model.SpawnRequest) model.OutputRecord {
			n := live.Add(1)
			for {
				m := maxLive.Load()
				if n <= m || maxLive.CompareAndSwap(m, n) {
					break
				}
			}

			time.Sleep(5 * time.Millisecond)
			live.Add(-1)

			return model.OutputRecord{ID: req.ID, Outcome: model.Outcome{Kind: model.Success}}
		},
	}

	requests := make(chan model.SpawnRequest, total)
	sink := make(chan model.SinkItem, total)

	for i := 1; i <= total; i++ {
		requests <- model.SpawnRequest{ID: model.InvocationID(i)}
	}

	close(requests)

	s.Serve(context.Background(), requests, sink)
	close(sink)

	var got int

	for range sink {
		got++
	}

	require.Equal(t, total, got)
	require.LessOrEqual(t, maxLive.Load(), int64(jobs))
}

func TestSchedulerRunsAllRequestsConcurrentlyWithHigherJ(t *testing.T) {
	t.Parallel()

	const total = 8

	s := &scheduler.Scheduler{
		J: 4,
		Run: func(_ context.Context, req model.SpawnRequest) model.OutputRecord {
			return model.OutputRecord{ID: req.ID, Outcome: model.Outcome{Kind: model.Success}}
		},
	}

	requests := make(chan model.SpawnRequest, total)
	sink := make(chan model.SinkItem, total)

	for i := 1; i <= total; i++ {
		requests <- model.SpawnRequest{ID: model.InvocationID(i)}
	}

	close(requests)

	s.Serve(context.Background(), requests, sink)
	close(sink)

	seen := map[model.InvocationID]bool{}
	for item := range sink {
		seen[item.Output.ID] = true
	}

	require.Len(t, seen, total)
}

func TestSchedulerStopsAcceptingOnCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})

	s := &scheduler.Scheduler{
		J: 1,
		Run: func(ctx context.Context, req model.SpawnRequest) model.OutputRecord {
			close(started)
			<-ctx.Done()

			return model.OutputRecord{ID: req.ID, Outcome: model.Outcome{Kind: model.Timeout}}
		},
	}

	requests := make(chan model.SpawnRequest, 2)
	sink := make(chan model.SinkItem, 2)
	requests <- model.SpawnRequest{ID: 1}

	done := make(chan struct{})

	go func() {
		s.Serve(ctx, requests, sink)
		close(done)
	}()

	<-started
	cancel()
	<-done

	close(sink)

	var got int
	for range sink {
		got++
	}

	require.Equal(t, 1, got)
}
