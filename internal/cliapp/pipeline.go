// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package cliapp

import (
	"context"
	"io"
	"sync"
	"time"

	"parun/internal/builder"
	"parun/internal/model"
	"parun/internal/pathcache"
	"parun/internal/progressbar"
	"parun/internal/runner"
	"parun/internal/scheduler"
	"parun/internal/sink"
	"parun/internal/source"
)

// Run wires Source, Builder, Scheduler, Runner and Sink into one pipeline
// per cfg, runs it to completion (or until ctx is cancelled and every
// in-flight child has wound down), and returns the run's final statistics
// (§4.7 Top-level driver).
func Run(ctx context.Context, cfg Config, stdin io.Reader, stdout, stderr io.Writer) model.Snapshot {
	src := buildSource(cfg, stdin)

	records := make(chan model.InvocationRecord, cfg.ChannelCapacity)
	requests := make(chan model.SpawnRequest, cfg.ChannelCapacity)
	sinkItems := make(chan model.SinkItem, cfg.ChannelCapacity)

	var resolver pathcache.Resolver
	if cfg.DisablePathCache {
		resolver = pathcache.Disabled{}
	} else {
		resolver = pathcache.New()
	}

	b := &builder.Builder{
		Template:  cfg.Template,
		Shell:     cfg.Shell,
		ShellPath: cfg.ShellPath,
		Timeout:   cfg.Timeout,
		Discard:   cfg.Discard,
		DryRun:    cfg.DryRun,
		Resolver:  resolver,
	}

	var bar *progressbar.Bar

	if cfg.ProgressBar {
		total, known := src.Size()
		if !known {
			total = 0
		}

		bar = progressbar.New(cfg.ProgressStyle, total, stderr)
	}

	r := &runner.Runner{}
	if bar != nil {
		r.OnLastLine = func(_ model.InvocationID, line string) {
			bar.UpdateLastLine(line)
		}
	}

	sched := &scheduler.Scheduler{J: cfg.Jobs, Run: r.Run}

	stats := &model.RunStatistics{}
	sk := &sink.Sink{Stdout: stdout, Stderr: stderr, Stats: stats, KeepOrder: cfg.KeepOrder, Bar: bar}

	if cfg.ExitOnError {
		ctx = watchFirstFailure(ctx, stats)
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		src.Run(ctx, records)
	}()

	wg.Add(1)

	go func() {
		defer wg.Done()
		b.Run(ctx, records, requests, sinkItems)
		close(requests)
	}()

	wg.Add(1)

	go func() {
		defer wg.Done()
		sched.Serve(ctx, requests, sinkItems)
	}()

	go func() {
		wg.Wait()
		close(sinkItems)
	}()

	sk.Run(ctx, sinkItems)

	if bar != nil {
		bar.Stop()
	}

	return stats.Snapshot()
}

func buildSource(cfg Config, stdin io.Reader) *source.Source {
	if !cfg.StreamMode {
		return source.NewArgumentMode(cfg.Groups)
	}

	inputs := make([]source.StreamInput, 0, len(cfg.InputFiles))
	for _, name := range cfg.InputFiles {
		inputs = append(inputs, source.StreamInput{Name: name})
	}

	return source.NewStreamMode(inputs, cfg.NullSeparator, nil, stdin)
}

// failurePollInterval bounds how quickly --exit-on-error reacts to the
// first failure; fast enough to feel immediate, coarse enough to avoid
// contending RunStatistics' atomics on every tick.
const failurePollInterval = 50 * time.Millisecond

// watchFirstFailure returns a derived context that is cancelled within one
// failurePollInterval of stats first recording a failure, implementing --exit-on-error
// (§5 Cancellation: "tripped by ... --exit-on-error upon the first
// failure"). It polls rather than hooking RunStatistics.Record directly,
// keeping RunStatistics free of pipeline-control responsibilities.
func watchFirstFailure(ctx context.Context, stats *model.RunStatistics) context.Context {
	derived, cancel := context.WithCancel(ctx)

	go func() {
		defer cancel()

		ticker := time.NewTicker(failurePollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-derived.Done():
				return
			case <-ticker.C:
				if stats.HasFailures() {
					return
				}
			}
		}
	}()

	return derived
}
