// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package model

import "sync/atomic"

// RunStatistics tallies outcomes across the whole run. Every counter is an
// atomic so the sink (the sole writer) and its readers (the --exit-on-error
// watcher during the run, the top-level driver after the sink returns)
// never need a lock.
type RunStatistics struct {
	Spawned      atomic.Int64
	Succeeded    atomic.Int64
	FailedStatus atomic.Int64
	TimedOut     atomic.Int64
	SpawnErrors  atomic.Int64
	IoErrors     atomic.Int64
}

// Record tallies one outcome.
func (s *RunStatistics) Record(o Outcome) {
	s.Spawned.Add(1)

	switch o.Kind {
	case Success:
		s.Succeeded.Add(1)
	case FailedStatus:
		s.FailedStatus.Add(1)
	case Timeout:
		s.TimedOut.Add(1)
	case SpawnError:
		s.SpawnErrors.Add(1)
	case IoError:
		s.IoErrors.Add(1)
	}
}

// HasFailures reports whether any category recorded a nonzero count.
func (s *RunStatistics) HasFailures() bool {
	return s.FailedStatus.Load() > 0 ||
		s.TimedOut.Load() > 0 ||
		s.SpawnErrors.Load() > 0 ||
		s.IoErrors.Load() > 0
}

// Snapshot is a point-in-time, non-atomic copy for logging and the
// end-of-run summary line.
type Snapshot struct {
	Spawned      int64
	Succeeded    int64
	FailedStatus int64
	TimedOut     int64
	SpawnErrors  int64
	IoErrors     int64
}

// Snapshot takes a point-in-time copy of the statistics.
func (s *RunStatistics) Snapshot() Snapshot {
	return Snapshot{
		Spawned:      s.Spawned.Load(),
		Succeeded:    s.Succeeded.Load(),
		FailedStatus: s.FailedStatus.Load(),
		TimedOut:     s.TimedOut.Load(),
		SpawnErrors:  s.SpawnErrors.Load(),
		IoErrors:     s.IoErrors.Load(),
	}
}
