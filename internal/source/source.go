// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package source implements the Source pipeline stage (§4.1): it produces
// a stream of InvocationRecords either from the Cartesian product of `:::`
// argument groups, or by reading input streams (stdin/files) line by line.
// Either way it streams records through a bounded channel supplied by the
// caller and never materializes the full input in memory.
package source

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/spf13/afero"

	"parun/internal/ctxlog"
	"parun/internal/model"
)

// Source produces InvocationRecords for one run. Exactly one of argGroups
// or inputs is meaningful, selected by whichever constructor was used.
type Source struct {
	argGroups     [][]string
	inputs        []StreamInput
	nullSeparator bool
	fs            afero.Fs
	stdin         io.Reader
	nextID        atomic.Uint64
}

// NewArgumentMode builds a Source over the Cartesian product of groups
// (§4.1 "Argument mode"). The source name recorded on every record is
// "command_line_args".
func NewArgumentMode(groups [][]string) *Source {
	return &Source{argGroups: groups}
}

// NewStreamMode builds a Source over one or more input streams (§4.1
// "Input-stream mode"). fs resolves any non-"-" input name; stdin supplies
// the bytes for "-".
func NewStreamMode(inputs []StreamInput, nullSeparator bool, fs afero.Fs, stdin io.Reader) *Source {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Source{
		inputs:        inputs,
		nullSeparator: nullSeparator,
		fs:            fs,
		stdin:         stdin,
	}
}

// ArgumentModeOrigin is the origin source name recorded for every record
// produced in argument mode (§4.1).
const ArgumentModeOrigin = "command_line_args"

// Run streams InvocationRecords onto out until the input is exhausted or
// ctx is cancelled, then closes out (§4.1 "When all inputs are exhausted,
// the queue is closed"). It never returns an error itself: per-input
// failures are logged and skip to the next input (§7).
func (s *Source) Run(ctx context.Context, out chan<- model.InvocationRecord) {
	defer close(out)

	if s.argGroups != nil {
		s.runArgumentMode(ctx, out)
		return
	}

	s.runStreamMode(ctx, out)
}

func (s *Source) allocID() model.InvocationID {
	return model.InvocationID(s.nextID.Add(1))
}

func (s *Source) runArgumentMode(ctx context.Context, out chan<- model.InvocationRecord) {
	odometer := newCartesianOdometer(s.argGroups)

	for {
		tuple, ok := odometer.next()
		if !ok {
			return
		}

		rec := model.InvocationRecord{
			ID:        s.allocID(),
			RawFields: tuple,
			Origin:    model.Origin{SourceName: ArgumentModeOrigin},
		}

		select {
		case out <- rec:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Source) runStreamMode(ctx context.Context, out chan<- model.InvocationRecord) {
	inputs := s.inputs
	if len(inputs) == 0 {
		inputs = []StreamInput{{Name: "-"}}
	}

	for _, in := range inputs {
		if ctx.Err() != nil {
			return
		}

		rc, err := openStreamInput(s.fs, s.stdin, in)
		if err != nil {
			ctxlog.Logger(ctx).Warn("could not open input, skipping", "source", in.Name, "error", err)
			continue
		}

		readStream(ctx, rc, in, s.nullSeparator, s.allocID, out)
		rc.Close() //nolint:errcheck
	}
}

// Size returns the total number of tuples the Cartesian product will
// yield, for the sink's progress-bar total in argument mode. It returns
// (0, false) in stream mode, where the total is unknown/streaming (§4.5).
func (s *Source) Size() (int, bool) {
	if s.argGroups == nil {
		return 0, false
	}

	total := 1

	for _, g := range s.argGroups {
		if len(g) == 0 {
			return 0, true
		}

		total *= len(g)
	}

	return total, true
}
