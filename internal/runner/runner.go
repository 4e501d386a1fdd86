// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner implements the Runner pipeline stage (§4.4): for each
// SpawnRequest it spawns the child, wires up capture or discard of
// stdout/stderr, enforces the per-command timeout (SIGTERM then SIGKILL
// after a grace period), and classifies the outcome. It is grounded on the
// teacher's internal/runbatch OSCommand.Run: os.StartProcess plus os.Pipe,
// a watchdog goroutine for signals/deadline, generalized from one fixed
// command to an arbitrary SpawnRequest with optional discard and timeout.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"syscall"
	"time"

	"parun/internal/ctxlog"
	"parun/internal/model"
	"parun/internal/teereader"
)

// killGrace is how long the runner waits after SIGTERM before escalating
// to SIGKILL (§4.4 point 4).
const killGrace = 5 * time.Second

// maxBufferSize bounds how much of a single stream the runner will buffer,
// mirroring the teacher's OSCommand default (§4.4: "For very large outputs,
// implementations should bound the buffer; the baseline contract is to
// accept arbitrarily large output, paying memory" — this repo takes the
// teacher's pragmatic middle ground of a generous but finite cap rather
// than the unbounded baseline).
const maxBufferSize = 64 * 1024 * 1024

// LastLineFunc receives the most recent complete output line from a
// running child, for the progress bar's subtitle (§9 design notes never
// require this, but it is a natural home for internal/teereader).
type LastLineFunc func(id model.InvocationID, line string)

// Runner spawns children for SpawnRequests.
type Runner struct {
	// OnLastLine, if set, is called every 200ms while a stdout/stderr
	// stream is being read, with that stream's most recent complete line,
	// so the sink's progress bar can show what a running child is doing.
	OnLastLine LastLineFunc
}

// Run spawns req's child and blocks until it terminates (or is killed by
// timeout/cancellation), returning its OutputRecord. It is the RunFunc
// injected into scheduler.Scheduler.
func (r *Runner) Run(ctx context.Context, req model.SpawnRequest) model.OutputRecord {
	logger := ctxlog.Logger(ctx).With("stage", "runner", "id", req.ID, "origin", req.Origin.String())
	logger.Debug("spawning", "argv", req.Argv)

	rOut, wOut, closeOut, err := openStream(req.Discard.DiscardsStdout())
	if err != nil {
		return spawnErrorRecord(req, errors.Join(model.ErrFailedToCreatePipe, err))
	}

	rErr, wErr, closeErr, err := openStream(req.Discard.DiscardsStderr())
	if err != nil {
		closeOut()

		return spawnErrorRecord(req, errors.Join(model.ErrFailedToCreatePipe, err))
	}

	ps, err := os.StartProcess(req.Argv[0], req.Argv, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{os.Stdin, wOut, wErr},
	})

	// The parent's copy of the write ends must close regardless of outcome
	// so that reads on rOut/rErr reach EOF once the child exits.
	wOut.Close() //nolint:errcheck
	wErr.Close() //nolint:errcheck

	if err != nil {
		closeOut()
		closeErr()

		return spawnErrorRecord(req, errors.Join(model.ErrCouldNotStartProcess, err))
	}

	logger.Debug("started", "pid", ps.Pid)

	done := make(chan struct{})

	killedWith := make(chan error, 1)

	go watch(ctx, ps, req.Timeout, done, killedWith)

	stdoutCh := make(chan readResult, 1)
	stderrCh := make(chan readResult, 1)

	go readCapped(rOut, maxBufferSize, func(line string) {
		if r.OnLastLine != nil {
			r.OnLastLine(req.ID, line)
		}
	}, stdoutCh)
	go readCapped(rErr, maxBufferSize, func(line string) {
		if r.OnLastLine != nil {
			r.OnLastLine(req.ID, line)
		}
	}, stderrCh)

	state, waitErr := ps.Wait()
	close(done)

	stdoutRes := <-stdoutCh
	stderrRes := <-stderrCh

	var killErr error
	select {
	case killErr = <-killedWith:
	default:
	}

	outcome := classify(state, waitErr, killErr, stdoutRes.err, stderrRes.err)

	logger.Debug("finished", "exitCode", outcome.Code, "outcome", outcome.Kind.String())

	return model.OutputRecord{
		ID:      req.ID,
		Origin:  req.Origin,
		StdOut:  stdoutRes.data,
		StdErr:  stderrRes.data,
		Outcome: outcome,
	}
}

// watch enforces per-command timeout and whole-run cancellation (§4.4
// point 4, §5 Cancellation). On firing, it sends SIGTERM, waits killGrace
// for the watchdog's own 'done' signal, then escalates to SIGKILL.
func watch(ctx context.Context, ps *os.Process, timeout time.Duration, done <-chan struct{}, killedWith chan<- error) {
	var timeoutCh <-chan time.Time

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		timeoutCh = timer.C
	}

	select {
	case <-done:
		return
	case <-timeoutCh:
		killedWith <- model.ErrTimeoutExceeded
	case <-ctx.Done():
		killedWith <- ctx.Err()
	}

	_ = ps.Signal(syscall.SIGTERM)

	grace := time.NewTimer(killGrace)
	defer grace.Stop()

	select {
	case <-done:
		return
	case <-grace.C:
		_ = ps.Kill()
	}
}

type readResult struct {
	data []byte
	err  error
}

// readCapped drains r into a bounded buffer via teereader.LastLineTeeReader
// so onLine can be called with whatever line most recently completed
// (grounded on the teacher's internal/teereader, used here to feed the
// progress bar rather than a TUI command-tree node).
func readCapped(r io.Reader, max int64, onLine func(string), out chan<- readResult) {
	tee := teereader.NewLastLineTeeReader(r)

	done := make(chan struct{})

	if onLine != nil {
		go func() {
			ticker := time.NewTicker(200 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					if line := tee.GetLastLine(0); line != "" {
						onLine(line)
					}
				case <-done:
					return
				}
			}
		}()
	}

	var buf bytes.Buffer

	n, err := io.CopyN(&buf, tee, max+1)
	close(done)

	if err != nil && !errors.Is(err, io.EOF) {
		out <- readResult{data: buf.Bytes(), err: errors.Join(model.ErrFailedToReadBuffer, err)}
		return
	}

	if n > max {
		out <- readResult{data: buf.Bytes()[:max]}
		return
	}

	out <- readResult{data: buf.Bytes()}
}

// openStream opens a stdout/stderr endpoint: an os.Pipe pair for capture,
// or a /dev/null write end (paired with a closed-at-EOF reader) for
// discard (§4.4 point 2).
func openStream(discard bool) (r *os.File, w *os.File, closeFn func(), err error) {
	if discard {
		null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return nil, nil, nil, err
		}

		emptyR, emptyW, perr := os.Pipe()
		if perr != nil {
			null.Close() //nolint:errcheck
			return nil, nil, nil, perr
		}

		emptyW.Close() //nolint:errcheck

		return emptyR, null, func() { emptyR.Close(); null.Close() }, nil //nolint:errcheck
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, nil, nil, err
	}

	return pr, pw, func() { pr.Close(); pw.Close() }, nil //nolint:errcheck
}

func spawnErrorRecord(req model.SpawnRequest, err error) model.OutputRecord {
	return model.OutputRecord{
		ID:     req.ID,
		Origin: req.Origin,
		Outcome: model.Outcome{
			Kind: model.SpawnError,
			Code: -1,
			Err:  err,
		},
	}
}

// classify turns a finished child's raw results into the closed Outcome
// taxonomy of §3/§7.
func classify(state *os.ProcessState, waitErr, killErr, stdoutErr, stderrErr error) model.Outcome {
	if killErr != nil {
		code := -1
		if state != nil {
			code = state.ExitCode()
		}

		return model.Outcome{Kind: model.Timeout, Code: code, Err: killErr}
	}

	if ioErr := errors.Join(stdoutErr, stderrErr); ioErr != nil {
		code := -1
		if state != nil {
			code = state.ExitCode()
		}

		return model.Outcome{Kind: model.IoError, Code: code, Err: ioErr}
	}

	if waitErr != nil {
		return model.Outcome{Kind: model.IoError, Code: -1, Err: waitErr}
	}

	code := state.ExitCode()
	if code != 0 {
		return model.Outcome{Kind: model.FailedStatus, Code: code}
	}

	return model.Outcome{Kind: model.Success, Code: 0}
}
