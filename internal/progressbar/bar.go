// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package progressbar

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Bar drives a single bubbletea.Program rendering the flat progress bar
// inline (no alt screen, no stdin). It is grounded on the teacher's
// internal/tui.Runner/TUIReporter pairing, narrowed to one bar and one
// event type instead of a ProgressEvent union over a command tree.
type Bar struct {
	program *tea.Program
	exited  chan struct{}
}

// New starts a bar for a run of total invocations (<=0 for "unknown total",
// e.g. streaming input), rendering to out.
func New(style Style, total int, out io.Writer) *Bar {
	program := tea.NewProgram(
		newModel(style, total),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
	)

	b := &Bar{program: program, exited: make(chan struct{})}

	go func() {
		defer close(b.exited)
		_, _ = program.Run()
	}()

	return b
}

// Increment records one more completed invocation, clearing the subtitle.
// failed marks it as a non-Success outcome for the bar's running failure
// count.
func (b *Bar) Increment(failed bool) {
	b.program.Send(incrementMsg{failed: failed})
}

// UpdateLastLine replaces the bar's in-progress subtitle without advancing
// the done count, fed by the runner's OnLastLine callback.
func (b *Bar) UpdateLastLine(line string) {
	b.program.Send(subtitleMsg{lastLine: line})
}

// Suspend releases the terminal so the sink can write a non-interleaved
// output block, returning a func that restores the bar. This implements
// the original's pb.suspend(...) behavior (E.3): bar redraws never
// interleave with child output.
func (b *Bar) Suspend() func() {
	b.program.ReleaseTerminal() //nolint:errcheck

	return func() {
		b.program.RestoreTerminal() //nolint:errcheck
	}
}

// Stop quits the bar's program and waits for it to exit.
func (b *Bar) Stop() {
	b.program.Send(doneMsg{})
	<-b.exited
}
