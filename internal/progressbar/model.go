// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package progressbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const lastLineWidth = 48

// incrementMsg reports one more completed invocation.
type incrementMsg struct {
	failed bool
}

// subtitleMsg updates the bar's in-progress subtitle without advancing the
// done count, fed by the runner's teereader-tracked last output line.
type subtitleMsg struct {
	lastLine string
}

// doneMsg tells the bar's program to exit.
type doneMsg struct{}

// model is the bubbletea.Model driving the bar, grounded on the teacher's
// internal/tui.Model but narrowed to one bubbles/progress bar instead of a
// hierarchical command tree.
type model struct {
	bar      progress.Model
	total    int // <=0 means unknown: render count only, no percentage
	done     int
	failed   int
	lastLine string
}

func newModel(style Style, total int) model {
	var opts []progress.Option

	switch {
	case style.Name == Simple.Name:
		opts = append(opts, progress.WithoutPercentage(), progress.WithSolidFill("247"))
	default:
		opts = append(opts, progress.WithGradient(style.GradientA, style.GradientB))
	}

	return model{bar: progress.New(opts...), total: total}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case incrementMsg:
		m.done++
		if msg.failed {
			m.failed++
		}

		m.lastLine = ""

		if m.total > 0 {
			cmd := m.bar.SetPercent(float64(m.done) / float64(m.total))
			return m, cmd
		}

		return m, nil

	case subtitleMsg:
		m.lastLine = msg.lastLine
		return m, nil

	case doneMsg:
		return m, tea.Quit

	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model) //nolint:forcetypeassert

		return m, cmd

	default:
		return m, nil
	}
}

func (m model) View() string {
	var b strings.Builder

	if m.total > 0 {
		b.WriteString(m.bar.View())
		fmt.Fprintf(&b, " %d/%d done", m.done, m.total)
	} else {
		fmt.Fprintf(&b, "%d done", m.done)
	}

	if m.failed > 0 {
		fmt.Fprintf(&b, ", %d failed", m.failed)
	}

	if m.lastLine != "" {
		b.WriteString(" — ")
		b.WriteString(truncate(m.lastLine, lastLineWidth))
	}

	b.WriteString("\n")

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	if max <= 3 {
		return s[:max]
	}

	return s[:max-3] + "..."
}
