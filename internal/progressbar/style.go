// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progressbar implements the -p/--progress-bar flag (§4.5, §6):
// a single flat bubbles/progress bar styled via PROGRESS_STYLE, narrowed
// from the teacher's internal/tui hierarchical command tree down to one
// bar over the whole run.
package progressbar

import "fmt"

// EnvVar is the environment variable selecting the bar's visual style,
// mirroring original_source/src/progress/style.rs.
const EnvVar = "PROGRESS_STYLE"

// Style names a gradient (or lack of one) applied to the bar.
type Style struct {
	Name       string
	GradientA  string // lipgloss color for 0% fill; empty means monochrome
	GradientB  string // lipgloss color for 100% fill
}

var (
	// LightBG is tuned for light terminal backgrounds: blue fading to red,
	// matching original_source's indicatif template for this style.
	LightBG = Style{Name: "light_bg", GradientA: "#0057B7", GradientB: "#D7263D"}
	// DarkBG is tuned for dark terminal backgrounds: cyan fading to blue.
	DarkBG = Style{Name: "dark_bg", GradientA: "#00C2D1", GradientB: "#3A86FF"}
	// Simple renders with no color at all.
	Simple = Style{Name: "simple"}
)

// StyleFromEnv resolves PROGRESS_STYLE via get (injected for testability).
// Absence or the literal value "default" resolves to LightBG; any other
// unrecognized value is a fatal startup error (E.3), not a silent fallback.
func StyleFromEnv(get func(string) (string, bool)) (Style, error) {
	val, ok := get(EnvVar)
	if !ok || val == "" || val == "default" {
		return LightBG, nil
	}

	switch val {
	case LightBG.Name:
		return LightBG, nil
	case DarkBG.Name:
		return DarkBG, nil
	case Simple.Name:
		return Simple, nil
	default:
		return Style{}, fmt.Errorf("%s: unrecognized style %q (want %s, %s, or %s)",
			EnvVar, val, LightBG.Name, DarkBG.Name, Simple.Name)
	}
}
