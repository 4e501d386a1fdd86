// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package source

// Separator is the literal token that delimits argument groups on the
// command line (§2 Source, §4.1, GLOSSARY "Argument group"). It is
// recognized only among the positional arguments that follow the template.
const Separator = ":::"

// HasGroups reports whether any Separator token appears in args, which
// selects argument mode over input-stream mode at startup (§4.1).
func HasGroups(args []string) bool {
	for _, a := range args {
		if a == Separator {
			return true
		}
	}

	return false
}

// SplitGroups splits args on Separator tokens into argument groups. A
// leading or trailing empty group (e.g. "echo :::" with no following
// tokens) yields an empty []string group, which newCartesianOdometer
// treats as an immediately-exhausted product.
func SplitGroups(args []string) [][]string {
	groups := [][]string{{}}

	for _, a := range args {
		if a == Separator {
			groups = append(groups, []string{})
			continue
		}

		groups[len(groups)-1] = append(groups[len(groups)-1], a)
	}

	return groups
}
