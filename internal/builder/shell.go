// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package builder

import "strings"

// DefaultShellPath is the shell binary used by --shell when --shell-path is
// not given (§6).
const DefaultShellPath = "/bin/bash"

// shellJoin produces the single string passed as the shell's -c argument.
// Grounded on original_source/src/commands.rs's Command.run: the original
// never re-quotes its command string, it passes the (already-substituted)
// template text straight through to `/bin/sh -c <command>` as one os/exec
// argument. A single pre-shell argv element (the common case: the user's
// whole template is one shell-syntax string with `{}`/`{n}` placeholders
// already expanded) is therefore passed through verbatim so operators like
// `;`, `$(...)`, and `&&` keep their shell meaning. Only when the builder
// assembled more than one pre-shell element (argv_prefix plus separately
// appended extras) are they space-joined to recombine into one line.
func shellJoin(argv []string) string {
	if len(argv) == 1 {
		return argv[0]
	}

	return strings.Join(argv, " ")
}
