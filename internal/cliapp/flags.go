// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cliapp wires the urfave/cli/v3 flag table of §6 to an immutable
// Config and drives the five pipeline stages from it. Grounded on the
// teacher's cmd/porch/run package: one cli.Command, one action function
// that builds a config value and runs it, urfave/cli's cli.Exit(msg, code)
// for argument-parse failures.
package cliapp

import "github.com/urfave/cli/v3"

// Flag names, matching §6's table verbatim.
const (
	jobsFlag             = "jobs"
	inputFileFlag        = "input-file"
	nullSeparatorFlag    = "null-separator"
	shellFlag            = "shell"
	shellPathFlag        = "shell-path"
	regexFlag            = "regex"
	timeoutSecondsFlag   = "timeout-seconds"
	discardOutputFlag    = "discard-output"
	progressBarFlag      = "progress-bar"
	keepOrderFlag        = "keep-order"
	dryRunFlag           = "dry-run"
	exitOnErrorFlag      = "exit-on-error"
	channelCapacityFlag  = "channel-capacity"
	disablePathCacheFlag = "disable-path-cache"
)

// DefaultShellPath mirrors internal/builder.DefaultShellPath so the flag
// table's displayed default matches what an unset --shell-path resolves
// to downstream.
const DefaultShellPath = "/bin/bash"

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    jobsFlag,
			Aliases: []string{"j"},
			Usage:   "Maximum number of concurrent child processes. Default: detected CPU count.",
			Value:   0,
		},
		&cli.StringSliceFlag{
			Name:    inputFileFlag,
			Aliases: []string{"i"},
			Usage:   "Add an input source ('-' for stdin). Repeatable. Default: stdin if none given.",
		},
		&cli.BoolFlag{
			Name:    nullSeparatorFlag,
			Aliases: []string{"0"},
			Usage:   "Use NUL as the record separator in input streams.",
		},
		&cli.BoolFlag{
			Name:    shellFlag,
			Aliases: []string{"s"},
			Usage:   "Wrap each command as '<shell-path> -c <joined>'.",
		},
		&cli.StringFlag{
			Name:  shellPathFlag,
			Usage: "Shell binary used in --shell mode.",
			Value: DefaultShellPath,
		},
		&cli.StringFlag{
			Name:    regexFlag,
			Aliases: []string{"r"},
			Usage:   "Apply a regex with named/numbered capture groups instead of auto-numbering.",
		},
		&cli.FloatFlag{
			Name:    timeoutSecondsFlag,
			Aliases: []string{"t"},
			Usage:   "Per-command timeout in fractional seconds. Default: no timeout.",
		},
		&cli.StringFlag{
			Name:    discardOutputFlag,
			Aliases: []string{"d"},
			Usage:   "Redirect the named stream(s) to the null device: stdout, stderr, or all.",
		},
		&cli.BoolFlag{
			Name:    progressBarFlag,
			Aliases: []string{"p"},
			Usage:   "Show a progress bar on stderr.",
		},
		&cli.BoolFlag{
			Name:    keepOrderFlag,
			Aliases: []string{"k"},
			Usage:   "Emit outputs in input order instead of completion order.",
		},
		&cli.BoolFlag{
			Name:  dryRunFlag,
			Usage: "Log the commands that would run; do not spawn anything.",
		},
		&cli.BoolFlag{
			Name:  exitOnErrorFlag,
			Usage: "Cancel the run at the first command failure.",
		},
		&cli.IntFlag{
			Name:  channelCapacityFlag,
			Usage: "Tune inter-stage queue capacity. Default: 2x --jobs.",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:  disablePathCacheFlag,
			Usage: "Bypass the executable path cache; resolve argv[0] fresh every time.",
		},
	}
}
