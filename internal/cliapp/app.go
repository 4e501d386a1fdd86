// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package cliapp

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"parun/internal/ctxlog"
	"parun/internal/model"
)

func init() {
	// §6 names -V/--version explicitly; urfave/cli's built-in version flag
	// defaults to -v, so it is replaced wholesale rather than aliased.
	cli.VersionFlag = &cli.BoolFlag{
		Name:        "version",
		Aliases:     []string{"V"},
		Usage:       "print the version and exit",
		HideDefault: true,
	}
}

// New builds the root *cli.Command for parun, grounded on the teacher's
// cmd/porch/run.RunCmd: one command, one flag table, one action function
// that builds an immutable Config and runs the pipeline.
func New(version, commit string) *cli.Command {
	return &cli.Command{
		Name:  "parun",
		Usage: "parun [options] command [initial-args] [::: arg1 arg2 ... [::: arg1 arg2 ...]]",
		Description: `parun runs a command once per input, with bounded parallelism, relaying
each child's stdout/stderr as a non-interleaved block. Inputs come from
':::'-delimited argument groups on the command line (Cartesian product)
or from lines read from stdin or one or more --input-file sources.`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Flags:   flags(),
		Action:  action,
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := BuildConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 2) //nolint:mnd // §6: argument-parse failures use exit code 2
	}

	logger := ctxlog.Logger(ctx).With("jobs", cfg.Jobs, "keepOrder", cfg.KeepOrder, "shell", cfg.Shell)
	logger.Debug("starting run")

	snapshot := Run(ctx, cfg, os.Stdin, cmd.Writer, cmd.ErrWriter)

	logger.Info("run complete", "summary", snapshot.Summary())

	if snapshotFailed(snapshot) {
		return cli.Exit(snapshot.Summary(), 1) //nolint:mnd // §6: nonzero exit iff any failure category is nonzero
	}

	return nil
}

func snapshotFailed(s model.Snapshot) bool {
	return s.FailedStatus > 0 || s.TimedOut > 0 || s.SpawnErrors > 0 || s.IoErrors > 0
}
