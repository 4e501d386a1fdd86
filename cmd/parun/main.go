// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the parun command-line interface (CLI).
package main

import (
	"context"
	"os"

	"parun"
	"parun/internal/cliapp"
	"parun/internal/ctxlog"
	"parun/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd := cliapp.New(parun.Version, parun.Commit)

	err := rootCmd.Run(ctx, os.Args)

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("run terminated due to cancellation", "error", ctx.Err())
		os.Exit(1) //nolint:mnd // §6: cancellation is reported as a run failure
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("run failed", "error", err)

		if coder, ok := err.(interface{ ExitCode() int }); ok { //nolint:errorlint // cli.Exit's error is not a wrapped error
			os.Exit(coder.ExitCode())
		}

		os.Exit(1) //nolint:mnd // §6: exit code 1 for an uncategorised run failure
	}
}
