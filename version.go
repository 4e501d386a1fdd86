// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parun provides build-time version metadata for the parun CLI.
package parun

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)
