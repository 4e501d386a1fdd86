// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package model

import "time"

// DiscardPolicy selects which of a child's streams are redirected to the
// null device instead of being captured.
type DiscardPolicy int

const (
	// DiscardNone captures both stdout and stderr.
	DiscardNone DiscardPolicy = iota
	// DiscardStdout redirects stdout to the null device.
	DiscardStdout
	// DiscardStderr redirects stderr to the null device.
	DiscardStderr
	// DiscardAll redirects both stdout and stderr to the null device.
	DiscardAll
)

// DiscardsStdout reports whether stdout should be discarded under this policy.
func (d DiscardPolicy) DiscardsStdout() bool {
	return d == DiscardStdout || d == DiscardAll
}

// DiscardsStderr reports whether stderr should be discarded under this policy.
func (d DiscardPolicy) DiscardsStderr() bool {
	return d == DiscardStderr || d == DiscardAll
}

// SpawnRequest is a fully-formed, ready-to-exec command assembled by the
// builder. It is consumed exactly once by a runner.
type SpawnRequest struct {
	ID      InvocationID
	Origin  Origin
	Argv    []string // length >= 1; argv[0] is already path-resolved
	Shell   bool
	Timeout time.Duration // zero means no timeout
	Discard DiscardPolicy
}
