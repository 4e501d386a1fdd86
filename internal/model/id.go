// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package model holds the data types shared by every pipeline stage:
// invocation identity, the command template, spawn requests, output
// records and the outcome taxonomy. None of these types own a
// goroutine; they are plain values passed between stages over channels.
package model

import "fmt"

// InvocationID is a monotonically increasing integer assigned in source
// order. IDs are contiguous and start at 1.
type InvocationID uint64

// Origin is the human-readable provenance of an InvocationRecord, used in
// diagnostics and log correlation.
type Origin struct {
	SourceName string // e.g. "command_line_args", "-", or a file path
	LineNumber int     // 1-based line number; 0 for argument-mode records
}

// String renders the origin as "source:line" or just "source" when there
// is no meaningful line number.
func (o Origin) String() string {
	if o.LineNumber <= 0 {
		return o.SourceName
	}

	return fmt.Sprintf("%s:%d", o.SourceName, o.LineNumber)
}
