// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package model

// OutputRecord is the result of one spawn attempt. It is consumed exactly
// once by the sink, which releases StdOut/StdErr after writing them.
type OutputRecord struct {
	ID      InvocationID
	Origin  Origin
	StdOut  []byte
	StdErr  []byte
	Outcome Outcome
}

// SkipMarker carries only an ID: it lets the builder tell the keep-order
// sink to advance next_expected past a record it dropped (regex miss,
// dry-run) without ever producing an OutputRecord for that ID.
type SkipMarker struct {
	ID InvocationID
}

// SinkItem is whatever arrives on the builder→sink and runner→sink
// channels: exactly one of Output or Skip is non-nil.
type SinkItem struct {
	Output *OutputRecord
	Skip   *SkipMarker
}
