// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package model

// InvocationRecord is one input to the pipeline: either the fields of a
// single input line, or one tuple of the Cartesian product of `:::`
// argument groups. It is created exactly once by the source stage and
// consumed exactly once by the builder stage.
type InvocationRecord struct {
	ID        InvocationID
	RawFields []string
	Origin    Origin
}

// Joined returns the record's fields space-joined, the form used for
// whole-record regex matching and auto-numbered substitution of `{0}`/`{}`.
func (r InvocationRecord) Joined() string {
	switch len(r.RawFields) {
	case 0:
		return ""
	case 1:
		return r.RawFields[0]
	default:
		n := len(r.RawFields) - 1
		for _, f := range r.RawFields {
			n += len(f)
		}

		buf := make([]byte, 0, n)
		for i, f := range r.RawFields {
			if i > 0 {
				buf = append(buf, ' ')
			}

			buf = append(buf, f...)
		}

		return string(buf)
	}
}
