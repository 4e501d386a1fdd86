// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package source

// cartesianOdometer yields the Cartesian product of groups one tuple at a
// time, rightmost-fastest (the canonical GNU-Parallel order, §4.1 and
// E.4(a)): the last group's index increments on every tuple; a group
// carries into its left neighbour only when it wraps. This is a digit-array
// increment, not a precomputed slice of all tuples, so memory is O(depth)
// regardless of the product's size (§4.1 "must not materialize the full
// input list in memory").
type cartesianOdometer struct {
	groups  [][]string
	indices []int
	done    bool
}

func newCartesianOdometer(groups [][]string) *cartesianOdometer {
	for _, g := range groups {
		if len(g) == 0 {
			return &cartesianOdometer{done: true}
		}
	}

	return &cartesianOdometer{
		groups:  groups,
		indices: make([]int, len(groups)),
		done:    len(groups) == 0,
	}
}

// next returns the next tuple and true, or nil and false when exhausted.
func (o *cartesianOdometer) next() ([]string, bool) {
	if o.done {
		return nil, false
	}

	tuple := make([]string, len(o.groups))
	for i, g := range o.groups {
		tuple[i] = g[o.indices[i]]
	}

	o.advance()

	return tuple, true
}

// advance increments the rightmost digit, carrying left on overflow.
func (o *cartesianOdometer) advance() {
	for i := len(o.indices) - 1; i >= 0; i-- {
		o.indices[i]++
		if o.indices[i] < len(o.groups[i]) {
			return
		}

		o.indices[i] = 0
	}

	o.done = true
}
