// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package sink

import "parun/internal/model"

// idItem pairs a SinkItem with the InvocationID the min-heap orders by,
// so the heap never has to branch on which of Output/Skip is set just to
// compare two entries.
type idItem struct {
	id   model.InvocationID
	item model.SinkItem
}

// idHeap is a container/heap.Interface over idItem, keyed by InvocationID.
// It backs the keep-order sink's reorder buffer (§4.5, §9 "Keep-order
// heap").
type idHeap []idItem

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i].id < h[j].id }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x interface{}) { *h = append(*h, x.(idItem)) } //nolint:forcetypeassert

func (h *idHeap) Pop() interface{} {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]

	return last
}
