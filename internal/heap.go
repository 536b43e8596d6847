package internal

import "iter"

// PriorityHeap buckets nodes by height (their distance from the sources
// they ultimately depend on) so Drain visits them in topological order,
// every dependency before its dependents. The scheduler does not use it
// (flushes are strict FIFO); its only consumer is DumpByHeight.
type PriorityHeap struct {
	min int
	max int

	buckets []*heapEntry // buckets[height] = head of a circular doubly linked list

	lookup map[*Node]*heapEntry // for O(1) removal
}

type heapEntry struct {
	node *Node
	next *heapEntry
	prev *heapEntry
}

func NewHeap() *PriorityHeap {
	return &PriorityHeap{
		buckets: make([]*heapEntry, 64),
		lookup:  make(map[*Node]*heapEntry),
	}
}

func (h *PriorityHeap) growTo(height int) {
	if height < len(h.buckets) {
		return
	}
	next := make([]*heapEntry, height+1)
	copy(next, h.buckets)
	h.buckets = next
}

func (h *PriorityHeap) Insert(node *Node) {
	if node.HasFlag(FlagInHeap) {
		return
	}
	node.AddFlag(FlagInHeap)

	height := node.GetHeight()
	h.growTo(height)

	entry := &heapEntry{node: node}
	h.lookup[node] = entry

	if h.buckets[height] == nil {
		h.buckets[height] = entry
		entry.prev = entry
		entry.next = nil
	} else {
		head := h.buckets[height]
		tail := head.prev
		tail.next = entry
		entry.prev = tail
		entry.next = nil
		head.prev = entry
	}

	if height > h.max {
		h.max = height
	}
}

func (h *PriorityHeap) InsertAll(nodes iter.Seq[*Node]) {
	for node := range nodes {
		h.Insert(node)
	}
}

func (h *PriorityHeap) Remove(node *Node) {
	if !node.HasFlag(FlagInHeap) {
		return
	}
	node.RemoveFlag(FlagInHeap)

	entry, ok := h.lookup[node]
	if !ok {
		return
	}
	delete(h.lookup, node)

	height := entry.node.GetHeight()

	if entry.prev == entry {
		h.buckets[height] = nil
		entry.prev, entry.next = entry, nil
		return
	}

	head := h.buckets[height]
	if entry == head {
		h.buckets[height] = entry.next
	} else {
		entry.prev.next = entry.next
	}

	next := entry.next
	if next == nil {
		next = head
	}
	next.prev = entry.prev

	entry.prev, entry.next = entry, nil
}

// Drain processes every queued entry in ascending-height order, leaving
// the heap empty. New entries inserted by process (e.g. a recomputed
// node's own subscribers) at a height greater than the current min are
// picked up in the same Drain, matching the "newly enqueued nodes during
// the drain are processed in the same flush" guarantee.
func (h *PriorityHeap) Drain(process func(*Node)) {
	for h.min = 0; h.min <= h.max; h.min++ {
		entry := h.buckets[h.min]

		for entry != nil {
			h.Remove(entry.node)
			process(entry.node)
			entry = h.buckets[h.min]
		}
	}

	h.max = 0
}
