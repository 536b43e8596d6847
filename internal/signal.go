package internal

import "reflect"

// NewSignal creates a KindSource node owned by scope, with equal used as
// the dirty predicate (spec.md §3's "pure equality decides whether a new
// value differs from the previous"). A nil equal defaults to
// DefaultEqual.
func (r *Runtime) NewSignal(scope *Node, initial any, equal func(a, b any) bool, label string) *Node {
	if equal == nil {
		equal = DefaultEqual
	}
	n := NewNode(KindSource, scope)
	n.Label = label
	n.value = initial
	n.equal = equal
	return n
}

// DefaultEqual is the default dirty predicate. It compares structurally
// via reflect.DeepEqual, not by identity: two distinct slices, maps or
// pointers-to-structs with equal contents count as unchanged.
func DefaultEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// ReadSignal returns a source's current value, tracking the caller as an
// observer if inside a tracked execution. Reading a disposed source still
// returns its last value.
func (r *Runtime) ReadSignal(n *Node) any {
	r.tracker.Track(n)
	return n.value
}

// WriteSignal compares next against n's current value via its dirty
// predicate; if different, stores it and enqueues every current observer
// as dirty. Writing to a disposed source is a silent no-op (spec.md §7:
// invariant violations are no-ops, not errors).
func (r *Runtime) WriteSignal(n *Node, next any) {
	if n.IsDisposed() {
		return
	}
	if n.equal(n.value, next) {
		return
	}

	n.value = next
	r.notifySubs(n)
}

// NextSignal is sugar for WriteSignal(n, fn(current)); fn sees the
// current value without that read itself registering a dependency (the
// value is the source's own state, not an external tracked read).
func (r *Runtime) NextSignal(n *Node, fn func(any) any) {
	r.WriteSignal(n, fn(n.value))
}

// markDirtyAndEnqueue marks a derivation dirty (if not already) and
// enqueues it on the scheduler. Marking an already-dirty node is a no-op:
// it is either already enqueued, or was dirtied and then read/recomputed
// synchronously via pull-on-read since its last enqueue, in which case it
// will pick up the new value lazily like any other reader.
func (r *Runtime) markDirtyAndEnqueue(n *Node) {
	if n.IsDisposed() {
		return
	}
	if !n.IsDirty() {
		n.MarkDirty()
	}
	n.RemoveFlag(FlagCheck)
	r.scheduler.Enqueue(n)
}
