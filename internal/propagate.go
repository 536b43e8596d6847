package internal

// notifySubs is called once a source or computed's exposed value has
// actually changed. Direct observers are fully dirtied and enqueued — an
// observer that reads this node directly must itself re-verify on its
// next resolution. Everything further downstream only has FlagCheck set:
// spec.md §4.5's glitch-freedom means a node two or more hops from the
// write must not assume it needs to re-run just because something
// upstream moved — it has to find out whether the change actually
// reached it once the intermediate nodes resolve.
func (r *Runtime) notifySubs(n *Node) {
	n.version++
	for sub := range n.Subs() {
		r.markDirtyAndEnqueue(sub)
		r.propagateCheck(sub)
	}
}

// propagateCheck marks every observer beyond the direct one with
// FlagCheck and enqueues it, so a flush reaches it even if nothing ever
// reads it directly. It stops descending once it reaches a node that is
// already dirty or check-flagged: that node's own resolution will carry
// the notification the rest of the way down when (and if) it actually
// recomputes.
func (r *Runtime) propagateCheck(n *Node) {
	for sub := range n.Subs() {
		if sub.IsDisposed() || sub.IsDirty() || sub.HasFlag(FlagCheck) {
			continue
		}
		sub.AddFlag(FlagCheck)
		r.scheduler.Enqueue(sub)
		r.propagateCheck(sub)
	}
}

// ensureFresh brings a computed's value up to date before it is read: a
// dirty node always recomputes; a check-flagged node first resolves
// whether any of its dependencies actually produced a new value since its
// last run, recomputing only if one did. Sources have nothing to resolve
// (they carry no dependencies); effects are resolved through runEffect,
// not through a read path.
func (r *Runtime) ensureFresh(n *Node) {
	if n.IsDisposed() || n.Kind != KindComputed {
		return
	}
	if n.IsDirty() {
		r.recomputeComputed(n)
		return
	}
	if n.HasFlag(FlagCheck) {
		if r.resolveCheck(n) {
			n.MarkDirty()
			r.recomputeComputed(n)
		}
	}
}

// resolveCheck walks n's existing dependency edges (from its last run),
// recursively ensuring each dependency is itself fresh, then reports
// whether any dependency's version moved since n last consumed it. It
// always clears FlagCheck: whatever the answer, n no longer needs to be
// re-examined on this account until the next write reaches it again.
func (r *Runtime) resolveCheck(n *Node) bool {
	changed := false
	for l := n.depsHead; l != nil; l = l.nextDep {
		r.ensureFresh(l.dep)
		if l.dep.version != l.depVersion {
			changed = true
		}
	}
	n.RemoveFlag(FlagCheck)
	return changed
}
