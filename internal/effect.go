package internal

// EffectKind distinguishes the two settled queues an effect can belong to
// (spec.md's supplemented OnRenderSettled/OnUserSettled split, grounded in
// the teacher's EffectRender/EffectUser EffectType). Both kinds are drained
// in the same FIFO order within a tick; the kind only decides which
// settled hook (OnRenderSettled or OnUserSettled) waits for the effect.
type EffectKind int

const (
	EffectKindUser EffectKind = iota
	EffectKindRender
)

// CleanupFunc is what an effect body may optionally return to run just
// before its next re-run (or at disposal).
type CleanupFunc func()

// NewEffect creates a KindEffect node and primes it immediately: an effect
// always runs once at creation (spec.md §4.4), synchronously, on the
// goroutine that created it, unlike a dirtied derivation which waits for a
// pull. body runs under Compute so its reads are tracked exactly like a
// computed's.
func (r *Runtime) NewEffect(scope *Node, kind EffectKind, body func() (CleanupFunc, error), label string) *Node {
	n := NewNode(KindEffect, scope)
	n.Label = label
	n.effectKind = kind
	n.equal = func(a, b any) bool { return false } // effects always re-run; never skip via equality
	n.compute = func() (any, error) {
		cleanup, err := body()
		return cleanup, err
	}
	n.MarkDirty()

	r.runEffect(n)
	return n
}

// runEffect is the effect analogue of recomputeComputed: run the previous
// cleanup, dispose the prior run's children, re-track dependencies, invoke
// the body, and stash whatever cleanup it returns for next time. Effect
// bodies have no fallback and no return value visible to readers, so a
// body error either is handled by the scope's error-handler chain or
// escapes the call that triggered this run (priming, or the scheduler
// flush), per spec.md §7 item 1.
func (r *Runtime) runEffect(n *Node) {
	if n.IsDisposed() {
		return
	}

	if !n.IsDirty() {
		if !n.HasFlag(FlagCheck) {
			return // not dirty, not under suspicion: nothing to do
		}
		if !r.resolveCheck(n) {
			// Every dependency two-plus hops up settled back to its old
			// value: this effect was counted as outstanding by
			// settledTracker.BeginFlush (it was in the pending set) but
			// will not actually run, so it still needs to report in.
			r.settled.markRun(n)
			return
		}
		n.MarkDirty()
	}

	if n.effectCleanup != nil {
		cleanup := n.effectCleanup
		n.effectCleanup = nil
		cleanup()
	}

	disposeChildren(n)
	cleanups := n.cleanups
	n.cleanups = nil
	for _, entry := range cleanups {
		if entry.active {
			entry.active = false
			entry.fn()
		}
	}
	n.catchers = nil
	n.ClearDeps()

	r.computeStack = append(r.computeStack, n)
	defer func() {
		r.computeStack = r.computeStack[:len(r.computeStack)-1]
	}()

	var bodyErr error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				if cyc, ok := rec.(*CyclicDependencyError); ok {
					panic(cyc)
				}
				bodyErr = coerceError(rec)
			}
		}()

		r.tracker.Compute(n, n, func() {
			v, err := n.compute()
			if err != nil {
				panic(err)
			}
			if v != nil {
				n.effectCleanup = v.(CleanupFunc)
			}
		})
	}()

	n.ClearDirty()
	n.RemoveFlag(FlagCheck)
	if n.initialized {
		r.settled.markRun(n) // the priming run belongs to no flush's snapshot
	}
	n.initialized = true

	if bodyErr != nil {
		if HandleError(n, bodyErr) {
			return
		}
		panic(bodyErr)
	}
}

// StopEffect disposes an effect node: runs its latest cleanup, its
// children's disposals, and detaches it from the scope tree, same as
// disposing any other node.
func (r *Runtime) StopEffect(n *Node) {
	Dispose(n)
}
