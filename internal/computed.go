package internal

// NewComputed creates a KindComputed node: a read-only, memoised
// derivation. It starts dirty (spec.md §4.3) so the very first Read
// triggers the initial computation rather than returning a zero value.
func (r *Runtime) NewComputed(scope *Node, compute func() (any, error), equal func(a, b any) bool, label string, fallback any, hasFallback bool) *Node {
	if equal == nil {
		equal = DefaultEqual
	}
	n := NewNode(KindComputed, scope)
	n.Label = label
	n.equal = equal
	n.compute = compute
	n.fallback = fallback
	n.hasFallback = hasFallback
	n.MarkDirty()
	return n
}

// ReadComputed is the canonical read path from spec.md §4.3: detect
// re-entrancy (cycle), bring the value up to date, and only then track
// the caller as an observer. Tracking has to happen last: it snapshots
// this node's version (internal/propagate.go's depVersion) for the
// caller's own check-resolution later, and that snapshot must be the
// version the caller actually consumes, not whatever it was before this
// call's own recompute.
func (r *Runtime) ReadComputed(n *Node) any {
	if i := r.indexOnComputeStack(n); i >= 0 {
		panic(r.cycleError(i, n))
	}

	if !n.IsDisposed() {
		r.ensureFresh(n)
	}

	r.tracker.Track(n)
	return n.value
}

func (r *Runtime) indexOnComputeStack(n *Node) int {
	for i, cs := range r.computeStack {
		if cs == n {
			return i
		}
	}
	return -1
}

func (r *Runtime) cycleError(fromIndex int, n *Node) *CyclicDependencyError {
	chain := make([]string, 0, len(r.computeStack)-fromIndex+1)
	for _, cs := range r.computeStack[fromIndex:] {
		chain = append(chain, label(cs))
	}
	chain = append(chain, label(n))
	return &CyclicDependencyError{Chain: chain}
}

// recomputeComputed re-runs n's body exactly as spec.md §4.3 step 4
// describes: dispose children from the previous run, run and clear this
// run's disposal callbacks and buffered error handlers, rediscover
// dependencies, then evaluate under Compute. A changed result enqueues
// n's own observers; either way n's dirty flag clears.
func (r *Runtime) recomputeComputed(n *Node) {
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

	var newValue any
	var bodyErr error

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				if cyc, ok := rec.(*CyclicDependencyError); ok {
					panic(cyc) // never routed through handlers, per spec.md §4.7
				}
				bodyErr = coerceError(rec)
			}
		}()

		r.tracker.Compute(n, n, func() {
			v, err := n.compute()
			if err != nil {
				panic(err)
			}
			newValue = v
		})
	}()

	if bodyErr != nil {
		r.recoverComputedError(n, bodyErr)
		n.ClearDirty()
		n.RemoveFlag(FlagCheck)
		return
	}

	first := !n.initialized
	n.initialized = true

	if first || !n.equal(n.value, newValue) {
		n.value = newValue
		if first {
			n.version++
		} else {
			r.notifySubs(n)
		}
	}
	n.ClearDirty()
	n.RemoveFlag(FlagCheck)
}

// recoverComputedError implements spec.md §4.3 step 5 / §7 item 1. Unlike
// an effect, a derivation's Read always has to return some T, so a body
// error can never escape a Read itself: the handler chain is always
// offered the error (a best-effort side channel, e.g. for logging), and
// the value resolves to the fallback on a first run that has one, or the
// previous value otherwise (the zero value, on a first run with no
// fallback — there is no previous value yet).
func (r *Runtime) recoverComputedError(n *Node, err error) {
	first := !n.initialized
	n.initialized = true

	HandleError(n, err)

	if first && n.hasFallback {
		n.value = n.fallback
	}
	// else: n.value is left as whatever it already held (the previous
	// value, or the zero value on an un-fallback-ed first run).
}
