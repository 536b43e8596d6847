package internal

// Runtime bundles everything ambient a single goroutine's reactive graph
// needs: the scope/dependency tracker, the microtask-coalesced scheduler,
// the batch-depth counter, the settled-hook tracker, and the compute
// stack used for cycle detection. One Runtime is resolved per goroutine
// (runtime_default.go/runtime_wasm.go), mirroring the teacher's
// per-goroutine GetRuntime() split.
type Runtime struct {
	tracker   *Tracker
	scheduler *Scheduler
	batcher   *Batcher
	settled   *settledTracker

	computeStack []*Node

	root *Node
}

func NewRuntime() *Runtime {
	r := &Runtime{
		tracker: NewTracker(),
		batcher: NewBatcher(),
		settled: newSettledTracker(),
	}
	r.scheduler = NewScheduler(defaultHostSchedule())
	r.scheduler.SetProcessor(r.processScheduled)
	r.scheduler.OnFlushStart(r.settled.BeginFlush)
	r.scheduler.OnFlush(r.settled.EndFlush)
	r.root = NewNode(KindScope, nil)
	return r
}

// processScheduled is what the scheduler invokes for each node it drains,
// "invoke it as a read" per spec.md §4.5: a computed is pulled (which
// recomputes only if it is still dirty or its check resolves to a changed
// dependency); an effect goes through runEffect, which re-runs the body
// when the effect is dirty, or check-flagged with a dependency that
// actually changed, and otherwise returns without running it.
func (r *Runtime) processScheduled(n *Node) {
	switch n.Kind {
	case KindEffect:
		r.runEffect(n)
	case KindComputed:
		r.ReadComputed(n)
	}
}

// Root returns the runtime's top-level scope, the implicit parent of any
// node created with no enclosing scope.
func (r *Runtime) Root() *Node { return r.root }

// NewScope creates a bare KindScope node, used by the public API's Scope
// (a plain nested ownership region with no reactive value of its own).
func (r *Runtime) NewScope(parent *Node) *Node {
	if parent == nil {
		parent = r.CurrentScope()
	}
	if parent == nil {
		parent = r.root
	}
	return NewNode(KindScope, parent)
}

func (r *Runtime) CurrentScope() *Node    { return r.tracker.CurrentScope() }
func (r *Runtime) CurrentObserver() *Node { return r.tracker.CurrentObserver() }

// CurrentScopeOrRoot is CurrentScope, falling back to the runtime's root
// scope outside of any Root/Scope call — nodes created at package level
// still need somewhere to attach for disposal bookkeeping, even though
// nothing will ever dispose the root itself.
func (r *Runtime) CurrentScopeOrRoot() *Node { return r.scopeOrRoot() }

func (r *Runtime) scopeOrRoot() *Node {
	if s := r.CurrentScope(); s != nil {
		return s
	}
	return r.root
}

// RunScoped installs scope as the current scope (not the current
// observer) for the duration of fn — the shape Root/Scope need, since
// entering one must not itself register a dependency.
func (r *Runtime) RunScoped(scope *Node, fn func()) {
	r.tracker.RunWithScope(scope, fn)
}

// RunScopedGuarded is RunScoped plus the recover/coerce/HandleError
// boundary recomputeComputed and runEffect apply around a body, for the
// supplemented scope(fn) wrapper (spec.md §4.6/§6): re-entering a
// captured scope must not let a panic inside fn escape to the wrapper's
// caller, it must be routed through scope's error-handler chain like any
// other derivation/effect failure. Returns true if fn panicked (the
// caller then has nothing meaningful to return but a zero value).
func (r *Runtime) RunScopedGuarded(scope *Node, fn func()) (panicked bool) {
	defer func() {
		if rec := recover(); rec != nil {
			if cyc, ok := rec.(*CyclicDependencyError); ok {
				panic(cyc)
			}
			HandleError(scope, coerceError(rec))
			panicked = true
		}
	}()
	r.tracker.RunWithScope(scope, fn)
	return false
}

func (r *Runtime) OnCleanup(fn func()) func() {
	scope := r.scopeOrRoot()
	return scope.OnCleanup(fn)
}

func (r *Runtime) OnError(fn func(any)) {
	r.scopeOrRoot().OnError(fn)
}

func (r *Runtime) GetContext(key any) (any, bool) {
	return GetContext(r.scopeOrRoot(), key)
}

// SetContext writes on the current scope only, per spec.md §4.6 ("writes
// on the current scope (no-op if none)") — unlike OnCleanup/OnError,
// which attach to the runtime root when called with no scope active,
// a context write outside any Root/Scope.Run has nothing to attach to
// and must not silently land on the shared root bag.
func (r *Runtime) SetContext(key, value any) {
	SetContext(r.CurrentScope(), key, value)
}

func (r *Runtime) Peek(fn func()) { r.tracker.Peek(fn) }

func (r *Runtime) Untrack(fn func()) { r.tracker.Untrack(fn) }

func (r *Runtime) Dispose(n *Node) { Dispose(n) }

func (r *Runtime) OnSettled(fn func())       { r.settled.AddGlobal(fn) }
func (r *Runtime) OnUserSettled(fn func())   { r.settled.AddUser(fn) }
func (r *Runtime) OnRenderSettled(fn func()) { r.settled.AddRender(fn) }

func (r *Runtime) Scheduler() *Scheduler { return r.scheduler }

func (r *Runtime) Tick() int64 { return r.scheduler.Tick() }

func (r *Runtime) Batch(fn func()) { r.NewBatch(fn) }
