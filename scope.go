package reactor

import "github.com/reactor-go/reactor/internal"

// Scope is a bare ownership region (spec.md's "root(init)"/"scope(fn)"):
// every reactive value created while a Scope is current is parented to
// it, and disposing the Scope disposes all of them, children before
// parent.
type Scope struct {
	n *internal.Node
}

func (s *Scope) node() *internal.Node { return s.n }

// Root creates a new detached scope (parented to the runtime's implicit
// root, not the caller's current scope) and runs init under it, passing a
// dispose function that tears the scope down early. Root's return value
// is init's return value.
func Root[T any](init func(dispose func()) T) T {
	r := internal.GetRuntime()
	n := internal.NewNode(internal.KindScope, r.Root())

	var result T
	r.RunScoped(n, func() {
		result = init(func() { internal.Dispose(n) })
	})
	return result
}

// NewScope creates a nested scope under the current scope (or the
// runtime root if none) without running anything inside it yet; callers
// enter it with Scope.Run.
func NewScope() *Scope {
	r := internal.GetRuntime()
	return &Scope{n: r.NewScope(nil)}
}

// Run re-enters s as the current scope for the duration of fn. Reactive
// values created inside fn are parented to s.
func (s *Scope) Run(fn func()) {
	internal.GetRuntime().RunScoped(s.n, fn)
}

// Dispose synchronously disposes s and every descendant, children before
// parent. Safe to call more than once.
func (s *Scope) Dispose() { internal.Dispose(s.n) }

// WithScope is spec.md's "scope(fn)": it captures whichever scope is
// current at the moment WithScope itself is called, and returns a
// wrapper that re-enters that captured scope on every call, so context
// lookups and error handlers registered on it stay reachable from
// inside fn wherever the wrapper is later invoked from. Like
// Scope.Run, WithScope itself installs no observer and creates no
// derivation node — whatever tracking happens inside fn is whichever
// ambient observer the caller already had (none, if called bare). A
// panic inside fn is routed through the captured scope's error-handler
// chain instead of propagating to the caller; when that happens the
// wrapper returns T's zero value.
func WithScope[T any](fn func() T) func() T {
	r := internal.GetRuntime()
	scope := r.CurrentScopeOrRoot()

	return func() T {
		var result T
		if panicked := r.RunScopedGuarded(scope, func() { result = fn() }); panicked {
			var zero T
			return zero
		}
		return result
	}
}

// OnCleanup registers fn on s, to run once when s is disposed.
func (s *Scope) OnCleanup(fn func()) func() { return s.n.OnCleanup(fn) }

// OnError registers fn as an error handler local to s.
func (s *Scope) OnError(fn func(any)) { s.n.OnError(fn) }

// Dispose synchronously disposes any reactive value and its subtree.
// Calling it twice is a no-op.
func Dispose(x handle) {
	if x == nil {
		return
	}
	internal.Dispose(x.node())
}

// OnCleanup registers fn on the current scope, to run once it is
// disposed. Returns a handle that runs fn immediately (once) if called
// before disposal.
func OnCleanup(fn func()) func() {
	return internal.GetRuntime().OnCleanup(fn)
}

// OnDispose is an alias for OnCleanup matching spec.md's naming.
func OnDispose(fn func()) func() { return OnCleanup(fn) }

// OnError registers fn on the current scope's error-handler chain. When a
// derivation or effect body in this scope's subtree throws and no closer
// handler claims it, fn is invoked with the coerced error.
func OnError(fn func(any)) {
	internal.GetRuntime().OnError(fn)
}

// GetScope returns the currently active scope, or nil outside any
// Root/Scope.Run.
func GetScope() *Scope {
	r := internal.GetRuntime()
	n := r.CurrentScope()
	if n == nil {
		return nil
	}
	return &Scope{n: n}
}

// GetScopeOf returns x's owning scope.
func GetScopeOf(x handle) *Scope {
	if x == nil {
		return nil
	}
	parent := x.node().Parent()
	if parent == nil {
		return nil
	}
	return &Scope{n: parent}
}

// IsObservable reports whether x is a reactive value produced by this
// package (a Signal, Computed, or Effect).
func IsObservable(x any) bool {
	h, ok := x.(handle)
	return ok && h != nil && h.node() != nil && h.node().Kind != internal.KindScope
}

// IsSubject reports whether x is a writable source (a *Signal[T]).
func IsSubject(x any) bool {
	h, ok := x.(handle)
	if !ok || h == nil {
		return false
	}
	return h.node().Kind == internal.KindSource
}

// Context is a hierarchical, scope-scoped value: Value looks the key up
// through the current scope's ancestors, and Set writes it on the
// current scope only.
type Context[T any] struct {
	key any
}

// NewContext creates a context identified by a fresh key, with default
// serving as the value seen when no ancestor scope has Set it.
func NewContext[T any](defaultValue T) *Context[T] {
	c := &Context[T]{key: new(byte)}
	internal.SetContext(internal.GetRuntime().Root(), c.key, defaultValue)
	return c
}

// Value returns the nearest value set for c, walking from the current
// scope up through its ancestors.
func (c *Context[T]) Value() T {
	v, _ := internal.GetRuntime().GetContext(c.key)
	return as[T](v)
}

// Set writes value for c on the current scope.
func (c *Context[T]) Set(value T) {
	internal.GetRuntime().SetContext(c.key, value)
}
