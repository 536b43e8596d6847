// Package reactor is a fine-grained reactive computation runtime: sources
// hold values, derivations memoise pure functions of other sources and
// derivations, and effects re-run their body on every invalidation. Writes
// are coalesced onto a microtask-style scheduler; reads of a dirty
// derivation recompute lazily and recursively, so any value observed
// during a tick is always fully reconciled with respect to its own
// dependencies.
package reactor

import "github.com/reactor-go/reactor/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// handle is implemented by every reactive value the package hands out, so
// the untyped operations (Dispose, GetScope, IsObservable, IsSubject) can
// work across Signal/Computed/Effect without a type switch per caller.
type handle interface {
	node() *internal.Node
}

// SignalOption configures NewSignal.
type SignalOption[T any] struct {
	Equal func(a, b T) bool
	ID    string
}

// Signal is a writable reactive source (spec.md's "source").
type Signal[T any] struct {
	n *internal.Node
}

func (s *Signal[T]) node() *internal.Node { return s.n }

// NewSignal creates a source with the given initial value. Reading it
// inside a tracked body (a computed's or effect's) registers a
// dependency; writing it enqueues every current observer on the
// scheduler if the new value differs under the dirty predicate.
func NewSignal[T any](initial T, opts ...SignalOption[T]) *Signal[T] {
	var opt SignalOption[T]
	if len(opts) > 0 {
		opt = opts[0]
	}
	var equal func(a, b any) bool
	if opt.Equal != nil {
		equal = func(a, b any) bool { return opt.Equal(as[T](a), as[T](b)) }
	}
	r := internal.GetRuntime()
	n := r.NewSignal(r.CurrentScopeOrRoot(), initial, equal, opt.ID)
	return &Signal[T]{n: n}
}

// Read returns the signal's current value, tracking the caller as an
// observer if called during a tracked execution.
func (s *Signal[T]) Read() T {
	return as[T](internal.GetRuntime().ReadSignal(s.n))
}

// Write stores next if it differs from the current value under the dirty
// predicate, enqueuing every current observer.
func (s *Signal[T]) Write(next T) {
	internal.GetRuntime().WriteSignal(s.n, next)
}

// Next is sugar for Write(fn(Read())), without the read itself being
// subject to tracking (it observes the signal's own stored state, not an
// external dependency).
func (s *Signal[T]) Next(fn func(T) T) {
	internal.GetRuntime().NextSignal(s.n, func(v any) any { return fn(as[T](v)) })
}

// Readonly returns a read-only view over s that forwards reads to it
// without exposing Write/Next (spec.md's "readonly(o)"). The view is
// its own KindComputed node, not a relabelled alias of s's node, so
// IsSubject correctly reports false for it even though s itself is a
// subject.
func (s *Signal[T]) Readonly() *Computed[T] {
	r := internal.GetRuntime()
	n := r.NewComputed(r.CurrentScopeOrRoot(), func() (any, error) {
		return internal.GetRuntime().ReadSignal(s.n), nil
	}, nil, "", nil, false)
	return &Computed[T]{n: n}
}

// ComputedOption configures NewComputed.
type ComputedOption[T any] struct {
	Equal       func(a, b T) bool
	ID          string
	Fallback    T
	HasFallback bool
}

// Computed is a read-only memoised derivation (spec.md's "derivation").
type Computed[T any] struct {
	n *internal.Node
}

func (c *Computed[T]) node() *internal.Node { return c.n }

// NewComputed creates a derivation from body. The first Read (which
// happens lazily, not at construction) evaluates body and records
// whatever sources/derivations it reads as dependencies; subsequent reads
// return the memoised value until a dependency changes.
func NewComputed[T any](body func() T, opts ...ComputedOption[T]) *Computed[T] {
	var opt ComputedOption[T]
	if len(opts) > 0 {
		opt = opts[0]
	}
	var equal func(a, b any) bool
	if opt.Equal != nil {
		equal = func(a, b any) bool { return opt.Equal(as[T](a), as[T](b)) }
	}
	r := internal.GetRuntime()
	n := r.NewComputed(r.CurrentScopeOrRoot(), func() (any, error) {
		return body(), nil
	}, equal, opt.ID, opt.Fallback, opt.HasFallback)
	return &Computed[T]{n: n}
}

// NewComputedErr is NewComputed for a body that can fail; a returned
// error is routed through the scope's error-handler chain exactly like a
// panic from a plain body would be.
func NewComputedErr[T any](body func() (T, error), opts ...ComputedOption[T]) *Computed[T] {
	var opt ComputedOption[T]
	if len(opts) > 0 {
		opt = opts[0]
	}
	var equal func(a, b any) bool
	if opt.Equal != nil {
		equal = func(a, b any) bool { return opt.Equal(as[T](a), as[T](b)) }
	}
	r := internal.GetRuntime()
	n := r.NewComputed(r.CurrentScopeOrRoot(), func() (any, error) {
		v, err := body()
		return v, err
	}, equal, opt.ID, opt.Fallback, opt.HasFallback)
	return &Computed[T]{n: n}
}

// Read returns the derivation's current value, recomputing first if
// dirty, and tracks the caller as an observer.
func (c *Computed[T]) Read() T {
	return as[T](internal.GetRuntime().ReadComputed(c.n))
}

// Readonly is s.Readonly(): a read-only view of s with Write/Next stripped
// from the exposed type. It accepts only a *Signal[T]; there is no variant
// taking a *Computed[T] or any other handle.
func Readonly[T any](s *Signal[T]) *Computed[T] {
	return s.Readonly()
}
