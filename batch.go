package reactor

import "github.com/reactor-go/reactor/internal"

// NewBatch runs fn with scheduler flushes suppressed, then flushes once
// if anything became pending. Nested NewBatch calls only flush when the
// outermost one returns.
func NewBatch(fn func()) {
	internal.GetRuntime().NewBatch(fn)
}

// Peek runs fn with no current observer: reads inside fn add no
// dependency edges, but the current scope (for ownership of anything fn
// creates) is unaffected.
func Peek[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Peek(func() { result = fn() })
	return result
}

// Untrack is Peek without an enclosing scope either: nothing fn creates
// is parented to the caller's scope, and nothing fn reads is tracked.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}
