package reactor

import "github.com/reactor-go/reactor/internal"

// DumpScope renders a scope's ownership subtree as an ASCII tree: every
// source, derivation, effect, and nested scope it (transitively) owns.
// Intended for debugging, not for parsing.
func DumpScope(s *Scope) string {
	if s == nil {
		return internal.DumpScope(internal.GetRuntime().Root())
	}
	return internal.DumpScope(s.n)
}

// DumpGraph renders x's current dependency graph (what it transitively
// read on its last run) as an ASCII tree.
func DumpGraph(x handle) string {
	if x == nil {
		return "(nil)"
	}
	return internal.DumpGraph(x.node())
}

// DumpByHeight groups the given reactive values by graph height (their
// distance from the sources they ultimately depend on) and lists them in
// that order — the order a height-ordered drain would visit them in,
// useful for seeing why one derivation recomputed before another without
// reading the live scheduler's FIFO order. Values at the same height are
// listed alphabetically by label/id. Purely diagnostic: it has no effect
// on flush order, which is always strict FIFO (spec.md §4.5).
func DumpByHeight(xs ...handle) string {
	h := internal.NewHeap()
	for _, x := range xs {
		if x == nil {
			continue
		}
		h.Insert(x.node())
	}
	return internal.DumpByHeight(h)
}
