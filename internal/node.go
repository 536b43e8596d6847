package internal

import (
	"iter"
	"sync/atomic"
)

// Kind distinguishes what a Node is used for. Every reactive entity and
// every scope in the runtime is backed by the same Node record; Kind only
// changes which fields are meaningful and how recomputation behaves.
type Kind uint8

const (
	KindScope Kind = iota
	KindSource
	KindComputed
	KindEffect
)

type NodeFlags uint8

const (
	FlagNone      NodeFlags = 0
	FlagDirty     NodeFlags = 1 << 0 // next read must recompute
	FlagDisposed  NodeFlags = 1 << 1 // permanently inert
	FlagInHeap    NodeFlags = 1 << 2 // currently queued on a PriorityHeap
	FlagInPending NodeFlags = 1 << 3 // currently in the scheduler's pending set
	FlagCheck     NodeFlags = 1 << 4 // an upstream dependency moved; verify before recomputing
)

var nodeSeq atomic.Int64

// Node is the uniform record described by the data model: depending on
// Kind it plays the role of source, derivation, effect, or bare scope, and
// it always plays the role of a scope-tree member owning disposal.
type Node struct {
	ID    int64
	Label string
	Kind  Kind

	flags  NodeFlags
	height int

	// subsHead lists the nodes that read this node during their last run
	// (observers, spec.md §3); depsHead lists the nodes this node itself
	// last read. Only the observers direction needs traversing on write,
	// but both are materialised so ClearDeps can prune cheaply.
	subsHead *link
	depsHead *link

	// scope tree: every non-root node has exactly one parent (invariant 2).
	parent       *Node
	prevSibling  *Node
	nextSibling  *Node
	childrenHead *Node

	cleanups []func()
	catchers []func(any)
	context  map[any]any

	// reactive state, meaningful for KindSource/KindComputed/KindEffect.
	value   any
	equal   func(a, b any) bool
	version int64 // bumped each time value actually changes; lets a two-hop+ observer tell whether an intermediate dependency's output moved without re-running its own body

	compute     func() (any, error)
	fallback    any
	hasFallback bool
	initialized bool

	// effect-only: the cleanup returned by the previous run, if any, and
	// which settled-queue this effect belongs to.
	effectCleanup func()
	effectKind    EffectKind
}

// NewNode allocates a bare node of the given kind, parented to parent (nil
// for a root). The caller is responsible for wiring it into the
// scheduler/tracker as needed.
func NewNode(kind Kind, parent *Node) *Node {
	n := &Node{
		ID:     nodeSeq.Add(1),
		Kind:   kind,
		parent: parent,
	}
	if parent != nil {
		parent.addChild(n)
	}
	return n
}

func (n *Node) HasFlag(f NodeFlags) bool { return n.flags&f != 0 }
func (n *Node) AddFlag(f NodeFlags)      { n.flags |= f }
func (n *Node) RemoveFlag(f NodeFlags)   { n.flags &^= f }
func (n *Node) IsDisposed() bool         { return n.HasFlag(FlagDisposed) }
func (n *Node) IsDirty() bool            { return n.HasFlag(FlagDirty) }
func (n *Node) MarkDirty()               { n.AddFlag(FlagDirty) }
func (n *Node) ClearDirty()              { n.RemoveFlag(FlagDirty) }
func (n *Node) GetHeight() int           { return n.height }

// Link creates a bidirectional dependency edge sub -> dep ("sub reads
// dep"). A node never links to the same dependency twice in a row: if the
// most-recently-added dependency is already dep, the call is a no-op,
// which is the common case of a loop reading the same signal repeatedly
// within one tracked body. Only consecutive repeats are skipped: reading
// a, b, a adds a second edge to a.
func Link(sub, dep *Node) {
	if sub.depsHead != nil {
		tail := sub.depsHead.prevDep
		if tail.dep == dep {
			return
		}
	}

	l := &link{dep: dep, sub: sub, depVersion: dep.version}
	sub.addDepLink(l)
	dep.addSubLink(l)

	if dep.height >= sub.height {
		sub.height = dep.height + 1
	}
}

// Subs iterates the nodes currently observing n.
func (n *Node) Subs() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for l := n.subsHead; l != nil; l = l.nextSub {
			if !yield(l.sub) {
				return
			}
		}
	}
}

// Deps iterates the nodes n currently depends on.
func (n *Node) Deps() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for l := n.depsHead; l != nil; l = l.nextDep {
			if !yield(l.dep) {
				return
			}
		}
	}
}

// ClearDeps removes every dependency edge from n, pruning n out of each
// dependency's subscriber list as it goes. Called before each
// recomputation so the new run rediscovers its dependency set from
// scratch (dynamic dependencies, spec.md §4.3).
func (n *Node) ClearDeps() {
	for l := n.depsHead; l != nil; {
		next := l.nextDep
		l.dep.removeSubLink(l)
		l = next
	}
	n.depsHead = nil
}

func (n *Node) addDepLink(l *link) {
	if n.depsHead == nil {
		n.depsHead = l
		l.prevDep = l
		l.nextDep = nil
		return
	}
	tail := n.depsHead.prevDep
	tail.nextDep = l
	l.prevDep = tail
	l.nextDep = nil
	n.depsHead.prevDep = l
}

func (n *Node) addSubLink(l *link) {
	if n.subsHead == nil {
		n.subsHead = l
		l.prevSub = l
		l.nextSub = nil
		return
	}
	tail := n.subsHead.prevSub
	tail.nextSub = l
	l.prevSub = tail
	l.nextSub = nil
	n.subsHead.prevSub = l
}

func (n *Node) removeSubLink(l *link) {
	if l.prevSub == l {
		n.subsHead = nil
		l.prevSub, l.nextSub = nil, nil
		return
	}

	if l == n.subsHead {
		n.subsHead = l.nextSub
	} else {
		l.prevSub.nextSub = l.nextSub
	}

	if l.nextSub != nil {
		l.nextSub.prevSub = l.prevSub
	} else {
		n.subsHead.prevSub = l.prevSub
	}

	l.prevSub, l.nextSub = nil, nil
}
