package internal

import "iter"

// cleanupEntry is a single disposal callback. It is a pointer so OnDispose's
// returned handle can deactivate it without reslicing the owning Node's
// cleanups slice out from under a Dispose that is mid-iteration.
type cleanupEntry struct {
	fn     func()
	active bool
}

func (n *Node) addChild(child *Node) {
	child.parent = n
	child.prevSibling = nil
	child.nextSibling = n.childrenHead

	if n.childrenHead != nil {
		n.childrenHead.prevSibling = child
	}
	n.childrenHead = child
}

func (n *Node) removeChild(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else if n.childrenHead == child {
		n.childrenHead = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}
	child.prevSibling, child.nextSibling = nil, nil
}

// Children iterates n's direct children in most-recently-created-first
// order (matches the teacher's intrusive singly-headed list).
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for c := n.childrenHead; c != nil; c = c.nextSibling {
			if !yield(c) {
				return
			}
		}
	}
}

// Parent returns n's scope parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// OnCleanup registers fn to run once when n is disposed. It returns a
// handle that, if invoked before disposal, runs fn immediately and
// deactivates the entry so Dispose does not run it again.
func (n *Node) OnCleanup(fn func()) func() {
	entry := &cleanupEntry{fn: fn, active: true}
	n.cleanups = append(n.cleanups, entry)

	return func() {
		if !entry.active {
			return
		}
		entry.active = false
		entry.fn()
	}
}

// OnError registers a panic handler on n's local handler chain.
func (n *Node) OnError(fn func(any)) {
	n.catchers = append(n.catchers, fn)
}

// HandleError walks from n up through scope parents looking for a node
// with registered handlers (spec.md §4.6). The first scope that has any
// invokes all of them with the coerced error; if a handler itself panics,
// the search resumes from that scope's parent. Returns true if some
// handler ran.
func HandleError(n *Node, err any) bool {
	ranAny := false
	for scope := n; scope != nil; scope = scope.parent {
		if len(scope.catchers) == 0 {
			continue
		}

		allRan := true
		for _, catcher := range scope.catchers {
			if invokeCatcher(catcher, err) {
				ranAny = true
			} else {
				allRan = false
			}
		}
		if allRan {
			return true
		}
		// a handler in this scope panicked: keep walking from its parent.
	}
	return ranAny
}

func invokeCatcher(catcher func(any), err any) (ran bool) {
	defer func() {
		if recover() != nil {
			ran = false
		}
	}()
	catcher(err)
	return true
}

// GetContext walks n and its scope ancestors looking for key, stopping at
// the root. Returns nil, false if no scope in the chain set it.
func GetContext(n *Node, key any) (any, bool) {
	for scope := n; scope != nil; scope = scope.parent {
		if scope.context == nil {
			continue
		}
		if v, ok := scope.context[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetContext writes key/value on n directly (n is the current scope; no
// hierarchical write). No-op if n is nil.
func SetContext(n *Node, key, value any) {
	if n == nil {
		return
	}
	if n.context == nil {
		n.context = make(map[any]any)
	}
	n.context[key] = value
}

// Dispose synchronously disposes n and its subtree, per spec.md §4.6:
// children first, then n's own cleanups, then detachment from n's parent,
// then the node is marked permanently inert. Safe to call more than once.
func Dispose(n *Node) {
	if n == nil || n.IsDisposed() {
		return
	}

	disposeChildren(n)

	if n.effectCleanup != nil {
		cleanup := n.effectCleanup
		n.effectCleanup = nil
		cleanup()
	}

	cleanups := n.cleanups
	n.cleanups = nil
	for _, entry := range cleanups {
		if entry.active {
			entry.active = false
			entry.fn()
		}
	}

	if n.parent != nil {
		n.parent.removeChild(n)
		n.parent = nil
	}

	n.ClearDeps()
	for l := n.subsHead; l != nil; {
		next := l.nextSub
		l.prevSub, l.nextSub = nil, nil
		l = next
	}
	n.subsHead = nil

	n.AddFlag(FlagDisposed)
}

// disposeChildren detaches n's children before recursing into each one, so
// a child's own Dispose (which tries to remove itself from its parent's
// child list) never mutates the list the caller is iterating.
func disposeChildren(n *Node) {
	head := n.childrenHead
	n.childrenHead = nil

	for c := head; c != nil; {
		next := c.nextSibling
		c.prevSibling, c.nextSibling = nil, nil
		c.parent = nil
		Dispose(c)
		c = next
	}
}
