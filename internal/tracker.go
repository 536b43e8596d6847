package internal

import "sync"

// Tracker owns the two ambient slots spec.md §4.1 requires: the node
// whose dependencies are being recorded ("current observer") and the
// node that owns newly created reactive entities ("current scope"). Both
// are restored on every exit path of a tracked execution, including a
// panic, via defer.
//
// A Tracker belongs to exactly one Runtime, which in turn is resolved per
// calling goroutine (runtime_default.go/runtime_wasm.go), but Node values
// themselves are ordinary shared pointers: a Signal created on one
// goroutine can be Read/Written from another. execGID guards against the
// narrow race where a background goroutine observes this Tracker's
// ambient slots mid-mutation from the goroutine actually running a
// tracked body, and would otherwise record a bogus dependency edge.
type Tracker struct {
	mu sync.Mutex

	tracking        bool
	execGID         int64
	currentScope    *Node
	currentObserver *Node
}

func NewTracker() *Tracker {
	return &Tracker{tracking: true}
}

func (t *Tracker) CurrentScope() *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentScope
}

func (t *Tracker) CurrentObserver() *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentObserver
}

// RunWithScope runs fn with scope installed as the current scope, leaving
// the current observer untouched. Used by Root/Scope.Run, which manage
// lifetime but never themselves read reactive values.
func (t *Tracker) RunWithScope(scope *Node, fn func()) {
	t.mu.Lock()
	prevScope := t.currentScope
	t.currentScope = scope
	t.execGID = getGID()
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.currentScope = prevScope
		t.mu.Unlock()
	}()

	fn()
}

// Compute is the helper spec.md §4.1 names explicitly: it saves both
// ambient slots, installs scope and observer, runs body, and restores the
// previous slots on every exit path (normal return or panic).
func (t *Tracker) Compute(scope, observer *Node, body func()) {
	t.mu.Lock()
	prevScope := t.currentScope
	prevObserver := t.currentObserver
	t.currentScope = scope
	t.currentObserver = observer
	t.execGID = getGID()
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.currentScope = prevScope
		t.currentObserver = prevObserver
		t.mu.Unlock()
	}()

	body()
}

// Peek runs fn with no current observer (so reads inside fn add no
// dependency edges) but keeps the current scope, so nodes created inside
// fn are still owned by the enclosing scope.
func (t *Tracker) Peek(fn func()) {
	t.mu.Lock()
	prevObserver := t.currentObserver
	t.currentObserver = nil
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.currentObserver = prevObserver
		t.mu.Unlock()
	}()

	fn()
}

// Untrack runs fn with neither a current observer nor a current scope:
// no dependency edges, no ownership.
func (t *Tracker) Untrack(fn func()) {
	t.mu.Lock()
	prevScope := t.currentScope
	prevObserver := t.currentObserver
	t.currentScope = nil
	t.currentObserver = nil
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.currentScope = prevScope
		t.currentObserver = prevObserver
		t.mu.Unlock()
	}()

	fn()
}

// Track registers the current observer (if any, and if tracking is
// enabled and this call is on the same goroutine that installed the
// ambient state) as an observer of dep.
func (t *Tracker) Track(dep *Node) {
	t.mu.Lock()
	observer := t.currentObserver
	should := observer != nil && t.tracking && getGID() == t.execGID
	t.mu.Unlock()

	if should {
		Link(observer, dep)
	}
}

// ShouldTrack reports whether a read happening right now would register a
// dependency, without performing the registration.
func (t *Tracker) ShouldTrack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentObserver != nil && t.tracking && getGID() == t.execGID
}
