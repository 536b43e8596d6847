package internal

import "sync"

// settledTracker implements the three settled-notification hooks
// (OnSettled/OnUserSettled/OnRenderSettled), a feature the public API
// supplements beyond spec.md's core scheduler contract, grounded in the
// teacher's sig_settled_test.go. Each registration is one-shot: it fires
// once, the next time its condition is met, then is discarded.
//
// OnSettled waits for the entire flush to fully drain, including any
// effects it cascades into writing more sources — this is exactly
// Scheduler's own end-of-flush point, so the global queue is driven by
// Scheduler.OnFlush.
//
// OnRenderSettled/OnUserSettled only wait for the batch of render/user
// effects that were already pending when the flush began; effects that
// batch itself goes on to schedule (by writing a source) are a later
// batch and do not delay the hook, per sig_settled_test.go's
// "does not wait for chained effects" cases.
type settledTracker struct {
	mu sync.Mutex

	active            bool
	renderOutstanding int
	userOutstanding   int

	globalOnce []func()
	renderOnce []func()
	userOnce   []func()
}

func newSettledTracker() *settledTracker { return &settledTracker{} }

func runAll(hooks []func()) {
	for _, h := range hooks {
		h()
	}
}

func (t *settledTracker) AddGlobal(cb func()) {
	t.mu.Lock()
	t.globalOnce = append(t.globalOnce, cb)
	t.mu.Unlock()
}

func (t *settledTracker) AddRender(cb func()) {
	t.mu.Lock()
	t.renderOnce = append(t.renderOnce, cb)
	hooks := t.popRenderLocked()
	t.mu.Unlock()
	runAll(hooks)
}

func (t *settledTracker) AddUser(cb func()) {
	t.mu.Lock()
	t.userOnce = append(t.userOnce, cb)
	hooks := t.popUserLocked()
	t.mu.Unlock()
	runAll(hooks)
}

// BeginFlush snapshots, from the nodes already pending, how many render
// and user effects this flush's first batch contains.
func (t *settledTracker) BeginFlush(pending []*Node) {
	t.mu.Lock()
	t.active = true
	t.renderOutstanding, t.userOutstanding = 0, 0
	for _, n := range pending {
		if n.Kind != KindEffect {
			continue
		}
		switch n.effectKind {
		case EffectKindRender:
			t.renderOutstanding++
		case EffectKindUser:
			t.userOutstanding++
		}
	}
	renderHooks := t.popRenderLocked()
	userHooks := t.popUserLocked()
	t.mu.Unlock()
	runAll(renderHooks)
	runAll(userHooks)
}

// markRun records that an effect ran to completion. Priming (an effect's
// first run, made directly from its constructor rather than from a
// flush) and effects cascaded into existence after this flush's snapshot
// was taken are both ignored — active is only true, and only this
// batch's counts matter, while Scheduler.Flush is draining the batch
// BeginFlush observed.
func (t *settledTracker) markRun(n *Node) {
	if n.Kind != KindEffect {
		return
	}
	t.mu.Lock()
	var renderHooks, userHooks []func()
	if t.active {
		switch n.effectKind {
		case EffectKindRender:
			if t.renderOutstanding > 0 {
				t.renderOutstanding--
				renderHooks = t.popRenderLocked()
			}
		case EffectKindUser:
			if t.userOutstanding > 0 {
				t.userOutstanding--
				userHooks = t.popUserLocked()
			}
		}
	}
	t.mu.Unlock()
	runAll(renderHooks)
	runAll(userHooks)
}

// EndFlush fires every pending global settled hook, once, after a flush
// has fully drained (wired to Scheduler.OnFlush).
func (t *settledTracker) EndFlush() {
	t.mu.Lock()
	t.active = false
	hooks := t.globalOnce
	t.globalOnce = nil
	t.mu.Unlock()
	runAll(hooks)
}

func (t *settledTracker) popRenderLocked() []func() {
	if t.active && t.renderOutstanding == 0 && len(t.renderOnce) > 0 {
		hooks := t.renderOnce
		t.renderOnce = nil
		return hooks
	}
	return nil
}

func (t *settledTracker) popUserLocked() []func() {
	if t.active && t.userOutstanding == 0 && len(t.userOnce) > 0 {
		hooks := t.userOnce
		t.userOnce = nil
		return hooks
	}
	return nil
}
