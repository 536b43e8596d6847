package internal

import (
	"fmt"
	"sync"
)

// HostSchedule is how the runtime asks its host to invoke flush on the
// next microtask/event-loop turn (spec.md §1: "the runtime asks the host
// to schedule a callback on the next microtask"). It is deliberately the
// one point of contact with an event loop the runtime does not own.
// scheduler_default.go leaves this nil (the host must drive flushes by
// calling Tick); scheduler_wasm.go wires it to queueMicrotask.
type HostSchedule func(flush func())

// Scheduler is the microtask-coalesced queue described in spec.md §4.5:
// a FIFO pending set (a node enqueues at most once per flush), drained in
// insertion order, with each flush's nodes re-invoked as a read (which
// recomputes only if still dirty).
type Scheduler struct {
	mu sync.Mutex

	host HostSchedule

	pending    []*Node
	scheduled  bool
	flushing   bool
	suppressed int // >0 while a Batch is open: Enqueue does not ask the host to flush
	tick       int64
	lastServed map[*Node]int64
	flushHooks []func()
	startHooks []func(pending []*Node)

	onNodeReady func(*Node) // invoked as a "read" for each drained node
}

func NewScheduler(host HostSchedule) *Scheduler {
	return &Scheduler{
		host:       host,
		lastServed: make(map[*Node]int64),
	}
}

// SetProcessor installs the callback Flush invokes for each drained node.
// The runtime wires this to its own recompute-on-read logic; kept
// separate so the scheduler has no dependency on Computed/Effect shapes.
func (s *Scheduler) SetProcessor(fn func(*Node)) {
	s.onNodeReady = fn
}

// Enqueue adds node to the pending set, preserving first-insertion order,
// and asks the host to schedule a flush if one is not already pending.
func (s *Scheduler) Enqueue(node *Node) {
	s.mu.Lock()
	if node.HasFlag(FlagInPending) {
		s.mu.Unlock()
		return
	}
	node.AddFlag(FlagInPending)
	s.pending = append(s.pending, node)

	alreadyScheduled := s.scheduled
	s.scheduled = true
	suppressed := s.suppressed > 0
	host := s.host
	s.mu.Unlock()

	if alreadyScheduled || suppressed {
		return
	}
	if host != nil {
		host(s.Flush)
	}
	// With no host hook installed, the pending set simply waits for an
	// explicit Tick()/Flush() call — the host drives its own loop.
}

// EnterBatch/ExitBatch bracket a nestable region in which Enqueue will not
// ask the host to schedule a flush (spec.md §1's microtask coalescing,
// extended by the supplemented NewBatch so a host-driven loop doesn't
// flush mid-batch). ExitBatch on the outermost close flushes once if
// anything is still pending.
func (s *Scheduler) EnterBatch() {
	s.mu.Lock()
	s.suppressed++
	s.mu.Unlock()
}

func (s *Scheduler) ExitBatch() {
	s.mu.Lock()
	s.suppressed--
	stillOpen := s.suppressed > 0
	pending := len(s.pending) > 0
	host := s.host
	s.mu.Unlock()

	if stillOpen || !pending {
		return
	}
	if host != nil {
		host(s.Flush)
		return
	}
	s.Flush()
}

// Served reports whether node was enqueued in the current or the most
// recently completed flush.
func (s *Scheduler) Served(node *Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.lastServed[node]
	if !ok {
		return false
	}
	if s.flushing {
		return last == s.tick || last == s.tick-1
	}
	return last == s.tick
}

// OnFlush registers a hook invoked after each flush completes.
func (s *Scheduler) OnFlush(cb func()) {
	s.mu.Lock()
	s.flushHooks = append(s.flushHooks, cb)
	s.mu.Unlock()
}

// OnFlushStart registers a hook invoked with a snapshot of the pending
// set at the moment a flush begins draining it, before any node in the
// snapshot has run. Used by the settled-hook tracker to know which
// effects belong to a flush's first batch.
func (s *Scheduler) OnFlushStart(cb func(pending []*Node)) {
	s.mu.Lock()
	s.startHooks = append(s.startHooks, cb)
	s.mu.Unlock()
}

// Tick synchronously flushes and returns the tick counter.
func (s *Scheduler) Tick() int64 {
	s.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Flush drains the pending set in FIFO order. Nodes enqueued while
// processing earlier nodes (a recompute that dirties its own
// subscribers) are appended to the same slice and processed within the
// same flush, per spec.md §4.5. Re-entrant calls (a node's own
// recomputation writing a source) are no-ops; the outer Flush keeps
// draining.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	s.tick++
	snapshot := append([]*Node(nil), s.pending...)
	startHooks := s.startHooks
	s.mu.Unlock()

	for _, hook := range startHooks {
		hook(snapshot)
	}

	defer func() {
		s.mu.Lock()
		s.flushing = false
		s.scheduled = false
		hooks := s.flushHooks
		s.mu.Unlock()

		for _, hook := range hooks {
			hook()
		}
	}()

	guard := 0
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			break
		}
		node := s.pending[0]
		s.pending = s.pending[1:]
		node.RemoveFlag(FlagInPending)
		s.lastServed[node] = s.tick
		processor := s.onNodeReady
		s.mu.Unlock()

		if !node.IsDisposed() && processor != nil {
			processor(node)
		}

		guard++
		if guard > 1_000_000 {
			s.mu.Lock()
			s.pending = s.pending[:0]
			s.mu.Unlock()
			panic(fmt.Errorf("reactor: possible infinite update loop detected"))
		}
	}
}

// Time returns the current tick counter without flushing.
func (s *Scheduler) Time() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// IsScheduled reports whether a flush is currently pending.
func (s *Scheduler) IsScheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}
