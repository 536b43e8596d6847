package reactor

import "github.com/reactor-go/reactor/internal"

// Tick synchronously drains the scheduler's pending set and returns the
// resulting tick counter. Effects and dirty derivations that were
// enqueued by a write re-run in the order they were enqueued; anything
// they in turn dirty re-runs within the same Tick.
func Tick() int64 {
	return internal.GetRuntime().Tick()
}

// OnSettled registers a one-shot callback that fires the next time a
// flush fully drains, including every effect that flush's own effects go
// on to schedule by writing further sources.
func OnSettled(fn func()) {
	internal.GetRuntime().OnSettled(fn)
}

// OnUserSettled is OnSettled restricted to plain NewEffect effects: it
// fires once the batch of user effects pending when the flush began has
// run, without waiting for effects that batch goes on to schedule.
func OnUserSettled(fn func()) {
	internal.GetRuntime().OnUserSettled(fn)
}

// OnRenderSettled is OnSettled restricted to NewRenderEffect effects,
// with the same "doesn't wait for cascaded effects" semantics as
// OnUserSettled.
func OnRenderSettled(fn func()) {
	internal.GetRuntime().OnRenderSettled(fn)
}

// Scheduler exposes the runtime's scheduler for diagnostics and
// host-loop integration.
type Scheduler struct {
	s *internal.Scheduler
}

// GetScheduler returns the current goroutine's scheduler.
func GetScheduler() *Scheduler {
	return &Scheduler{s: internal.GetRuntime().Scheduler()}
}

// Tick flushes and returns the tick counter.
func (s *Scheduler) Tick() int64 { return s.s.Tick() }

// Flush drains the pending set synchronously.
func (s *Scheduler) Flush() { s.s.Flush() }

// Time returns the current tick counter without flushing.
func (s *Scheduler) Time() int64 { return s.s.Time() }

// OnFlush registers a repeating hook invoked after every flush.
func (s *Scheduler) OnFlush(cb func()) { s.s.OnFlush(cb) }

// Served reports whether x was enqueued in the current or most recently
// completed flush.
func (s *Scheduler) Served(x handle) bool {
	if x == nil {
		return false
	}
	return s.s.Served(x.node())
}
