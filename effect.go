package reactor

import "github.com/reactor-go/reactor/internal"

// EffectBody is the union spec.md §4.4 allows: a plain side-effecting
// body, or one that returns a cleanup run just before its next re-run and
// at disposal.
type EffectBody interface {
	func() | func() internal.CleanupFunc
}

// Effect is the handle NewEffect/NewRenderEffect return: a stop function
// plus the disposability every other reactive value has.
type Effect struct {
	n *internal.Node
}

func (e *Effect) node() *internal.Node { return e.n }

// Stop disposes the effect: its latest cleanup runs, then it is detached
// and will never run again.
func (e *Effect) Stop() { internal.GetRuntime().StopEffect(e.n) }

func toEffectBody[B EffectBody](body B) func() (internal.CleanupFunc, error) {
	switch fn := any(body).(type) {
	case func():
		return func() (internal.CleanupFunc, error) {
			fn()
			return nil, nil
		}
	case func() internal.CleanupFunc:
		return func() (internal.CleanupFunc, error) {
			return fn(), nil
		}
	default:
		panic("reactor: unreachable effect body shape")
	}
}

// NewEffect runs body once immediately, then again every time one of its
// dependencies (read during the most recent run) changes. body may
// optionally return a CleanupFunc, run just before the next re-run and at
// Stop.
func NewEffect[B EffectBody](body B, ids ...string) *Effect {
	return newEffect(internal.EffectKindUser, toEffectBody(body), ids)
}

// NewRenderEffect is NewEffect for the "render" settled queue
// (OnRenderSettled waits only for these; OnUserSettled only for plain
// NewEffect ones). Use it for effects that must finish before a host
// paints, keeping arbitrary user-level side effects from delaying that.
func NewRenderEffect[B EffectBody](body B, ids ...string) *Effect {
	return newEffect(internal.EffectKindRender, toEffectBody(body), ids)
}

func newEffect(kind internal.EffectKind, body func() (internal.CleanupFunc, error), ids []string) *Effect {
	id := ""
	if len(ids) > 0 {
		id = ids[0]
	}
	r := internal.GetRuntime()
	n := r.NewEffect(r.CurrentScopeOrRoot(), kind, body, id)
	return &Effect{n: n}
}
