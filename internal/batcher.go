package internal

// Batcher tracks nested batch regions: each entry increases depth by one,
// and only the outermost exit triggers a flush, grounded in the teacher's
// depth-counted Batcher adapted to the new Scheduler's suppression hook.
type Batcher struct {
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Batch runs fn with scheduler flushes suppressed; nested calls simply
// increase depth. enter/exit bracket the scheduler's own suppression
// counter so Enqueue calls made by fn do not trigger a host flush until
// the outermost Batch call returns.
func (b *Batcher) Batch(enter, exit func(), fn func()) {
	b.depth++
	enter()
	defer func() {
		b.depth--
		exit()
	}()

	fn()
}

// NewBatch runs fn inside a batch region on the runtime's scheduler.
func (r *Runtime) NewBatch(fn func()) {
	r.batcher.Batch(r.scheduler.EnterBatch, r.scheduler.ExitBatch, fn)
}
