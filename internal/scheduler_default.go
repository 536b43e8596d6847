//go:build !wasm

package internal

// defaultHostSchedule is nil outside wasm: there is no ambient
// microtask queue to hook into, so the host must drive the scheduler by
// calling Tick (or Flush) itself on whatever loop it already runs (a
// custom GUI toolkit, a game loop, a server's request cycle).
func defaultHostSchedule() HostSchedule {
	return nil
}
