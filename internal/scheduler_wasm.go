//go:build wasm

package internal

import "syscall/js"

// defaultHostSchedule wires the scheduler's flush request to the
// browser's real microtask queue when compiled for wasm, the same host
// spec.md §1 describes ("the host's microtask/event-loop primitive").
// This mirrors the teacher's runtime_wasm.go / examples/browser-counter
// use of syscall/js, generalized from a singleton runtime to the
// scheduler's HostSchedule hook.
func defaultHostSchedule() HostSchedule {
	return func(flush func()) {
		js.Global().Call("queueMicrotask", js.FuncOf(func(this js.Value, args []js.Value) any {
			flush()
			return nil
		}))
	}
}
