//go:build wasm

package internal

import "sync"

// wasm has one goroutine that matters (the browser event loop); a single
// shared Runtime, rather than per-goroutine resolution, matches the
// teacher's own runtime_wasm.go.
var once sync.Once
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}

func getGID() int64 { return 0 }
