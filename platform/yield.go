// Package platform provides the OS-facing primitives the lock algorithms
// build on: a monotonic clock, CPU pause / thread yield hints, a
// single-producer single-consumer blocking Event, and a Futex-style
// wait/wake word. Everything here is pure Go; there is no cgo and no raw
// syscalls, so the same code path runs on every GOOS/GOARCH the Go
// toolchain supports.
package platform

import "runtime"

// PauseCPU stands in for a CPU-level "this is a spin loop" hint. Go does
// not expose the bare PAUSE/YIELD instruction to userspace without
// assembly, so this calls runtime.Gosched(), which is the idiomatic
// stand-in used throughout the corpus (see lock/ticket and lock/mcs,
// adapted from the teacher repo); no pause instruction is issued.
func PauseCPU() {
	runtime.Gosched()
}

// YieldThread asks the OS scheduler to run another goroutine/thread,
// analogous to sched_yield(2). In Go this is runtime.Gosched as well;
// there is no separate "thread yield" syscall reachable without cgo.
func YieldThread() {
	runtime.Gosched()
}
