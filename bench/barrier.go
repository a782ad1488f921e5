package bench

import (
	"sync/atomic"
	"unsafe"

	"github.com/ahrav/lockbench/platform"
)

const (
	barrierIdle    uint32 = 0
	barrierRunning uint32 = 1
	barrierStopped uint32 = 2
)

// Barrier realizes the start/stop coordination of spec.md §4.12 steps
// 2-3: the driver initializes a Barrier at state Idle, every worker
// calls Wait (which futex-blocks on state == Idle), the driver then
// stores Running and wakes all, sleeps for the measurement duration,
// then stores Stopped and wakes all again.
//
// The state word is a plain uint32 rather than atomic.Uint32 so its
// address can be handed to platform.FutexWait/FutexWake directly, the
// same choice lock/futex3 makes for its state word.
type Barrier struct {
	_     platform.CacheLinePad
	state uint32
	_     platform.CacheLinePad
}

// NewBarrier returns a Barrier in the idle state.
func NewBarrier() *Barrier { return &Barrier{} }

// Wait blocks the calling worker until the barrier leaves the idle
// state (spec.md §4.12 step 2: "each worker calls barrier.wait() which
// futex-blocks on state==0").
func (b *Barrier) Wait() {
	for {
		if atomic.LoadUint32(&b.state) != barrierIdle {
			return
		}
		platform.FutexWait(unsafe.Pointer(&b.state), func() uint32 {
			return atomic.LoadUint32(&b.state)
		}, barrierIdle)
	}
}

// Start flips the barrier to Running and wakes every parked worker.
func (b *Barrier) Start() {
	atomic.StoreUint32(&b.state, barrierRunning)
	platform.FutexWake(unsafe.Pointer(&b.state), 1<<30)
}

// Stop flips the barrier to Stopped and wakes every parked worker,
// ending the measurement window. Workers observe this by polling
// Running, not by waking from a wait, matching spec.md §4.12's "loop
// until barrier state != 1".
func (b *Barrier) Stop() {
	atomic.StoreUint32(&b.state, barrierStopped)
	platform.FutexWake(unsafe.Pointer(&b.state), 1<<30)
}

// Running reports whether the barrier is still inside the measurement
// window.
func (b *Barrier) Running() bool {
	return atomic.LoadUint32(&b.state) == barrierRunning
}
