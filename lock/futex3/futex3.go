// Package futex3 implements the three-state futex lock of spec.md §4.7:
// UNLOCKED=0, LOCKED=1, CONTENDED=2. The slow path parks via
// platform.Futex rather than spinning indefinitely, trading a few more
// atomic writes on the contended path for no userspace wait-queue
// structure at all. Fairness: none — a woken waiter competes with any
// fresh, barging acquirer.
package futex3

import (
	"sync/atomic"
	"unsafe"

	"github.com/ahrav/lockbench/platform"
	"github.com/ahrav/lockbench/spinwait"
)

const (
	unlocked  uint32 = 0
	acquired  uint32 = 1
	contended uint32 = 2
)

// Lock is a 3-state futex lock. The zero value is unlocked. state is a
// plain uint32 (not atomic.Uint32) so its address can be handed to
// platform.FutexWait/FutexWake as the watched word.
type Lock struct {
	_     platform.CacheLinePad
	state uint32
	_     platform.CacheLinePad
}

// New returns a new, unlocked Lock.
func New() *Lock { return &Lock{} }

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&l.state, unlocked, acquired)
}

// Lock acquires the lock. Fast path: CAS 0→1. Slow path: a small bounded
// adaptive spin while the state has not yet been marked CONTENDED, then a
// swap-to-CONTENDED loop parking on platform.Futex whenever the swap does
// not observe UNLOCKED. The lock is intentionally pessimistic on wake:
// once a goroutine has gone through the CONTENDED path it keeps marking
// the state CONTENDED on every acquire until uncontended again, so
// Unlock always knows whether a wake is owed.
func (l *Lock) Lock() {
	if atomic.CompareAndSwapUint32(&l.state, unlocked, acquired) {
		return
	}

	sw := spinwait.New()
	for atomic.LoadUint32(&l.state) != contended {
		if atomic.CompareAndSwapUint32(&l.state, unlocked, acquired) {
			return
		}
		if !sw.Spin() {
			break
		}
	}

	for {
		prev := atomic.SwapUint32(&l.state, contended)
		if prev == unlocked {
			return
		}
		platform.FutexWait(unsafe.Pointer(&l.state), func() uint32 { return atomic.LoadUint32(&l.state) }, contended)
	}
}

// Unlock releases the lock. If the prior state was CONTENDED, a waiter
// may be parked and is woken via platform.Futex; otherwise the release is
// a single uncontended store.
func (l *Lock) Unlock() {
	if atomic.SwapUint32(&l.state, unlocked) == contended {
		platform.FutexWake(unsafe.Pointer(&l.state), 1)
	}
}
