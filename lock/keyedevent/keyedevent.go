// Package keyedevent implements the NT-keyed-event-style lock of spec.md
// §4.9: a LOCKED bit, a WAKING bit, and a WAITING counter packed into one
// word, with kernel-assisted rendezvous semantics — a wake must be paired
// with a wait — backing the contended path.
//
// Real NtWaitForKeyedEvent/NtReleaseKeyedEvent are Windows-only kernel
// entry points unreachable from pure Go without cgo, so this port backs
// the rendezvous with platform.Futex instead, which gives the same
// property that matters for this lock's contention protocol (a wake
// always targets a specific parked waiter on the watched address) without
// the Windows-specific handle. The lazy process-wide handle
// initialization state machine spec.md §5/§9 describes (uninit →
// in-progress → ready, losers close their handle) is kept as
// ensureKeyedEventHandle below even though there is no real kernel handle
// to create, to preserve the same race-free lazy-init shape the spec
// calls out as a testable concern.
package keyedevent

import (
	"sync/atomic"
	"unsafe"

	"github.com/ahrav/lockbench/platform"
	"github.com/ahrav/lockbench/spinwait"
)

const (
	lockedBit    uint32 = 1 << 0
	wakingBit    uint32 = 1 << 1
	waitingShift        = 2

	waiterSpinThreshold uint32 = 4
)

const (
	handleUninit uint32 = iota
	handleInProgress
	handleReady
)

var keyedEventHandleState atomic.Uint32

// ensureKeyedEventHandle performs the double-checked CAS lazy-init
// spec.md §5 requires for the process-wide keyed-event handle. There is
// no real OS handle in this port (see package doc), so "creating" it is
// a no-op; what matters is that every caller observes the same
// uninit→in-progress→ready transition exactly once, racing callers spin
// rather than proceed early.
func ensureKeyedEventHandle() {
	for {
		switch keyedEventHandleState.Load() {
		case handleReady:
			return
		case handleUninit:
			if keyedEventHandleState.CompareAndSwap(handleUninit, handleInProgress) {
				keyedEventHandleState.Store(handleReady)
				return
			}
		default:
			platform.YieldThread()
		}
	}
}

// Lock is a keyed-event-style lock. The zero value is unlocked.
type Lock struct {
	_     platform.CacheLinePad
	state uint32
	_     platform.CacheLinePad
}

// New returns a new, unlocked Lock.
func New() *Lock { return &Lock{} }

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	old := atomic.LoadUint32(&l.state)
	if old&lockedBit != 0 {
		return false
	}
	return atomic.CompareAndSwapUint32(&l.state, old, old|lockedBit)
}

// Lock acquires the lock. Fast path: bit-set LOCKED. Slow path: bounded
// spin while the waiter count is low, then register as a waiter (bump
// the WAITING counter) and park via platform.Futex; on wake, clear the
// WAKING bit acquired on our behalf and retry from the top.
func (l *Lock) Lock() {
	ensureKeyedEventHandle()

	sw := spinwait.New()
	for {
		old := atomic.LoadUint32(&l.state)
		if old&lockedBit == 0 {
			if atomic.CompareAndSwapUint32(&l.state, old, old|lockedBit) {
				return
			}
			continue
		}

		waiting := old >> waitingShift
		if waiting < waiterSpinThreshold && sw.Spin() {
			continue
		}

		next := ((waiting + 1) << waitingShift) | (old & (lockedBit | wakingBit))
		if !atomic.CompareAndSwapUint32(&l.state, old, next) {
			continue
		}

		platform.FutexWait(unsafe.Pointer(&l.state), func() uint32 { return atomic.LoadUint32(&l.state) }, next)

		l.clearWaking()
		sw.Reset()
	}
}

func (l *Lock) clearWaking() {
	for {
		old := atomic.LoadUint32(&l.state)
		if old&wakingBit == 0 {
			return
		}
		if atomic.CompareAndSwapUint32(&l.state, old, old&^wakingBit) {
			return
		}
	}
}

// Unlock releases the lock. If there are registered waiters and no wake
// is already in flight, it claims WAKING, decrements the waiter count,
// and wakes exactly one parked goroutine — the keyed-event contract of
// a wake always being matched to a wait.
func (l *Lock) Unlock() {
	for {
		old := atomic.LoadUint32(&l.state)
		if atomic.CompareAndSwapUint32(&l.state, old, old&^lockedBit) {
			waiting := old >> waitingShift
			waking := old&wakingBit != 0
			if waiting > 0 && !waking {
				l.wakeOne()
			}
			return
		}
	}
}

func (l *Lock) wakeOne() {
	for {
		cur := atomic.LoadUint32(&l.state)
		waiting := cur >> waitingShift
		if waiting == 0 || cur&wakingBit != 0 {
			return
		}
		next := ((waiting - 1) << waitingShift) | wakingBit | (cur & lockedBit)
		if atomic.CompareAndSwapUint32(&l.state, cur, next) {
			platform.FutexWake(unsafe.Pointer(&l.state), 1)
			return
		}
	}
}
