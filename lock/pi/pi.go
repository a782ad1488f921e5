// Package pi implements the priority-inheriting lock contract of spec.md
// §4.8: the state word holds either 0 (free) or the current owner's
// thread identity, with a high bit set whenever a waiter may be parked
// (the spec's FUTEX_WAITERS bit).
//
// The real algorithm relies on two things userspace Go cannot reach
// without cgo: a kernel-assigned thread id, and the futex(2) LOCK_PI /
// UNLOCK_PI syscalls that boost a lock owner's scheduling priority to
// that of the highest-priority waiter. This port keeps the exact
// state-word encoding and CAS/park algorithm, substituting:
//   - a process-wide Token (see NewToken) for the cached OS thread id —
//     the same shape as lock/mcs's explicit *QNode argument, standing in
//     for "cache the thread id in thread-local storage" (spec.md §9);
//   - platform.Futex for the PI syscalls.
// The priority-inheritance property itself (owner's scheduling priority
// raised to the highest waiter's) is therefore not reproduced — see
// DESIGN.md's Open Questions for why, and treat this package as modeling
// the PI lock's *data structure and contention protocol*, not its
// real-time scheduling guarantee.
package pi

import (
	"sync/atomic"
	"unsafe"

	"github.com/ahrav/lockbench/platform"
	"github.com/ahrav/lockbench/spinwait"
)

const waitersBit uint32 = 1 << 31

var tokenCounter atomic.Uint32

// Token stands in for a cached OS thread id (spec.md §9 "per-thread
// state"). Each goroutine that will call Lock/Unlock should allocate one
// Token via NewToken and reuse it for the goroutine's lifetime, exactly
// as lock/mcs callers reuse one QNode per goroutine.
type Token struct {
	id uint32
}

// NewToken allocates a fresh, process-unique, non-zero identity.
func NewToken() *Token {
	id := tokenCounter.Add(1)
	for id == 0 || id&waitersBit != 0 {
		id = tokenCounter.Add(1)
	}
	return &Token{id: id}
}

// Lock is a priority-inheriting-style lock. The zero value is unlocked.
type Lock struct {
	_     platform.CacheLinePad
	state uint32
	_     platform.CacheLinePad
}

// New returns a new, unlocked Lock.
func New() *Lock { return &Lock{} }

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock(tok *Token) bool {
	return atomic.CompareAndSwapUint32(&l.state, 0, tok.id)
}

// Lock acquires the lock for the identity tok. Fast path: CAS 0→tid.
// Slow path: a bounded spin while the lock looks uncontended, then a
// swap-to-(tid|waitersBit) loop parking on platform.Futex — the port of
// "invoke the PI locking syscall, retrying on EAGAIN" (spec.md §4.8):
// here, a park that observes the word changed plays the role of the
// kernel retrying the syscall on our behalf.
func (l *Lock) Lock(tok *Token) {
	if atomic.CompareAndSwapUint32(&l.state, 0, tok.id) {
		return
	}

	sw := spinwait.New()
	for atomic.LoadUint32(&l.state)&waitersBit == 0 {
		if atomic.CompareAndSwapUint32(&l.state, 0, tok.id) {
			return
		}
		if !sw.Spin() {
			break
		}
	}

	for {
		prev := atomic.SwapUint32(&l.state, tok.id|waitersBit)
		if prev == 0 {
			return
		}
		platform.FutexWait(unsafe.Pointer(&l.state), func() uint32 { return atomic.LoadUint32(&l.state) }, prev)
	}
}

// Unlock releases the lock held by tok. Fast path: CAS tid→0. If a
// waiter may be parked (the waitersBit was set), wakes exactly one via
// platform.Futex — the port of invoking the PI unlocking syscall.
func (l *Lock) Unlock(tok *Token) {
	if atomic.CompareAndSwapUint32(&l.state, tok.id, 0) {
		return
	}
	if atomic.SwapUint32(&l.state, 0)&waitersBit != 0 {
		platform.FutexWake(unsafe.Pointer(&l.state), 1)
	}
}

// Adapter binds one goroutine's private Token to a shared *Lock,
// satisfying lock.Interface for callers that only know how to drive the
// zero-argument Lock()/Unlock()/TryLock() contract. Construct one
// Adapter per goroutine via NewAdapter; every Adapter sharing the same
// *Lock contends for the same owner word.
type Adapter struct {
	lock *Lock
	tok  *Token
}

// NewAdapter returns an Adapter for one goroutine's exclusive use,
// contending on shared.
func NewAdapter(shared *Lock) *Adapter { return &Adapter{lock: shared, tok: NewToken()} }

func (a *Adapter) Lock()         { a.lock.Lock(a.tok) }
func (a *Adapter) Unlock()       { a.lock.Unlock(a.tok) }
func (a *Adapter) TryLock() bool { return a.lock.TryLock(a.tok) }
