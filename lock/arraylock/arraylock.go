// Package arraylock implements an array-based lock: a bounded ring of
// flags coordinates acquisition among up to a fixed number of
// goroutines, each spinning on its own dedicated slot rather than a
// shared atomic. It is not one of the nine algorithms spec.md §2 names
// explicitly, but it is the same family of instructive FIFO spin locks
// as lock/ticket and lock/mcs (a classic array-based/CLH-adjacent
// design), so it is kept and registered in the benchmark matrix as an
// additional educational baseline rather than discarded.
//
// Adapted from the teacher repo's alock package: generalized to size
// itself from runtime.GOMAXPROCS when constructed via NewAuto so it can
// sit in the same registry as the fixed-shape algorithms without the
// caller needing to know the benchmark's thread count in advance.
package arraylock

import (
	"runtime"
	"sync/atomic"

	"github.com/ahrav/lockbench/platform"
	"github.com/ahrav/lockbench/spinwait"
)

// share is the state shared by every Lock handle drawn from the same
// New call.
type share struct {
	_     platform.CacheLinePad
	flags []uint32
	tail  uint32
	held  uint32 // slot currently owned by the goroutine between Lock and Unlock
	size  uint32
	_     platform.CacheLinePad
}

// Lock manages array-lock access for up to `size` concurrent goroutines.
// Unlike the other algorithms in this repository, a single Lock value is
// shared by reference (via New's returned pointer) rather than copied;
// each call to Lock()/Unlock() claims and releases one ring slot.
type Lock struct {
	s *share
}

// New initializes an array lock sized for up to numGoroutines concurrent
// callers. The caller must never have more than numGoroutines goroutines
// holding or waiting on the returned Lock at once — exceeding it makes
// two goroutines share a slot, breaking mutual exclusion, not just
// fairness.
func New(numGoroutines uint32) *Lock {
	s := &share{
		size:  numGoroutines,
		flags: make([]uint32, numGoroutines),
	}
	s.flags[0] = 1
	return &Lock{s: s}
}

// NewAuto sizes the ring from runtime.GOMAXPROCS(0), for callers (such as
// the benchmark driver's registry) that do not know the contending
// goroutine count ahead of time.
func NewAuto() *Lock {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return New(uint32(n))
}

// Lock claims the next slot in the ring and spins until it is signaled.
//
// Precondition: no more than size goroutines hold or wait on this Lock at
// once. New's flags[0] = 1 seed only starts the hand-off ring at slot 0,
// so every slot must be claimed exactly once per lap; exceeding size
// callers makes two goroutines share a slot and both exit the spin on a
// single signal, breaking mutual exclusion rather than merely fairness.
//
// Because arraylock.Lock does not thread a per-call token through to
// Unlock (it satisfies lock.Interface, unlike lock/mcs's explicit QNode),
// the claimed slot is cached in the shared state as s.held once won; that
// store is race-free because it happens only after this goroutine holds
// exclusive ownership of the slot, and the only other reader (Unlock) is
// only ever called by the current holder.
func (l *Lock) Lock() {
	s := l.s
	slot := (atomic.AddUint32(&s.tail, 1) - 1) % s.size

	sw := spinwait.New()
	for atomic.LoadUint32(&s.flags[slot]) == 0 {
		if !sw.Spin() {
			sw.Reset()
		}
	}
	atomic.StoreUint32(&s.held, slot)
}

// Unlock releases the slot most recently claimed by this goroutine and
// signals the next slot in the ring.
func (l *Lock) Unlock() {
	s := l.s
	slot := atomic.LoadUint32(&s.held)
	atomic.StoreUint32(&s.flags[slot], 0)
	next := (slot + 1) % s.size
	atomic.StoreUint32(&s.flags[next], 1)
}

// TryLock attempts to claim the next ring slot without blocking.
func (l *Lock) TryLock() bool {
	s := l.s
	tail := atomic.LoadUint32(&s.tail)
	if atomic.LoadUint32(&s.flags[tail%s.size]) == 1 {
		if atomic.CompareAndSwapUint32(&s.tail, tail, tail+1) {
			atomic.StoreUint32(&s.held, tail%s.size)
			return true
		}
	}
	return false
}
