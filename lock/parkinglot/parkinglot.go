// Package parkinglot implements the fair, amortized-FIFO parking-lot
// style lock of spec.md §4.10: a small LOCKED/PARKED atomic word guards
// the fast path, and an internal "bucket" owned by each Lock (rather than
// a hashed array of buckets shared across locks; see spec.md §9's open
// question) holds a FIFO queue of waiters plus the bookkeeping
// that makes releases *occasionally* hand off directly to the head
// waiter instead of letting a fresh goroutine barge in.
//
// On each release, if the monotonic clock has passed the bucket's
// current fairness deadline, the release is forced fair (direct handoff,
// keeping LOCKED set) and a new deadline is drawn via xorshift from
// [0, 1ms) — bounding worst-case staleness for the head waiter to
// roughly that window while preserving barging throughput the rest of
// the time.
package parkinglot

import (
	"sync/atomic"

	"github.com/ahrav/lockbench/platform"
	"github.com/ahrav/lockbench/spinwait"
)

const (
	lockedBit uint32 = 1 << 0
	parkedBit uint32 = 1 << 1

	maxFairDelayNs = 1_000_000 // < 1ms, per spec.md §4.10
)

// bucket holds the FIFO wait queue and fairness bookkeeping for one Lock.
// Its own guard is a tiny spinlock — held only long enough to enqueue or
// dequeue a waiter, never across a blocking Event.Wait (spec.md §5).
type bucket struct {
	guard       atomic.Bool
	head, tail  *platform.Waiter
	lastTimeout int64
	seed        uint32
}

// Lock is a parking-lot style fair lock. Use New, not the zero value, so
// the fairness RNG seed is non-zero.
type Lock struct {
	_      platform.CacheLinePad
	state  atomic.Uint32
	bucket bucket
	_      platform.CacheLinePad
}

// New returns a new, unlocked Lock.
func New() *Lock {
	l := &Lock{}
	l.bucket.seed = 0x2545f491
	return l
}

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	return l.state.CompareAndSwap(0, lockedBit)
}

func (l *Lock) lockQueue() {
	sw := spinwait.New()
	for !l.bucket.guard.CompareAndSwap(false, true) {
		if !sw.Spin() {
			sw.Reset()
		}
	}
}

func (l *Lock) unlockQueue() {
	l.bucket.guard.Store(false)
}

func (l *Lock) enqueue(w *platform.Waiter) {
	w.Next = nil
	w.Prev = l.bucket.tail
	if l.bucket.tail != nil {
		l.bucket.tail.Next = w
	} else {
		l.bucket.head = w
	}
	l.bucket.tail = w
}

func (l *Lock) dequeueHead() *platform.Waiter {
	w := l.bucket.head
	if w == nil {
		return nil
	}
	l.bucket.head = w.Next
	if l.bucket.head != nil {
		l.bucket.head.Prev = nil
	} else {
		l.bucket.tail = nil
	}
	return w
}

func xorshift32(x uint32) uint32 {
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

// Lock acquires the lock. Fast path: CAS LOCKED. Slow path: adaptive spin
// while no one has parked yet; once spinning is exhausted, mark PARKED,
// enqueue a waiter at the bucket's tail (re-validating the state word
// under the bucket guard first, in case the lock freed up in the
// meantime), and block on the waiter's Event. A direct handoff
// (w.Acquired == true) means the lock is already ours on wake; otherwise
// the goroutine re-enters the contention loop as a fresh acquirer.
func (l *Lock) Lock() {
	if l.state.CompareAndSwap(0, lockedBit) {
		return
	}

	sw := spinwait.New()
	for {
		cur := l.state.Load()
		if cur&lockedBit == 0 {
			if l.state.CompareAndSwap(cur, cur|lockedBit) {
				return
			}
			continue
		}

		if cur&parkedBit == 0 {
			if sw.Spin() {
				continue
			}
			l.state.CompareAndSwap(cur, cur|parkedBit)
			continue
		}

		w := platform.NewWaiter()
		l.lockQueue()
		if l.state.Load() != (lockedBit | parkedBit) {
			l.unlockQueue()
			sw.Reset()
			continue
		}
		l.enqueue(w)
		l.unlockQueue()

		w.Event.Wait()
		if w.Acquired {
			return
		}
		sw.Reset()
	}
}

// Unlock releases the lock. Fast path: CAS LOCKED→UNLOCKED when the
// bucket looks empty. Slow path: pop the head waiter under the bucket
// guard, decide fairness by comparing the monotonic clock against the
// bucket's deadline, and either hand off directly (be_fair: keep LOCKED
// set, w.Acquired = true) or clear LOCKED and let the woken waiter
// re-contend. The bucket guard is released before notifying the waiter.
func (l *Lock) Unlock() {
	if l.state.CompareAndSwap(lockedBit, 0) {
		return
	}

	l.lockQueue()
	w := l.dequeueHead()
	if w == nil {
		l.unlockQueue()
		l.state.Store(0)
		return
	}

	now := int64(platform.MonotonicNanoseconds())
	beFair := false
	if now > l.bucket.lastTimeout {
		beFair = true
		l.bucket.seed = xorshift32(l.bucket.seed)
		l.bucket.lastTimeout = now + int64(l.bucket.seed%maxFairDelayNs)
	}

	remaining := l.bucket.head != nil
	var next uint32
	if beFair {
		w.Acquired = true
		next = lockedBit
	} else {
		w.Acquired = false
		next = 0
	}
	if remaining {
		next |= parkedBit
	}
	l.state.Store(next)
	l.unlockQueue()

	w.Event.Notify()
}
