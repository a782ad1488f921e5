// Package wordlock implements a Treiber-stack-queued lock, spec.md §4.6.
// Waiters push themselves onto a stack; on release, the
// releaser walks the stack once to discover (and cache) the true queue
// tail, giving approximate-FIFO wake order from a LIFO push structure.
//
// The spec's reference design packs a LOCKED bit, a WAKING/queue-locked
// bit, and the stack-top pointer into a single machine word so the fast
// path never needs more than one CAS (spec.md §9 "pointer tagging in a
// machine word"). Go's GC forbids stealing bits from a live pointer, so
// this port takes the fallback the spec explicitly sanctions instead: an
// internal spinlock (queueGuard) serializes all stack bookkeeping, while
// the LOCKED bit stays a separate atomic so an uncontended Lock is still
// a single CAS with no queue-lock involvement. Unlock always takes
// queueGuard to inspect the stack, even when it turns out to be empty.
package wordlock

import (
	"sync/atomic"

	"github.com/ahrav/lockbench/platform"
	"github.com/ahrav/lockbench/spinwait"
)

// Lock is a Treiber-stack-queued lock. The zero value is unlocked.
type Lock struct {
	_          platform.CacheLinePad
	locked     atomic.Bool
	queueGuard atomic.Bool
	head       *platform.Waiter // top of the push stack; head.Tail caches the discovered queue tail
	_          platform.CacheLinePad
}

// New returns a new, unlocked Lock.
func New() *Lock { return &Lock{} }

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	return l.locked.CompareAndSwap(false, true)
}

func (l *Lock) lockQueue() {
	sw := spinwait.New()
	for !l.queueGuard.CompareAndSwap(false, true) {
		if !sw.Spin() {
			sw.Reset()
		}
	}
}

func (l *Lock) unlockQueue() {
	l.queueGuard.Store(false)
}

// Lock acquires the lock. Fast path: a single CAS. Slow path: a bounded
// adaptive spin (cheap evidence the lock might free up without touching
// the queue at all), and only once that is exhausted does the goroutine
// push a Waiter onto the stack and block on its Event — but only after
// re-checking, under queueGuard, that the lock is still held (spec.md
// §4.6 step 3's "install conditional on LOCKED"); otherwise Unlock could
// have released and found the queue empty in the gap between the spin
// giving up and the push landing, leaving the waiter parked forever. On
// wake it does not assume ownership — per spec.md §4.6 it resets its
// spin state and re-contends from the top, so a barging fresh acquirer
// can still win.
func (l *Lock) Lock() {
	if l.locked.CompareAndSwap(false, true) {
		return
	}

	sw := spinwait.New()
	for {
		if !l.locked.Load() && l.locked.CompareAndSwap(false, true) {
			return
		}
		if sw.Spin() {
			continue
		}

		w := platform.NewWaiter()
		l.lockQueue()
		if !l.locked.Load() {
			l.unlockQueue()
			sw.Reset()
			continue
		}
		w.Next = l.head
		if l.head == nil {
			w.Tail = w
		} else {
			w.Tail = nil
		}
		l.head = w
		l.unlockQueue()

		w.Event.Wait()
		sw.Reset()
	}
}

// Unlock releases the lock. If the wait stack is non-empty, it performs
// the "link" pass described in spec.md §4.6: walk from head splicing Prev
// pointers until the node carrying a non-nil Tail (the canonical tail) is
// found, cache that tail pointer at head, dequeue it, and notify it. The
// waker never touches the dequeued node again after Notify.
func (l *Lock) Unlock() {
	l.locked.Store(false)

	l.lockQueue()
	if l.head == nil {
		l.unlockQueue()
		return
	}

	node := l.head
	for node.Tail == nil {
		next := node.Next
		next.Prev = node
		node = next
	}
	tail := node.Tail

	if tail.Prev == nil {
		l.head = nil
	} else {
		l.head.Tail = tail.Prev
	}
	l.unlockQueue()

	tail.Event.Notify()
}
