// Package stacklock implements the simplified word-lock variant of
// spec.md §4.11: an atomic LOCKED bit plus a pure LIFO wait stack, no
// tail-caching link pass. It wakes strictly one waiter per release, in
// LIFO order, and exists as the educational baseline showing why
// lock/wordlock's tail-caching link pass pays off under high contention
// (stacklock can starve the earliest waiter indefinitely; wordlock
// cannot).
package stacklock

import (
	"sync/atomic"

	"github.com/ahrav/lockbench/platform"
	"github.com/ahrav/lockbench/spinwait"
)

// Lock is a LIFO-queued spin/park lock. The zero value is unlocked.
type Lock struct {
	_          platform.CacheLinePad
	locked     atomic.Bool
	queueGuard atomic.Bool
	head       *platform.Waiter
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

func (l *Lock) unlockQueue() { l.queueGuard.Store(false) }

// Lock acquires the lock, falling back to a plain LIFO park once adaptive
// spinning is exhausted. The push is re-validated under queueGuard
// against locked still being held, so a release that empties the stack
// between the spin giving up and the push landing cannot strand the
// waiter on a lock nobody holds anymore.
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
		l.head = w
		l.unlockQueue()

		w.Event.Wait()
		sw.Reset()
	}
}

// Unlock releases the lock and, if the stack is non-empty, pops and
// notifies the most-recently-pushed waiter (LIFO: no tail tracking).
func (l *Lock) Unlock() {
	l.locked.Store(false)

	l.lockQueue()
	top := l.head
	if top != nil {
		l.head = top.Next
	}
	l.unlockQueue()

	if top != nil {
		top.Event.Notify()
	}
}
