// Package spinlock implements the baseline test-and-set spin lock from
// spec.md §2's lock family list: a single atomic boolean, acquired by
// unconditional CAS retry with no backoff whatsoever. It exists as the
// "how bad can it get" reference point the other algorithms are compared
// against — lock/adaptive implements the same state machine with the
// backoff policy spec.md §4.3 actually prescribes.
//
// Adapted in the teacher's idiom (plain atomic state, no queue, TryLock
// alongside Lock/Unlock) from the teacher repo's ticket and mcs packages.
package spinlock

import (
	"sync/atomic"

	"github.com/ahrav/lockbench/platform"
)

// Lock is a test-and-set spin lock. The zero value is unlocked.
type Lock struct {
	_      platform.CacheLinePad
	locked atomic.Bool
	_      platform.CacheLinePad
}

// New returns a new, unlocked Lock.
func New() *Lock { return &Lock{} }

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	return l.locked.CompareAndSwap(false, true)
}

// Lock acquires the lock, retrying an unconditional CAS with no backoff.
// Fairness: none; a goroutine may starve indefinitely under contention.
// This is intentional — it is the baseline spec.md §4.3 describes.
func (l *Lock) Lock() {
	for !l.locked.CompareAndSwap(false, true) {
		// Deliberately no backoff: this is the worst-case baseline.
	}
}

// Unlock releases the lock.
func (l *Lock) Unlock() {
	l.locked.Store(false)
}
