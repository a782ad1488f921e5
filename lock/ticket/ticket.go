// Package ticket provides a fair mutual exclusion lock implementation using a
// ticket-based queuing system. The Lock type ensures FIFO ordering of lock
// acquisition by maintaining a queue of waiting goroutines using ticket
// numbers, while implementing adaptive spinning to balance CPU utilization
// with latency (spec.md §4.4).
package ticket

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ahrav/lockbench/platform"
)

// Lock implements a fair mutual exclusion lock using a ticket-based queuing
// system. The lock maintains a queue of waiting goroutines using ticket
// numbers, ensuring FIFO ordering of lock acquisition.
//
// The internal implementation uses two counters packed into one atomically
// addressable 64-bit word so TryLock can do a single CAS:
//   - head: represents the currently served ticket number
//   - tail: represents the next available ticket number
//
// The lock is free when head == tail+1, and locked otherwise. The struct
// is carefully laid out to keep both counters in one cache-aligned word.
type Lock struct {
	_    platform.CacheLinePad
	head uint32 // Current ticket being served
	tail uint32 // Next ticket to be issued
	_    platform.CacheLinePad
}

// New creates a new ticket Lock.
func New() *Lock { return &Lock{head: 1, tail: 0} }

// TryLock attempts to acquire the lock without blocking. It returns true if
// the lock was acquired successfully, and false if the lock is currently
// held by another goroutine.
func (t *Lock) TryLock() bool {
	me := t.tail
	meNew := me + 1
	return atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&t.head)),
		uint64(me)<<32|uint64(me+1),    // Expected: head should be tail+1 for lock to be free
		uint64(meNew)<<32|uint64(me+1), // New: keep head same, increment tail
	)
}

const (
	ticketBaseWait uint32 = 10
	ticketWaitNext        = 5
)

// Lock acquires the lock using a ticket-based queuing system. It implements
// an adaptive spinning strategy where goroutines wait proportionally to
// their distance from the head of the queue. When a goroutine is far back
// in the queue (>20 positions), it also sleeps after each spin round to
// reduce CPU usage. This provides fair, FIFO ordering of lock acquisition while
// balancing CPU utilization with latency.
func (t *Lock) Lock() {
	myTicket := atomic.AddUint32(&t.tail, 1) // Get our ticket

	// Fast path for uncontended case
	cur := atomic.LoadUint32(&t.head)
	if cur == myTicket {
		return // No spinning needed if we get the lock immediately
	}

	wait := ticketBaseWait
	distancePrev := uint32(1)

	// Spin until it's our turn.
	for {
		cur := atomic.LoadUint32(&t.head)
		if cur == myTicket {
			break // It's our turn.
		}
		distance := subAbs(cur, myTicket) // How many goroutines are in front of us?

		if distance > 1 {
			if distance != distancePrev { // Distance changed, reset the wait time.
				distancePrev = distance
				wait = ticketBaseWait
			}

			// Spin proportionally to the distance from the head.
			// Further back = more iterations of Gosched.
			for range distance * wait {
				platform.PauseCPU()
			}
		} else { // We're next in line; wait a little bit.
			for range ticketWaitNext {
				platform.PauseCPU()
			}
		}

		if distance > 20 { // Sleep if we're far back in the queue.
			time.Sleep(time.Millisecond)
		}
	}
}

// Unlock releases the lock.
func (t *Lock) Unlock() { atomic.AddUint32(&t.head, 1) }

// isFree reports whether the lock is currently free.
func (t *Lock) isFree() bool { return (t.head - t.tail) == 1 }

func subAbs(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
