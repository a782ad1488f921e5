// Package mcs implements the Mellor-Crummey & Scott (MCS) lock, a scalable
// FIFO queue-based spin lock (spec.md §4.5).
//
// An MCS lock provides several advantages over a plain spin lock:
//   - FIFO ordering ensures fair lock acquisition
//   - Each goroutine spins on its own local node, reducing memory
//     contention and cache invalidation
//   - Memory usage scales with the number of goroutines contending
//   - Predictable performance under high contention
//
// Each goroutine must supply its own QNode instance, and a single QNode
// must not be used concurrently by more than one goroutine. Because MCS's
// fast path needs a per-waiter node to publish a "signal me" flag to its
// predecessor, Lock/Unlock take a *QNode explicitly instead of satisfying
// lock.Interface.
package mcs

import (
	"sync/atomic"

	"github.com/ahrav/lockbench/platform"
)

// QNode represents a queue node in the MCS lock.
type QNode struct {
	next    atomic.Pointer[QNode]
	waiting uint32
}

// Lock represents the MCS lock.
type Lock struct {
	_    platform.CacheLinePad
	tail atomic.Pointer[QNode]
	_    platform.CacheLinePad
}

// New creates a new MCS lock.
func New() *Lock { return new(Lock) }

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false otherwise.
func (l *Lock) TryLock(node *QNode) bool {
	node.next.Store(nil)
	return l.tail.CompareAndSwap(nil, node)
}

// Lock acquires the lock, queuing behind node's predecessor if the lock
// is already held. Publication order: the predecessor's next pointer is
// release-stored (Store) and the successor acquire-loads its own waiting
// flag in a spin loop, giving the happens-before edge spec.md §4.5
// requires between "publisher: release-store next" and
// "waker: acquire-load next".
func (l *Lock) Lock(node *QNode) {
	node.next.Store(nil)
	pred := l.tail.Swap(node) // Atomically put ourselves at the tail.

	if pred == nil { // No predecessor: lock acquired.
		return
	}

	// Someone else is holding the lock; wait for our predecessor to
	// signal us.
	atomic.StoreUint32(&node.waiting, 1)
	pred.next.Store(node) // Link to predecessor.

	// Spin until our predecessor clears our waiting flag.
	for atomic.LoadUint32(&node.waiting) != 0 {
		platform.PauseCPU()
	}
}

// Unlock releases the lock, handing off directly to the successor node if
// one has linked itself in, or clearing the tail if the queue is empty.
func (l *Lock) Unlock(node *QNode) {
	if node.next.Load() == nil {
		// No visible successor yet; try to clear the tail.
		if l.tail.CompareAndSwap(node, nil) {
			return
		}

		// A successor is in the process of enqueuing; wait for it to
		// publish its node, then hand off.
		for {
			succ := node.next.Load()
			if succ != nil {
				atomic.StoreUint32(&succ.waiting, 0) // Signal successor.
				return
			}
			platform.PauseCPU()
		}
	}

	succ := node.next.Load()
	atomic.StoreUint32(&succ.waiting, 0)
}

// IsFree reports whether the lock is currently free.
func (l *Lock) IsFree() bool { return l.tail.Load() == nil }

// Adapter binds one goroutine's private QNode to a shared *Lock,
// satisfying lock.Interface for callers (the benchmark driver) that
// only know how to drive the zero-argument Lock()/Unlock()/TryLock()
// contract. Every Adapter built from the same *Lock via NewAdapter
// contends on the same queue; construct one Adapter per goroutine, never
// share an Adapter (or its embedded QNode) between goroutines.
type Adapter struct {
	lock *Lock
	node QNode
}

// NewAdapter returns an Adapter for one goroutine's exclusive use,
// contending on shared.
func NewAdapter(shared *Lock) *Adapter { return &Adapter{lock: shared} }

func (a *Adapter) Lock()         { a.lock.Lock(&a.node) }
func (a *Adapter) Unlock()       { a.lock.Unlock(&a.node) }
func (a *Adapter) TryLock() bool { return a.lock.TryLock(&a.node) }
