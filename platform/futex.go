package platform

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// FutexWaitCalls counts every call to FutexWait that actually blocked
// (i.e. did not short-circuit because the word had already changed). Test
// hook for spec.md §8 testable-property 4, same purpose as EventWaitCalls.
var FutexWaitCalls atomic.Int64

// Futex is a thin, pure-Go stand-in for the kernel futex contract of
// spec.md §6.3: "futex_wait(addr, expected, timeout?): atomically sleeps
// only if *addr == expected" and "futex_wake(addr, n): wakes up to n
// waiters parked on addr". There is no real kernel syscall behind it —
// Go cannot portably issue raw futex(2) or NtWaitForKeyedEvent calls
// without cgo (see DESIGN.md) — instead it is backed by a fixed array of
// buckets, each a mutex-protected doubly-linked list of parked waiters,
// hashed by the watched address. This is the same shape as a real futex
// implementation (hash the address, chain waiters, wake by address
// match) and is grounded on the bucketed-condvar futex emulation pattern
// from the example pack (twmb/dash's experimental futex package).
//
// Futex is process-wide and stateless to construct: use the package-level
// FutexWait/FutexWake functions, passing the address of the word being
// watched.
type futexNode struct {
	prev, next *futexNode
	addr       unsafe.Pointer
	mu         sync.Mutex
	cond       *sync.Cond
	woken      bool
}

type futexBucket struct {
	mu   sync.Mutex
	root futexNode // sentinel; root.next/root.prev form the ring
}

const futexBucketCount = 251 // prime, keeps the hash spread reasonably even

var futexBuckets [futexBucketCount]*futexBucket

func init() {
	for i := range futexBuckets {
		b := &futexBucket{}
		b.root.next = &b.root
		b.root.prev = &b.root
		futexBuckets[i] = b
	}
}

func futexHash(addr unsafe.Pointer) uint64 {
	a := uint64(uintptr(addr))
	// xor-shift/multiply/xor-shift mix, spreads pointer addresses (which are usually
	// word-aligned, i.e. low bits are zero) across the bucket array.
	a ^= a >> 33
	a *= 0xff51afd7ed558ccd
	a ^= a >> 33
	return a
}

func bucketFor(addr unsafe.Pointer) *futexBucket {
	return futexBuckets[futexHash(addr)%futexBucketCount]
}

// FutexWait blocks the calling goroutine until a matching FutexWake
// targets addr, unless *addr no longer equals expected, in which case it
// returns immediately. load must read *addr atomically; it is passed in
// rather than assumed to be a fixed width so callers can watch a
// *uint32, *uint64, or any atomic-backed word.
func FutexWait(addr unsafe.Pointer, load func() uint32, expected uint32) {
	b := bucketFor(addr)

	b.mu.Lock()
	if load() != expected {
		b.mu.Unlock()
		return
	}
	node := &futexNode{addr: addr}
	node.cond = sync.NewCond(&node.mu)
	node.prev = b.root.prev
	node.next = &b.root
	b.root.prev.next = node
	b.root.prev = node
	b.mu.Unlock()

	FutexWaitCalls.Add(1)

	node.mu.Lock()
	for !node.woken {
		node.cond.Wait()
	}
	node.mu.Unlock()
}

// FutexWake wakes up to n goroutines parked on addr via FutexWait, and
// returns how many were actually woken.
func FutexWake(addr unsafe.Pointer, n int) int {
	b := bucketFor(addr)

	b.mu.Lock()
	woken := 0
	iter := b.root.next
	for woken < n && iter != &b.root {
		next := iter.next
		if iter.addr == addr {
			iter.prev.next = iter.next
			iter.next.prev = iter.prev

			iter.mu.Lock()
			iter.woken = true
			iter.cond.Signal()
			iter.mu.Unlock()

			woken++
		}
		iter = next
	}
	b.mu.Unlock()

	return woken
}
