package platform

// Waiter is the queue node a blocked goroutine links into a lock's wait
// queue, per spec.md §3 "Waiter". In the original C/Rust/Zig lineage this
// node lives on the waiting thread's stack; Go's escape analysis will
// move it to the heap as soon as a pointer to it is published into a
// shared structure (which every lock here does), so "stack-allocated" is
// aspirational in this port — but the lifetime discipline is identical:
// the lock never allocates a Waiter for a caller, the caller owns it for
// exactly the duration of one Lock() call, and the notifier must not
// touch any field of it after calling Event.Notify.
type Waiter struct {
	Event *Event

	// Next/Prev/Tail form the intrusive doubly/singly linked structures
	// used by lock/wordlock, lock/stacklock and lock/parkinglot. Not
	// every algorithm uses every field: lock/wordlock uses Next
	// (push-link), Prev (back-links spliced in during the "link" pass)
	// and Tail (cached queue tail); lock/stacklock uses only Next;
	// parking-lot's bucket queue uses Next/Prev as a plain FIFO.
	Next *Waiter
	Prev *Waiter
	Tail *Waiter

	// Acquired is parking-lot-only (spec.md §4.10): the direct-handoff
	// flag set by a fair release before notifying. The fairness deadline
	// itself lives on the bucket, not the waiter.
	Acquired bool
}

// NewWaiter returns a Waiter ready to be linked into a queue and waited
// on exactly once.
func NewWaiter() *Waiter {
	return &Waiter{Event: NewEvent()}
}
