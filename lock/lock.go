// Package lock defines the common contract every lock algorithm in this
// repository implements (spec.md §4.1). cmd/lockbench's registry maps
// benchmark names to concrete constructors built against this contract.
package lock

// Interface is the common Lock contract from spec.md §4.1: construct in
// the unlocked state (via the concrete type's New function, standing in
// for "init"), Lock blocks until the calling goroutine is the sole owner,
// Unlock relinquishes ownership (precondition: caller is the current
// owner), and TryLock attempts the fast path without blocking.
//
// Lock must not be called recursively by the same goroutine on the same
// value, and Unlock must not be called by a goroutine that does not hold
// the lock; per spec.md §7 both are undefined behavior, not detected.
//
// Algorithms whose fast path needs a per-waiter node (mcs, pi) do not
// satisfy this interface directly — see lock/mcs's Lock/Unlock(*QNode)
// and lock/pi's Lock/Unlock(*Token) signatures; their Adapter types do —
// but every other algorithm in lock/ does.
type Interface interface {
	Lock()
	Unlock()
	TryLock() bool
}

// Factory returns a handle onto one benchmark run's shared lock
// instance (spec.md §4.12 step 1: "initialize one instance of the
// lock"). The benchmark driver calls Factory once per worker goroutine:
// for ordinary algorithms the same pointer is returned every time; for
// algorithms whose fast path needs a per-waiter node (mcs, pi), Factory
// returns a fresh per-goroutine Adapter each call, all bound to the same
// underlying shared state (see mcs.NewAdapter, pi.NewAdapter). Either
// way exactly one shared lock instance backs a given Factory value.
type Factory func() Interface
