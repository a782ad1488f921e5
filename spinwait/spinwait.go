// Package spinwait implements the adaptive in-loop backoff state machine
// described in spec.md §4.2, shared by the adaptive, arraylock, futex3,
// keyedevent, parkinglot, pi, stacklock and wordlock algorithms (spinlock
// and ticket do not use it). Early rounds issue CPU-pause
// hints (runtime.Gosched stands in for a bare PAUSE instruction, see
// platform.PauseCPU); later rounds issue an OS thread yield. After a
// bounded number of rounds it signals the caller should stop spinning and
// prepare to block.
//
// Adapted from the backoff shape the teacher repo's ticket.Lock.Lock
// hand-rolls inline (distance-proportional Gosched spinning, falling back
// to time.Sleep past a threshold) and from nsync's spinDelay helper,
// generalized into a reusable, resettable state value.
package spinwait

import (
	"time"

	"github.com/ahrav/lockbench/platform"
)

// spinRounds is how many rounds of pure CPU-pause spinning are attempted
// before switching to thread yields; yieldRounds is how many yield rounds
// follow before Spin reports "give up, go park". These match spec.md
// §4.2's "~10, or ~100 for tight-loop variants" guidance — New uses the
// default; NewTightLoop uses the wider tightLoopRounds.
const (
	spinRounds        = 4
	yieldRounds       = 6
	defaultRounds     = spinRounds + yieldRounds
	tightLoopRounds   = 100
	parkThresholdSpin = 1 << 10 // busy-loop iterations of the first spin round; each later spin round doubles it
)

// SpinWait is an adaptive backoff cursor. The zero value is ready to use.
type SpinWait struct {
	counter uint32
	rounds  uint32 // 0 means defaultRounds
}

// New returns a SpinWait that gives up spinning after the default number
// of rounds (§4.2's "~10").
func New() *SpinWait { return &SpinWait{} }

// NewTightLoop returns a SpinWait tuned for tight busy-loops that expect
// to win quickly (§4.2's "~100 for tight-loop variants"). No lock in this
// repository currently uses it.
func NewTightLoop() *SpinWait { return &SpinWait{rounds: tightLoopRounds} }

func (s *SpinWait) maxRounds() uint32 {
	if s.rounds == 0 {
		return defaultRounds
	}
	return s.rounds
}

// Spin performs one round of backoff and reports whether the caller
// should keep spinning (true) or stop and prepare to block (false).
func (s *SpinWait) Spin() bool {
	if s.counter >= s.maxRounds() {
		return false
	}

	if s.counter < spinRounds {
		n := parkThresholdSpin << s.counter
		for i := 0; i < n; i++ {
			platform.PauseCPU()
		}
	} else {
		platform.YieldThread()
		if s.counter > spinRounds+2 {
			// Deepest yield rounds additionally sleep a tick; this
			// mirrors the teacher's ticket lock falling back to
			// time.Sleep once a waiter is "far back in the queue."
			time.Sleep(time.Microsecond)
		}
	}

	s.counter++
	return true
}

// Reset returns the SpinWait to its initial state, ready to spin again.
func (s *SpinWait) Reset() {
	s.counter = 0
}

// Exhausted reports whether every round has been used since the last
// Reset, i.e. whether the next call to Spin will return false.
func (s *SpinWait) Exhausted() bool {
	return s.counter >= s.maxRounds()
}
