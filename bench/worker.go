package bench

import (
	"time"

	"github.com/ahrav/lockbench/lock"
	"github.com/ahrav/lockbench/platform"
)

// resampleEvery is how often the worker loop redraws its WorkUnit
// samples, amortizing the xorshift64 RNG cost across many iterations
// per spec.md §4.12: "sample WorkUnits every 32 iterations".
const resampleEvery = 32

// Worker holds one goroutine's results from a single benchmark run: the
// total number of acquire/release cycles it completed and the
// nanosecond latency (acquire-request to acquire-grant) of each one.
// Created by Run; merged into a Result by Aggregate after the run ends.
type Worker struct {
	Iterations uint64
	Latencies  []time.Duration
}

// runWorker drives one worker through the loop described in spec.md
// §4.12: wait at the barrier; then, until the barrier leaves the
// running state, run a batch of outside-CS spin iterations, timestamp,
// acquire, run a batch of inside-CS spin iterations, release, record
// the acquire latency, and count the iteration.
func runWorker(w *Worker, l lock.Interface, barrier *Barrier, locked, unlocked WorkUnit, seed uint64) {
	barrier.Wait()

	var lockedIters, unlockedIters uint64
	for i := uint64(0); barrier.Running(); i++ {
		if i%resampleEvery == 0 {
			lockedIters = locked.Sample(&seed)
			unlockedIters = unlocked.Sample(&seed)
		}

		spinIterations(unlockedIters)

		t0 := platform.MonotonicNanoseconds()
		l.Lock()
		t1 := platform.MonotonicNanoseconds()

		spinIterations(lockedIters)
		l.Unlock()

		w.Latencies = append(w.Latencies, time.Duration(t1-t0))
		w.Iterations++
	}
}
