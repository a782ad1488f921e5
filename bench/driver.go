package bench

import (
	"reflect"
	"sync"
	"time"
	"unsafe"

	"github.com/ahrav/lockbench/lock"
)

// Config is one point in the benchmark matrix: a measurement duration,
// a thread count, and the simulated in-CS/out-of-CS work per iteration
// (spec.md §4.12's "(measure-duration, thread-count, in-CS work,
// out-of-CS work) tuples").
type Config struct {
	Measure    time.Duration
	NumThreads int
	Locked     WorkUnit
	Unlocked   WorkUnit
}

// Run executes spec.md §4.12's benchmark(lock_type, config) operation:
// spawn NumThreads workers behind a Barrier, each holding its own handle
// onto factory's one shared lock instance, hold the measurement window
// open for Measure, join every worker, and aggregate the results under
// lockName.
func Run(factory lock.Factory, lockName string, cfg Config) Result {
	barrier := NewBarrier()
	workers := make([]*Worker, cfg.NumThreads)

	var wg sync.WaitGroup
	wg.Add(cfg.NumThreads)
	for i := 0; i < cfg.NumThreads; i++ {
		w := &Worker{}
		workers[i] = w
		go func() {
			defer wg.Done()
			l := factory()
			lockPtr := uint64(reflect.ValueOf(l).Pointer())
			// Per-worker seed derived from worker_ptr XOR lock_ptr,
			// spec.md §4.12's "xorshift64 on a per-worker seed derived
			// from worker_ptr XOR lock_ptr".
			seed := uint64(uintptr(unsafe.Pointer(w))) ^ lockPtr
			runWorker(w, l, barrier, cfg.Locked, cfg.Unlocked, seed)
		}()
	}

	barrier.Start()
	time.Sleep(cfg.Measure)
	barrier.Stop()

	wg.Wait()

	return Aggregate(lockName, workers)
}
