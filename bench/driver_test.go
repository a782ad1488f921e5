package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/lockbench/lock"
	"github.com/ahrav/lockbench/lock/futex3"
	"github.com/ahrav/lockbench/lock/spinlock"
)

func newSpinlockFactory() lock.Factory {
	l := spinlock.New()
	return func() lock.Interface { return l }
}

func newFutex3Factory() lock.Factory {
	l := futex3.New()
	return func() lock.Interface { return l }
}

// TestRunSingleThreadIsDegenerate is scenario E1: one thread, zero
// simulated work, spin lock. stdev must be 0 and min == max == sum ==
// mean.
func TestRunSingleThreadIsDegenerate(t *testing.T) {
	cfg := Config{
		Measure:    100 * time.Millisecond,
		NumThreads: 1,
		Locked:     WorkUnit{},
		Unlocked:   WorkUnit{},
	}
	r := Run(newSpinlockFactory(), "spinlock", cfg)

	assert.Equal(t, 0.0, r.Stdev)
	assert.Equal(t, r.Min, r.Max)
	assert.Equal(t, r.Sum, r.Min)
	assert.Equal(t, r.Mean, float64(r.Min))
	assert.Greater(t, r.Sum, uint64(0))
}

// TestRunMultiThreadInvariants is close to scenario E2: several threads
// contending on futex3, checking the driver output invariants of
// spec.md §8 testable-property 7 hold on a real run (not just on
// synthetic Aggregate input).
func TestRunMultiThreadInvariants(t *testing.T) {
	nsPerIter := Calibrate()
	cfg := Config{
		Measure:    150 * time.Millisecond,
		NumThreads: 4,
		Locked:     NewWorkUnit(500, 500, nsPerIter),
		Unlocked:   NewWorkUnit(100, 100, nsPerIter),
	}
	r := Run(newFutex3Factory(), "futex3", cfg)

	assert.Equal(t, 4, r.Threads)
	assert.LessOrEqual(t, float64(r.Min), r.Mean)
	assert.LessOrEqual(t, r.Mean, float64(r.Max))
	assert.LessOrEqual(t, r.LatencyP50, r.LatencyP99)
	assert.Greater(t, r.Sum, uint64(0))
}
