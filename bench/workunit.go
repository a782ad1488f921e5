package bench

import (
	"time"

	"github.com/ahrav/lockbench/platform"
)

const (
	calibrationSpins  = 100_000
	calibrationTrials = 10
)

// Calibrate measures the average nanosecond cost of one no-op spin
// iteration by timing a fixed number of iterations across several
// trials and averaging, per spec.md §4.12: "a startup calibration
// estimates 'ns per spin iteration' by timing a known number of spin
// iterations ten times and averaging". The result scales WorkUnit
// nanosecond targets into spin-iteration counts via NewWorkUnit.
func Calibrate() float64 {
	var total time.Duration
	for trial := 0; trial < calibrationTrials; trial++ {
		start := time.Now()
		spinIterations(calibrationSpins)
		total += time.Since(start)
	}
	return float64(total) / float64(calibrationTrials*calibrationSpins)
}

func spinIterations(n uint64) {
	for i := uint64(0); i < n; i++ {
		platform.PauseCPU()
	}
}

// WorkUnit is a calibrated spin-iteration count standing in for a
// nanosecond duration target (spec.md §3 "WorkUnit"). LoIters == HiIters
// represents a fixed duration; LoIters < HiIters represents a
// uniform-random range, resampled by the worker loop every 32
// iterations per spec.md §4.12.
type WorkUnit struct {
	LoIters uint64
	HiIters uint64
}

// NewWorkUnit translates a nanosecond range [loNs, hiNs] into a WorkUnit
// using nsPerIter, the calibration result from Calibrate. loNs == hiNs
// yields a fixed WorkUnit.
func NewWorkUnit(loNs, hiNs uint64, nsPerIter float64) WorkUnit {
	return WorkUnit{
		LoIters: itersFor(loNs, nsPerIter),
		HiIters: itersFor(hiNs, nsPerIter),
	}
}

func itersFor(ns uint64, nsPerIter float64) uint64 {
	if ns == 0 || nsPerIter <= 0 {
		return 0
	}
	n := uint64(float64(ns) / nsPerIter)
	if n == 0 {
		n = 1
	}
	return n
}

// Sample resolves one spin-iteration count for this WorkUnit. A fixed
// WorkUnit always returns LoIters; a ranged one draws uniformly from
// [LoIters, HiIters] using the caller's xorshift64 seed, advancing it in
// place — the per-worker RNG amortization spec.md §4.12 describes.
func (w WorkUnit) Sample(seed *uint64) uint64 {
	if w.LoIters >= w.HiIters {
		return w.LoIters
	}
	*seed = xorshift64(*seed)
	span := w.HiIters - w.LoIters + 1
	return w.LoIters + (*seed)%span
}

func xorshift64(x uint64) uint64 {
	if x == 0 {
		x = 0x9e3779b97f4a7c15
	}
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	return x
}
