package platform

import (
	"sync/atomic"
	"time"
)

// lastMonotonicNs caches the last value returned by MonotonicNanoseconds so
// that readers on platforms whose clock is not strictly monotonic across
// cores never observe time going backwards. Go's runtime clock
// (time.Now().UnixNano() relative to a monotonic reading) is, in practice,
// monotonic on every platform the toolchain supports, but the spec calls
// for the fixup explicitly (see spec.md §9 "Monotonic clock cache"), so we
// keep it: a CAS loop clamping to the maximum observed value.
var lastMonotonicNs atomic.Int64

// monotonicEpoch anchors MonotonicNanoseconds to process start so values
// stay well inside the range an int64 count of nanoseconds can hold for
// any benchmark run of reasonable duration.
var monotonicEpoch = time.Now()

// MonotonicNanoseconds returns a non-decreasing count of nanoseconds since
// an unspecified epoch (process start). It is the realization of the
// external primitive contract clock_monotonic_ns() from spec.md §6.3.
func MonotonicNanoseconds() uint64 {
	now := int64(time.Since(monotonicEpoch))
	for {
		last := lastMonotonicNs.Load()
		if now <= last {
			return uint64(last)
		}
		if lastMonotonicNs.CompareAndSwap(last, now) {
			return uint64(now)
		}
	}
}
