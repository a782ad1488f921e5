package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalibrateProducesPositiveRate(t *testing.T) {
	rate := Calibrate()
	assert.Greater(t, rate, 0.0)
}

func TestNewWorkUnitZeroNanosecondsIsZeroIterations(t *testing.T) {
	wu := NewWorkUnit(0, 0, 2.5)
	assert.Equal(t, uint64(0), wu.LoIters)
	assert.Equal(t, uint64(0), wu.HiIters)
}

func TestNewWorkUnitFixedDurationRoundsUpToOneIteration(t *testing.T) {
	wu := NewWorkUnit(1, 1, 1000.0)
	assert.Equal(t, uint64(1), wu.LoIters)
	assert.Equal(t, wu.LoIters, wu.HiIters)
}

func TestWorkUnitSampleFixedAlwaysReturnsLo(t *testing.T) {
	wu := WorkUnit{LoIters: 7, HiIters: 7}
	seed := uint64(12345)
	for i := 0; i < 10; i++ {
		assert.Equal(t, uint64(7), wu.Sample(&seed))
	}
}

func TestWorkUnitSampleRangeStaysInBounds(t *testing.T) {
	wu := WorkUnit{LoIters: 10, HiIters: 20}
	seed := uint64(1)
	for i := 0; i < 1000; i++ {
		v := wu.Sample(&seed)
		assert.GreaterOrEqual(t, v, wu.LoIters)
		assert.LessOrEqual(t, v, wu.HiIters)
	}
}

func TestXorshift64AdvancesDeterministically(t *testing.T) {
	a := xorshift64(42)
	b := xorshift64(42)
	assert.Equal(t, a, b)
	assert.NotEqual(t, uint64(42), a)
}
