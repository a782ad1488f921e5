package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestScenarioE1SingleBlockSpinLock mirrors spec.md §8 scenario E1:
// MEASURE=100ms THREADS=1 LOCKED=0ns UNLOCKED=0ns, lock = spin.
func TestScenarioE1SingleBlockSpinLock(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-locks=spin", "100ms", "1", "0ns", "0ns"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "measure=100.00ms threads=1")
	assert.Contains(t, stdout.String(), "spin")
	assert.Equal(t, 1, strings.Count(stdout.String(), "measure="))
}

// TestScenarioE3TwoBlocksWordLock mirrors spec.md §8 scenario E3:
// MEASURE=1s THREADS=2-3 LOCKED=100ns-500ns UNLOCKED=100ns, lock =
// word-lock: two result blocks (threads=2 and threads=3). MEASURE is
// shortened to 20ms here to keep the test fast.
func TestScenarioE3TwoBlocksWordLock(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-locks=wordlock", "20ms", "2-3", "100ns-500ns", "100ns"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, 2, strings.Count(stdout.String(), "measure="))
	assert.Contains(t, stdout.String(), "threads=2")
	assert.Contains(t, stdout.String(), "threads=3")
}

// TestScenarioE4MeasureMissingUnit mirrors spec.md §8 scenario E4:
// `bench 1 1 1ns 1ns` (measure missing unit).
func TestScenarioE4MeasureMissingUnit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"1", "1", "1ns", "1ns"}, &stdout, &stderr)

	assert.NotEqual(t, 0, code)
	assert.Contains(t, stderr.String(), "usage:")
}

// TestScenarioE5InvertedThreadRange mirrors spec.md §8 scenario E5:
// `bench 1s 5-3 1us 1us` (inverted thread range).
func TestScenarioE5InvertedThreadRange(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"1s", "5-3", "1us", "1us"}, &stdout, &stderr)

	assert.NotEqual(t, 0, code)
}

func TestWrongArgCountPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"1s", "1"}, &stdout, &stderr)

	assert.NotEqual(t, 0, code)
	assert.Contains(t, stderr.String(), "usage:")
}

func TestUnknownLockNameErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-locks=nonexistent", "10ms", "1", "0ns", "0ns"}, &stdout, &stderr)

	assert.NotEqual(t, 0, code)
	assert.Contains(t, stderr.String(), "unknown lock")
}

func TestJSONFlagEmitsNDJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-locks=spin", "-json", "10ms", "1", "0ns", "0ns"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), `"results"`)
	assert.NotContains(t, stdout.String(), "measure=")
}

func TestSelectLocksAllReturnsEveryRegisteredName(t *testing.T) {
	names, err := selectLocks("all")
	assert.NoError(t, err)
	assert.Equal(t, len(registry), len(names))
}

func TestSelectLocksDeduplicates(t *testing.T) {
	names, err := selectLocks("spin,spin,ticket")
	assert.NoError(t, err)
	assert.Equal(t, []string{"spin", "ticket"}, names)
}
