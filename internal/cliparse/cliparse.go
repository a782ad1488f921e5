// Package cliparse implements the CSV/range argument grammar of spec.md
// §6.1, the external-collaborator parser that turns the benchmark
// binary's four positional arguments into the cartesian product of
// configurations the driver runs.
package cliparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrEmptyCSV is returned for an empty positional argument; every
	// CSV must contain at least one item.
	ErrEmptyCSV = errors.New("cliparse: argument must not be empty")
	// ErrMalformedItem is returned when an item does not match its
	// expected grammar at all (not a number, empty item, stray
	// separators, ...).
	ErrMalformedItem = errors.New("cliparse: malformed item")
	// ErrMissingUnit is returned when a time item lacks one of the
	// recognized unit suffixes (ns, us, ms, s).
	ErrMissingUnit = errors.New("cliparse: time value missing unit")
	// ErrUnexpectedRange is returned when a range separator appears in
	// a positional argument whose grammar forbids ranges (MEASURE).
	ErrUnexpectedRange = errors.New("cliparse: range not allowed here")
	// ErrInvertedRange is returned when a range's low endpoint is not
	// below its high endpoint (threads: lo must be <= hi; locked/
	// unlocked: lo must be strictly < hi).
	ErrInvertedRange = errors.New("cliparse: range is inverted")
)

// Usage is the grammar text printed to stderr on any parse error, per
// spec.md §6.1.
const Usage = `usage: lockbench MEASURE THREADS LOCKED UNLOCKED

  MEASURE   CSV of <int><unit>, unit in {ns,us,ms,s}. No ranges.
  THREADS   CSV of <int> or <lo>-<hi> (inclusive range).
  LOCKED    CSV of <time> or <time>-<time>. Both endpoints need units, lo < hi.
  UNLOCKED  same grammar as LOCKED.

example: lockbench 500ms 4 1us 10ns
`

// DurationRange is a closed [Lo, Hi] interval of durations. Lo == Hi
// represents a fixed duration.
type DurationRange struct {
	Lo, Hi time.Duration
}

func splitCSV(arg string) ([]string, error) {
	if arg == "" {
		return nil, ErrEmptyCSV
	}
	items := strings.Split(arg, ",")
	for _, it := range items {
		if it == "" {
			return nil, fmt.Errorf("%w: empty item in %q", ErrMalformedItem, arg)
		}
	}
	return items, nil
}

var timeUnits = []string{"ns", "us", "ms", "s"}

// parseTime parses a single <int><unit> token. Units are checked
// longest-specific-first (ns/us/ms before the bare "s") so the
// single-character "s" unit never shadows the others.
func parseTime(item string) (time.Duration, error) {
	for _, unit := range timeUnits {
		if !strings.HasSuffix(item, unit) {
			continue
		}
		numPart := item[:len(item)-len(unit)]
		if numPart == "" {
			return 0, fmt.Errorf("%w: %q", ErrMalformedItem, item)
		}
		n, err := strconv.ParseUint(numPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedItem, item)
		}
		switch unit {
		case "ns":
			return time.Duration(n) * time.Nanosecond, nil
		case "us":
			return time.Duration(n) * time.Microsecond, nil
		case "ms":
			return time.Duration(n) * time.Millisecond, nil
		default: // "s"
			return time.Duration(n) * time.Second, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMissingUnit, item)
}

// ParseMeasure parses the MEASURE positional argument: a CSV of plain
// <int><unit> values. Ranges are rejected.
func ParseMeasure(arg string) ([]time.Duration, error) {
	items, err := splitCSV(arg)
	if err != nil {
		return nil, err
	}
	out := make([]time.Duration, 0, len(items))
	for _, item := range items {
		if strings.Contains(item, "-") {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedRange, item)
		}
		d, err := parseTime(item)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseThreads parses the THREADS positional argument: a CSV of plain
// integers or inclusive <lo>-<hi> ranges.
func ParseThreads(arg string) ([]int, error) {
	items, err := splitCSV(arg)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, item := range items {
		if idx := strings.IndexByte(item, '-'); idx >= 0 {
			lo, hi, err := parseIntRange(item, idx)
			if err != nil {
				return nil, err
			}
			if lo > hi {
				return nil, fmt.Errorf("%w: %q", ErrInvertedRange, item)
			}
			if lo < 1 {
				return nil, fmt.Errorf("%w: %q", ErrMalformedItem, item)
			}
			for n := lo; n <= hi; n++ {
				out = append(out, n)
			}
			continue
		}
		n, err := strconv.Atoi(item)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedItem, item)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseIntRange(item string, sepIdx int) (lo, hi int, err error) {
	loStr, hiStr := item[:sepIdx], item[sepIdx+1:]
	lo, errLo := strconv.Atoi(loStr)
	hi, errHi := strconv.Atoi(hiStr)
	if errLo != nil || errHi != nil || loStr == "" || hiStr == "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedItem, item)
	}
	return lo, hi, nil
}

// ParseWork parses a LOCKED or UNLOCKED positional argument: a CSV of
// <time> or <time>-<time> items, both endpoints requiring units and
// lo strictly less than hi for ranges.
func ParseWork(arg string) ([]DurationRange, error) {
	items, err := splitCSV(arg)
	if err != nil {
		return nil, err
	}
	out := make([]DurationRange, 0, len(items))
	for _, item := range items {
		lo, hiPart, isRange := splitWorkRange(item)
		loDur, err := parseTime(lo)
		if err != nil {
			return nil, err
		}
		if !isRange {
			out = append(out, DurationRange{Lo: loDur, Hi: loDur})
			continue
		}
		hiDur, err := parseTime(hiPart)
		if err != nil {
			return nil, err
		}
		if loDur >= hiDur {
			return nil, fmt.Errorf("%w: %q", ErrInvertedRange, item)
		}
		out = append(out, DurationRange{Lo: loDur, Hi: hiDur})
	}
	return out, nil
}

// splitWorkRange splits a work item on its range separator, if any. A
// time token's own digits never contain '-', so the first '-' in the
// item (if not part of a leading sign, which this grammar never has) is
// always the range separator.
func splitWorkRange(item string) (lo, hi string, isRange bool) {
	idx := strings.IndexByte(item, '-')
	if idx < 0 {
		return item, "", false
	}
	return item[:idx], item[idx+1:], true
}

// Args is the fully parsed four-positional-argument benchmark request.
type Args struct {
	Measures []time.Duration
	Threads  []int
	Locked   []DurationRange
	Unlocked []DurationRange
}

// Parse parses all four positional arguments of spec.md §6.1's grammar:
// `lockbench MEASURE THREADS LOCKED UNLOCKED`.
func Parse(measureCSV, threadsCSV, lockedCSV, unlockedCSV string) (Args, error) {
	measures, err := ParseMeasure(measureCSV)
	if err != nil {
		return Args{}, err
	}
	threads, err := ParseThreads(threadsCSV)
	if err != nil {
		return Args{}, err
	}
	locked, err := ParseWork(lockedCSV)
	if err != nil {
		return Args{}, err
	}
	unlocked, err := ParseWork(unlockedCSV)
	if err != nil {
		return Args{}, err
	}
	return Args{Measures: measures, Threads: threads, Locked: locked, Unlocked: unlocked}, nil
}

// Combination is one point of the cartesian product spec.md §6.1
// describes: "the driver iterates the cartesian product of (UNLOCKED ×
// LOCKED × THREADS × MEASURE); each combination produces one results
// block."
type Combination struct {
	Measure  time.Duration
	Threads  int
	Locked   DurationRange
	Unlocked DurationRange
}

// Combinations expands Args into every (unlocked, locked, threads,
// measure) tuple, in the iteration order spec.md §6.1 specifies.
func (a Args) Combinations() []Combination {
	var out []Combination
	for _, u := range a.Unlocked {
		for _, l := range a.Locked {
			for _, th := range a.Threads {
				for _, m := range a.Measures {
					out = append(out, Combination{Measure: m, Threads: th, Locked: l, Unlocked: u})
				}
			}
		}
	}
	return out
}
