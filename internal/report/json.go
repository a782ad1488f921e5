package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ahrav/lockbench/bench"
)

// JSONBlock is the machine-readable supplement to WriteBlock's table,
// backing the `-json` flag (an ambient CLI ergonomic this repo adds
// alongside spec.md §6.1's grammar — see SPEC_FULL.md §6.1).
type JSONBlock struct {
	MeasureNs  int64       `json:"measure_ns"`
	Threads    int         `json:"threads"`
	LockedNs   [2]int64    `json:"locked_ns"`
	UnlockedNs [2]int64    `json:"unlocked_ns"`
	Results    []JSONEntry `json:"results"`
}

// JSONEntry is one lock's aggregate row inside a JSONBlock.
type JSONEntry struct {
	Name       string  `json:"name"`
	Mean       float64 `json:"mean"`
	Stdev      float64 `json:"stdev"`
	Min        uint64  `json:"min"`
	Max        uint64  `json:"max"`
	Sum        uint64  `json:"sum"`
	LatencyP50 int64   `json:"latency_p50_ns"`
	LatencyP99 int64   `json:"latency_p99_ns"`
}

// NewJSONBlock builds a JSONBlock from one configuration's results.
func NewJSONBlock(measure time.Duration, threads int, locked, unlocked [2]time.Duration, results []bench.Result) JSONBlock {
	b := JSONBlock{
		MeasureNs:  measure.Nanoseconds(),
		Threads:    threads,
		LockedNs:   [2]int64{locked[0].Nanoseconds(), locked[1].Nanoseconds()},
		UnlockedNs: [2]int64{unlocked[0].Nanoseconds(), unlocked[1].Nanoseconds()},
		Results:    make([]JSONEntry, 0, len(results)),
	}
	for _, r := range results {
		b.Results = append(b.Results, JSONEntry{
			Name:       r.LockName,
			Mean:       r.Mean,
			Stdev:      r.Stdev,
			Min:        r.Min,
			Max:        r.Max,
			Sum:        r.Sum,
			LatencyP50: r.LatencyP50.Nanoseconds(),
			LatencyP99: r.LatencyP99.Nanoseconds(),
		})
	}
	return b
}

// WriteJSON encodes a JSONBlock as a single JSON line, so a `-json` run
// emits newline-delimited JSON, one object per configuration block.
func WriteJSON(w io.Writer, b JSONBlock) error {
	enc := json.NewEncoder(w)
	return enc.Encode(b)
}
