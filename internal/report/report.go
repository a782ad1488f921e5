// Package report implements the result-formatting printer of spec.md
// §6.2: the table layout, the numeric k/m/b suffix rule for iteration
// counts, and the ns/us/ms/s duration formatting rule for acquire
// latency. It is an external collaborator to the core per spec.md §1 —
// nothing in lock/ or bench/ imports it.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ahrav/lockbench/bench"
)

// FormatCount renders an iteration count per spec.md §6.2: raw under
// 1000, bare "<N>k" at the thousands tier, and "<N.NN>m"/"<N.NN>b" with
// two decimals at the 10^6/10^9 tiers.
func FormatCount(n float64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 1_000:
		return fmt.Sprintf("%.0f", n)
	case abs < 1_000_000:
		return fmt.Sprintf("%.0fk", n/1_000)
	case abs < 1_000_000_000:
		return fmt.Sprintf("%.2fm", n/1_000_000)
	default:
		return fmt.Sprintf("%.2fb", n/1_000_000_000)
	}
}

// FormatDuration renders a latency value per spec.md §6.2: ns/us/ms/s
// with two decimals at each step up from nanoseconds.
func FormatDuration(d time.Duration) string {
	ns := float64(d.Nanoseconds())
	abs := ns
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 1_000:
		return fmt.Sprintf("%.2fns", ns)
	case abs < 1_000_000:
		return fmt.Sprintf("%.2fus", ns/1_000)
	case abs < 1_000_000_000:
		return fmt.Sprintf("%.2fms", ns/1_000_000)
	default:
		return fmt.Sprintf("%.2fs", ns/1_000_000_000)
	}
}

// WriteBlock writes one configuration block of spec.md §6.2's output
// format: a header line naming the configuration, a rule, a column
// header, then one row per lock result.
func WriteBlock(w io.Writer, measure time.Duration, threads int, locked, unlocked string, results []bench.Result) {
	fmt.Fprintf(w, "measure=%s threads=%d locked=%s unlocked=%s\n", FormatDuration(measure), threads, locked, unlocked)
	fmt.Fprintln(w, strings.Repeat("-", 92))
	fmt.Fprintf(w, "%-18s | %-6s | %-6s | %-6s | %-6s | %-6s | %-9s | %-9s |\n",
		"name", "mean", "stdev", "min", "max", "sum", "lat. <50%", "lat. <99%")
	for _, r := range results {
		fmt.Fprintf(w, "%-18s | %-6s | %-6s | %-6s | %-6s | %-6s | %-9s | %-9s |\n",
			r.LockName,
			FormatCount(r.Mean),
			FormatCount(r.Stdev),
			FormatCount(float64(r.Min)),
			FormatCount(float64(r.Max)),
			FormatCount(float64(r.Sum)),
			FormatDuration(r.LatencyP50),
			FormatDuration(r.LatencyP99),
		)
	}
}
