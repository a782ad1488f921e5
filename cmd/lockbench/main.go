// Command lockbench drives the benchmark matrix of spec.md §6.1:
// `lockbench MEASURE THREADS LOCKED UNLOCKED` times every selected lock
// algorithm across the cartesian product of the four positional CSV/
// range arguments and prints one results block per configuration.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ahrav/lockbench/bench"
	"github.com/ahrav/lockbench/internal/cliparse"
	"github.com/ahrav/lockbench/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lockbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	locksFlag := fs.String("locks", "all", "CSV of lock names to run, or \"all\"")
	jsonFlag := fs.Bool("json", false, "emit newline-delimited JSON instead of the table")
	fs.Usage = func() { fmt.Fprint(stderr, cliparse.Usage) }

	if err := fs.Parse(args); err != nil {
		return 2
	}

	positional := fs.Args()
	if len(positional) != 4 {
		fmt.Fprint(stderr, cliparse.Usage)
		return 2
	}

	parsed, err := cliparse.Parse(positional[0], positional[1], positional[2], positional[3])
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprint(stderr, cliparse.Usage)
		return 2
	}

	names, err := selectLocks(*locksFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	nsPerIter := bench.Calibrate()

	for _, combo := range parsed.Combinations() {
		locked := bench.NewWorkUnit(uint64(combo.Locked.Lo), uint64(combo.Locked.Hi), nsPerIter)
		unlocked := bench.NewWorkUnit(uint64(combo.Unlocked.Lo), uint64(combo.Unlocked.Hi), nsPerIter)

		cfg := bench.Config{
			Measure:    combo.Measure,
			NumThreads: combo.Threads,
			Locked:     locked,
			Unlocked:   unlocked,
		}

		results := make([]bench.Result, 0, len(names))
		for _, name := range names {
			factory := registry[name]()
			results = append(results, bench.Run(factory, name, cfg))
		}

		if *jsonFlag {
			block := report.NewJSONBlock(combo.Measure, combo.Threads,
				[2]time.Duration{combo.Locked.Lo, combo.Locked.Hi},
				[2]time.Duration{combo.Unlocked.Lo, combo.Unlocked.Hi},
				results)
			if err := report.WriteJSON(stdout, block); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
			continue
		}

		report.WriteBlock(stdout, combo.Measure, combo.Threads,
			report.FormatDuration(combo.Locked.Lo), report.FormatDuration(combo.Unlocked.Lo), results)
	}

	return 0
}

// selectLocks resolves the -locks flag into a sorted, validated list of
// registry names.
func selectLocks(flagValue string) ([]string, error) {
	if flagValue == "all" {
		return lockNames(), nil
	}
	items := strings.Split(flagValue, ",")
	seen := make(map[string]bool, len(items))
	var names []string
	for _, name := range items {
		if _, ok := registry[name]; !ok {
			return nil, fmt.Errorf("lockbench: unknown lock %q (known: %s)", name, strings.Join(lockNames(), ", "))
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}
