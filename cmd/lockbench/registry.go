package main

import (
	"sort"

	"github.com/ahrav/lockbench/lock"
	"github.com/ahrav/lockbench/lock/adaptive"
	"github.com/ahrav/lockbench/lock/arraylock"
	"github.com/ahrav/lockbench/lock/futex3"
	"github.com/ahrav/lockbench/lock/keyedevent"
	"github.com/ahrav/lockbench/lock/mcs"
	"github.com/ahrav/lockbench/lock/parkinglot"
	"github.com/ahrav/lockbench/lock/pi"
	"github.com/ahrav/lockbench/lock/spinlock"
	"github.com/ahrav/lockbench/lock/stacklock"
	"github.com/ahrav/lockbench/lock/ticket"
	"github.com/ahrav/lockbench/lock/wordlock"
)

// buildFactory constructs one shared lock instance and returns a
// lock.Factory bound to it (spec.md §4.12 step 1's "initialize one
// instance of the lock", realized once per benchmark Run — see
// lock.Factory's doc comment).
type buildFactory func() lock.Factory

// registry maps every lock algorithm's benchmark name to a
// buildFactory. Names match the packages spec.md §2 enumerates, plus
// arraylock, the array-based lock adapted from the teacher's bonus
// alock package (not one of the nine named algorithms, but kept and
// exercised here rather than left dead).
var registry = map[string]buildFactory{
	"spin": func() lock.Factory {
		l := spinlock.New()
		return func() lock.Interface { return l }
	},
	"adaptive": func() lock.Factory {
		l := adaptive.New()
		return func() lock.Interface { return l }
	},
	"ticket": func() lock.Factory {
		l := ticket.New()
		return func() lock.Interface { return l }
	},
	"mcs": func() lock.Factory {
		shared := mcs.New()
		return func() lock.Interface { return mcs.NewAdapter(shared) }
	},
	"wordlock": func() lock.Factory {
		l := wordlock.New()
		return func() lock.Interface { return l }
	},
	"stacklock": func() lock.Factory {
		l := stacklock.New()
		return func() lock.Interface { return l }
	},
	"futex3": func() lock.Factory {
		l := futex3.New()
		return func() lock.Interface { return l }
	},
	"pi": func() lock.Factory {
		shared := pi.New()
		return func() lock.Interface { return pi.NewAdapter(shared) }
	},
	"keyedevent": func() lock.Factory {
		l := keyedevent.New()
		return func() lock.Interface { return l }
	},
	"parkinglot": func() lock.Factory {
		l := parkinglot.New()
		return func() lock.Interface { return l }
	},
	"arraylock": func() lock.Factory {
		l := arraylock.NewAuto()
		return func() lock.Interface { return l }
	},
}

// lockNames returns every registered algorithm name, sorted, for the
// default `-locks=all` selection and for usage/error messages.
func lockNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
