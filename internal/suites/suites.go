// Package suites holds the benchmark containers shipped with unitbench.
package suites

import (
	"errors"
	"fmt"
	"slices"

	"unitbench/internal/benchmark"
)

// ErrUnknownSuite is returned by Lookup for names that are not registered.
var ErrUnknownSuite = errors.New("unknown suite")

// Suite is a named container factory.
type Suite struct {
	Name        string
	Description string
	New         func() benchmark.Container
}

var registry = []Suite{
	{
		Name:        "primes",
		Description: "trial division against the sieve of Eratosthenes",
		New:         func() benchmark.Container { return &Primes{} },
	},
	{
		Name:        "totient",
		Description: "Euler's totient over a range, three ways",
		New:         func() benchmark.Container { return &Totient{} },
	},
}

// All returns every registered suite, sorted by name.
func All() []Suite {
	out := slices.Clone(registry)
	slices.SortFunc(out, func(a, b Suite) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out
}

// Names returns the registered suite names, sorted.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a suite by name.
func Lookup(name string) (Suite, error) {
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Suite{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSuite, name, Names())
}
