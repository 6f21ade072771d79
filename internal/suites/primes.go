package suites

import (
	"iter"
	"math"

	"unitbench/internal/benchmark"
)

// DefaultPrimesLimit is the largest input of the primes suite.
const DefaultPrimesLimit = 100000

// Primes compares trial division with a sieve for listing the primes below n.
// Inputs grow tenfold from 100 up to Limit.
type Primes struct {
	Limit int

	found int
}

func (p *Primes) Input() iter.Seq[any] {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPrimesLimit
	}
	return benchmark.Geometric(100, 10, limit+1)
}

func (p *Primes) Benchmarks(r *benchmark.Registry) {
	r.Add("bench_naive_primes", func(n int) { p.found = len(NaivePrimes(n)) })
	r.Add("bench_sieve_of_eratosthenes", func(n int) { p.found = len(Sieve(n)) })
}

// NaivePrimes lists the primes below n by trial division with the 6k±1
// wheel.
func NaivePrimes(n int) []int {
	var primes []int
	for c := 2; c < n; c++ {
		if isPrime(c) {
			primes = append(primes, c)
		}
	}
	return primes
}

func isPrime(c int) bool {
	switch {
	case c < 2:
		return false
	case c == 2 || c == 3:
		return true
	case c%2 == 0 || c%3 == 0:
		return false
	}
	top := int(math.Sqrt(float64(c))) + 1
	for i := 6; i <= top; i += 6 {
		if c%(i-1) == 0 || c%(i+1) == 0 {
			return false
		}
	}
	return true
}

// Sieve lists the primes below n with the sieve of Eratosthenes.
func Sieve(n int) []int {
	if n < 3 {
		return nil
	}
	composite := make([]bool, n)
	for i := 2; i*i < n; i++ {
		if composite[i] {
			continue
		}
		for k := i * i; k < n; k += i {
			composite[k] = true
		}
	}
	var primes []int
	for i := 2; i < n; i++ {
		if !composite[i] {
			primes = append(primes, i)
		}
	}
	return primes
}
