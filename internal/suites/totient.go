package suites

import (
	"iter"
	"math"

	"unitbench/internal/benchmark"
)

// DefaultTotientLimit bounds the inputs of the totient suite (exclusive).
const DefaultTotientLimit = 100000

// Totient computes φ(k) for every k below n with three factorization
// strategies. The prime table is built once, on the first Setup.
type Totient struct {
	Limit int

	primes []int
	sum    int
}

func (t *Totient) limit() int {
	if t.Limit <= 0 {
		return DefaultTotientLimit
	}
	return t.Limit
}

func (t *Totient) Input() iter.Seq[any] {
	return benchmark.Geometric(10, 10, t.limit())
}

func (t *Totient) Setup() error {
	if t.primes == nil {
		// Factoring k < limit needs primes up to sqrt(limit).
		t.primes = Sieve(int(math.Sqrt(float64(t.limit()))) + 2)
	}
	return nil
}

func (t *Totient) Benchmarks(r *benchmark.Registry) {
	r.Add("dbench_naive", func(n int) { t.sum = sumOf(n, NaiveTotient) })
	r.Add("bench_totient", func(n int) { t.sum = sumOf(n, func(k int) int { return TotientFactors(k, t.primes) }) })
	r.Add("bench_totient2", func(n int) { t.sum = sumOf(n, func(k int) int { return TotientUnique(k, t.primes) }) })
	r.Add("bench_totient3", func(n int) { t.sum = sumOf(n, func(k int) int { return TotientFloat(k, t.primes) }) })
}

func sumOf(n int, phi func(int) int) int {
	s := 0
	for k := range n {
		s += phi(k)
	}
	return s
}

// NaiveTotient counts the integers below n coprime to n.
func NaiveTotient(n int) int {
	if n < 2 {
		return n
	}
	t := 0
	for k := 1; k < n; k++ {
		if gcd(k, n) == 1 {
			t++
		}
	}
	return t
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

type primePower struct {
	prime, exp int
}

// factorize splits n into prime powers. primes must cover sqrt(n).
func factorize(n int, primes []int) []primePower {
	var fs []primePower
	for _, p := range primes {
		if p*p > n {
			break
		}
		if n%p != 0 {
			continue
		}
		pp := primePower{prime: p}
		for n%p == 0 {
			n /= p
			pp.exp++
		}
		fs = append(fs, pp)
	}
	if n > 1 {
		fs = append(fs, primePower{prime: n, exp: 1})
	}
	return fs
}

func uniqueFactors(n int, primes []int) []int {
	fs := factorize(n, primes)
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = f.prime
	}
	return out
}

// TotientFactors uses φ(n) = Π p^(k-1)·(p-1) over the prime powers of n.
func TotientFactors(n int, primes []int) int {
	if n < 2 {
		return n
	}
	t := 1
	for _, f := range factorize(n, primes) {
		for range f.exp - 1 {
			t *= f.prime
		}
		t *= f.prime - 1
	}
	return t
}

// TotientUnique uses φ(n) = n·Π (1 - 1/p) in integer arithmetic.
func TotientUnique(n int, primes []int) int {
	if n < 2 {
		return n
	}
	t := n
	for _, p := range uniqueFactors(n, primes) {
		t -= t / p
	}
	return t
}

// TotientFloat is TotientUnique in floating point, rounded at the end.
func TotientFloat(n int, primes []int) int {
	if n < 2 {
		return n
	}
	t := float64(n)
	for _, p := range uniqueFactors(n, primes) {
		t *= 1 - 1/float64(p)
	}
	return int(math.Round(t))
}
