package benchmark

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates one metric over a sample set.
// Variance is the population variance (divided by n).
type Summary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Stddev   float64 `json:"stddev"`
}

// Summarize computes a Summary over xs. An empty slice yields the zero Summary;
// the runner never emits results without samples.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}

	mean := stat.Mean(xs, nil)
	variance := math.Max(stat.PopVariance(xs, nil), 0)

	return Summary{
		Min:      floats.Min(xs),
		Max:      floats.Max(xs),
		Mean:     mean,
		Variance: variance,
		Stddev:   math.Sqrt(variance),
	}
}
