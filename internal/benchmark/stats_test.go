package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultStatistics(t *testing.T) {
	wall := []float64{3, 4, 4, 5, 6, 8}
	user := []float64{1, 2, 4, 5, 7, 11}

	samples := make([]TimeSample, len(wall))
	for i := range wall {
		samples[i] = TimeSample{Wall: wall[i], User: user[i]}
	}
	res := NewResult("bench_sample1", "10", samples)

	assert.Equal(t, "bench_sample1", res.Name)
	assert.Equal(t, "10", res.Input)

	w := res.Wall()
	assert.Equal(t, 3.0, w.Min)
	assert.Equal(t, 8.0, w.Max)
	assert.Equal(t, 5.0, w.Mean)
	assert.InDelta(t, 2.67, w.Variance, 0.005)
	assert.InDelta(t, 1.63, w.Stddev, 0.005)

	u := res.User()
	assert.Equal(t, 1.0, u.Min)
	assert.Equal(t, 11.0, u.Max)
	assert.Equal(t, 5.0, u.Mean)
	assert.InDelta(t, 11.0, u.Variance, 1e-9)
	assert.InDelta(t, 3.3166, u.Stddev, 0.0001)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{2.5}, Summary{Min: 2.5, Max: 2.5, Mean: 2.5}},
		{"constant", []float64{1, 1, 1}, Summary{Min: 1, Max: 1, Mean: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.xs))
		})
	}
}

func TestSummaryInvariants(t *testing.T) {
	xs := []float64{0.0012, 0.0009, 0.0031, 0.0011, 0.0010}
	s := Summarize(xs)

	assert.LessOrEqual(t, s.Min, s.Mean)
	assert.LessOrEqual(t, s.Mean, s.Max)
	assert.GreaterOrEqual(t, s.Variance, 0.0)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "10", Label(10))
	assert.Equal(t, "abc", Label("abc"))
	assert.Equal(t, "1.5", Label(1.5))
}
