package benchmark

import (
	"fmt"
	"time"
)

// NoInput labels results of containers that supply no input values.
const NoInput = "none"

// TimeSample is the cost of a single timed execution, in seconds.
type TimeSample struct {
	Wall   float64 `json:"wall"`
	User   float64 `json:"user"`
	System float64 `json:"system"`
}

// Result holds the samples of one benchmark for one input value.
// Summaries are computed on demand from Samples.
type Result struct {
	Name    string       `json:"name"`
	Input   string       `json:"input"`
	Samples []TimeSample `json:"samples"`
}

// NewResult builds the Result of one benchmark for one input label.
func NewResult(name, input string, samples []TimeSample) Result {
	return Result{
		Name:    name,
		Input:   input,
		Samples: samples,
	}
}

// Label returns the report label of an input value.
func Label(input any) string {
	if s, ok := input.(string); ok {
		return s
	}
	return fmt.Sprint(input)
}

// Wall summarizes wall-clock time.
func (r Result) Wall() Summary {
	return r.summarize(func(s TimeSample) float64 { return s.Wall })
}

// User summarizes user CPU time.
func (r Result) User() Summary {
	return r.summarize(func(s TimeSample) float64 { return s.User })
}

// System summarizes system CPU time.
func (r Result) System() Summary {
	return r.summarize(func(s TimeSample) float64 { return s.System })
}

func (r Result) summarize(field func(TimeSample) float64) Summary {
	xs := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		xs[i] = field(s)
	}
	return Summarize(xs)
}

// RunInfo is handed to a Sink before any result.
type RunInfo struct {
	ID         string
	Suite      string
	StartedAt  time.Time
	Benchmarks []Spec
	Inputs     []string
	Warmup     int
	Repeats    int
}

// Titles returns the display titles of the discovered benchmarks, in order.
func (ri RunInfo) Titles() []string {
	titles := make([]string, len(ri.Benchmarks))
	for i, b := range ri.Benchmarks {
		titles[i] = b.Title
	}
	return titles
}

// Run represents a collection of benchmark results from a single execution.
type Run struct {
	ID        string    `json:"id"`
	Suite     string    `json:"suite"`
	Timestamp time.Time `json:"timestamp"`
	Commit    string    `json:"commit,omitempty"` // Git commit hash
	Warmup    int       `json:"warmup"`
	Repeats   int       `json:"repeats"`
	Results   []Result  `json:"results"`
}
