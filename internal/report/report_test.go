package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitbench/internal/benchmark"
)

type samples struct{}

func (samples) Benchmarks(r *benchmark.Registry) {
	r.Add("bench_sample1", func(any) {})
	r.Add("bench_sample2", func(any) {})
}

func quietRunner(warmup, repeats int) *benchmark.Runner {
	return benchmark.NewRunner(
		benchmark.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		benchmark.WithWarmup(warmup),
		benchmark.WithRepeats(repeats),
	)
}

func info() benchmark.RunInfo {
	return benchmark.RunInfo{
		ID:    "run-1",
		Suite: "primes",
		Benchmarks: []benchmark.Spec{
			{Name: "bench_naive", Title: "Naive"},
			{Name: "bench_sieve", Title: "Sieve"},
		},
		Inputs:  []string{"10", "100"},
		Warmup:  1,
		Repeats: 2,
	}
}

func result(name, input string, walls ...float64) benchmark.Result {
	s := make([]benchmark.TimeSample, len(walls))
	for i, w := range walls {
		s[i] = benchmark.TimeSample{Wall: w, User: w / 2}
	}
	return benchmark.NewResult(name, input, s)
}

func TestCSV_HeaderOnlyWhenNothingTimed(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSV(&buf, WallMean)

	err := quietRunner(0, 0).Run(context.Background(), samples{}, benchmark.Config{}, sink)
	require.NoError(t, err)

	assert.Equal(t, "Values,Sample1,Sample2\n", buf.String())
}

func TestCSV_Grid(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSV(&buf, WallMean)

	require.NoError(t, sink.Start(info()))
	require.NoError(t, sink.Result(result("bench_naive", "10", 1, 3)))
	require.NoError(t, sink.Result(result("bench_sieve", "10", 0.5)))
	require.NoError(t, sink.Result(result("bench_naive", "100", 4)))
	require.NoError(t, sink.End())

	want := "Values,Naive,Sieve\n" +
		"10,2.000000,0.500000\n" +
		"100,4.000000,\n"
	assert.Equal(t, want, buf.String())
}

func TestCSV_SelectedStat(t *testing.T) {
	var buf bytes.Buffer
	stat, err := ParseStat("user_max")
	require.NoError(t, err)
	sink := NewCSV(&buf, stat)

	require.NoError(t, sink.Start(info()))
	require.NoError(t, sink.Result(result("bench_naive", "10", 1, 3)))
	require.NoError(t, sink.End())

	assert.Contains(t, buf.String(), "10,1.500000,\n")
}

func TestCSV_FromRunner(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSV(&buf, WallMean)

	err := quietRunner(0, 1).Run(context.Background(), samples{}, benchmark.Config{Inputs: benchmark.FixedInputs(1, 2)}, sink)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Values,Sample1,Sample2", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,"))
}

func TestCSV_RepeatedInputsKeepTheirRows(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSV(&buf, WallMean)

	err := quietRunner(0, 1).Run(context.Background(), samples{}, benchmark.Config{Inputs: benchmark.FixedInputs(10, 100, 10)}, sink)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "10,"))
	assert.True(t, strings.HasPrefix(lines[2], "100,"))
	assert.True(t, strings.HasPrefix(lines[3], "10,"))
	for _, line := range lines[1:] {
		assert.NotContains(t, line, ",,")
		assert.False(t, strings.HasSuffix(line, ","))
	}
}

func TestCSV_UnknownInputAppendsRow(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSV(&buf, WallMean)

	require.NoError(t, sink.Start(info()))
	require.NoError(t, sink.Result(result("bench_sieve", "100", 1)))
	require.NoError(t, sink.Result(result("bench_sieve", "1000", 2)))
	require.NoError(t, sink.End())

	want := "Values,Naive,Sieve\n" +
		"100,,1.000000\n" +
		"1000,,2.000000\n"
	assert.Equal(t, want, buf.String())
}

func TestCSV_UnknownBenchmark(t *testing.T) {
	sink := NewCSV(io.Discard, WallMean)
	require.NoError(t, sink.Start(info()))

	assert.Error(t, sink.Result(result("bench_other", "10", 1)))
}

func TestParseStat(t *testing.T) {
	s, err := ParseStat("wall_mean")
	require.NoError(t, err)
	assert.Equal(t, "wall_mean", s.Name)

	_, err = ParseStat("median")
	assert.ErrorContains(t, err, "unknown statistic")
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsole(&buf, WallMean)

	require.NoError(t, sink.Start(info()))
	require.NoError(t, sink.Result(result("bench_naive", "10", 0.002)))
	require.NoError(t, sink.End())

	out := buf.String()
	assert.Contains(t, out, "primes")
	assert.Contains(t, out, "Naive")
	assert.Contains(t, out, "Sieve")
	assert.Contains(t, out, "2.00ms")
	assert.Contains(t, out, "100")
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0s"},
		{5e-9, "5.0ns"},
		{1.5e-5, "15.00µs"},
		{0.25, "250.00ms"},
		{2, "2.000s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSeconds(tt.in))
	}
}

func TestMarkdown_Plain(t *testing.T) {
	var buf bytes.Buffer
	sink := NewMarkdown(&buf, WallMean, "")

	require.NoError(t, sink.Start(info()))
	require.NoError(t, sink.Result(result("bench_sieve", "100", 1)))
	require.NoError(t, sink.End())

	out := buf.String()
	assert.Contains(t, out, "## primes")
	assert.Contains(t, out, "| Values | Naive | Sieve |")
	assert.Contains(t, out, "| 100 | - | 1.000s |")
}

func TestMarkdown_Rendered(t *testing.T) {
	var buf bytes.Buffer
	sink := NewMarkdown(&buf, WallMean, "notty")

	require.NoError(t, sink.Start(info()))
	require.NoError(t, sink.Result(result("bench_sieve", "100", 1)))
	require.NoError(t, sink.End())

	assert.Contains(t, buf.String(), "Sieve")
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder("abc123")
	ri := info()
	ri.StartedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, rec.Start(ri))
	require.NoError(t, rec.Result(result("bench_naive", "10", 1)))

	run, done := rec.Run()
	assert.False(t, done)
	assert.Len(t, run.Results, 1)

	require.NoError(t, rec.End())
	run, done = rec.Run()
	assert.True(t, done)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "primes", run.Suite)
	assert.Equal(t, "abc123", run.Commit)
	assert.Equal(t, ri.StartedAt, run.Timestamp)
	assert.Equal(t, 2, run.Repeats)
}

type failingSink struct{ Null }

func (failingSink) Result(benchmark.Result) error { return errors.New("disk full") }

func TestMulti(t *testing.T) {
	rec := NewRecorder("")
	m := Multi{rec, failingSink{}}

	require.NoError(t, m.Start(info()))
	err := m.Result(result("bench_naive", "10", 1))
	assert.ErrorContains(t, err, "disk full")

	run, _ := rec.Run()
	assert.Len(t, run.Results, 1, "every sink sees the result")
	assert.NoError(t, m.End())
}

func TestNew(t *testing.T) {
	for _, f := range Formats {
		s, err := New(f, io.Discard, WallMean)
		require.NoError(t, err, f)
		assert.NotNil(t, s)
	}
	_, err := New("xml", io.Discard, WallMean)
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "FAIL", Status(12, 10))
	assert.Equal(t, "IMPR", Status(-12, 10))
	assert.Equal(t, "PASS", Status(10, 10))
	assert.Equal(t, "PASS", Status(-3, 10))
}

func TestWriteComparison(t *testing.T) {
	prev := benchmark.Run{Results: []benchmark.Result{result("bench_sieve", "100", 1)}}
	curr := benchmark.Run{Results: []benchmark.Result{result("bench_sieve", "100", 1.5), result("bench_naive", "100", 1)}}

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, benchmark.Compare(prev, curr), 10))

	out := buf.String()
	assert.Contains(t, out, "Sieve")
	assert.Contains(t, out, "+50.00%")
	assert.Contains(t, out, "FAIL")
	assert.NotContains(t, out, "Naive", "results without a previous value are not compared")

	buf.Reset()
	require.NoError(t, WriteComparison(&buf, nil, 10))
	assert.Contains(t, buf.String(), "No comparable results")
}
