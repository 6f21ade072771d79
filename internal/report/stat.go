package report

import (
	"fmt"
	"strings"

	"unitbench/internal/benchmark"
)

// Stat selects the number a tabular report shows for a result.
type Stat struct {
	Name  string
	Value func(benchmark.Result) float64
}

var stats = []Stat{
	{"wall_mean", func(r benchmark.Result) float64 { return r.Wall().Mean }},
	{"wall_min", func(r benchmark.Result) float64 { return r.Wall().Min }},
	{"wall_max", func(r benchmark.Result) float64 { return r.Wall().Max }},
	{"wall_stddev", func(r benchmark.Result) float64 { return r.Wall().Stddev }},
	{"user_mean", func(r benchmark.Result) float64 { return r.User().Mean }},
	{"user_min", func(r benchmark.Result) float64 { return r.User().Min }},
	{"user_max", func(r benchmark.Result) float64 { return r.User().Max }},
	{"user_stddev", func(r benchmark.Result) float64 { return r.User().Stddev }},
	{"system_mean", func(r benchmark.Result) float64 { return r.System().Mean }},
}

// WallMean is the default statistic.
var WallMean = stats[0]

// StatNames lists the accepted statistic names.
func StatNames() []string {
	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Name
	}
	return names
}

// ParseStat looks a statistic up by name.
func ParseStat(name string) (Stat, error) {
	for _, s := range stats {
		if s.Name == name {
			return s, nil
		}
	}
	return Stat{}, fmt.Errorf("unknown statistic %q (want one of %s)", name, strings.Join(StatNames(), ", "))
}

// grid buffers results as rows of inputs and columns of benchmarks. Rows are
// positional, so a repeated input label gets a row per occurrence.
type grid struct {
	info  benchmark.RunInfo
	col   map[string]int
	next  []int
	cells [][]*benchmark.Result
}

func newGrid(info benchmark.RunInfo) *grid {
	g := &grid{
		info:  info,
		col:   make(map[string]int, len(info.Benchmarks)),
		next:  make([]int, len(info.Benchmarks)),
		cells: make([][]*benchmark.Result, len(info.Inputs)),
	}
	for i, b := range info.Benchmarks {
		g.col[b.Name] = i
	}
	for i := range info.Inputs {
		g.cells[i] = make([]*benchmark.Result, len(info.Benchmarks))
	}
	return g
}

// add places res in the first row at or after its benchmark's last row whose
// label matches.
func (g *grid) add(res benchmark.Result) error {
	c, ok := g.col[res.Name]
	if !ok {
		return fmt.Errorf("result for unknown benchmark %q", res.Name)
	}
	r := g.next[c]
	for r < len(g.info.Inputs) && g.info.Inputs[r] != res.Input {
		r++
	}
	if r == len(g.info.Inputs) {
		// Inputs that were not announced at start still get a row.
		g.info.Inputs = append(g.info.Inputs, res.Input)
		g.cells = append(g.cells, make([]*benchmark.Result, len(g.info.Benchmarks)))
	}
	g.cells[r][c] = &res
	g.next[c] = r + 1
	return nil
}
