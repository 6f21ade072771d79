package benchmark

import "fmt"

// Comparison pairs the same benchmark and input across two runs.
type Comparison struct {
	Name         string
	Input        string
	WallMeanDiff float64 // Percentage change
	UserMeanDiff float64 // Percentage change
	Prev         Result
	Curr         Result
}

type resultKey struct {
	name, input string
}

// Compare runs comparison between two results.
// It returns a comparison for every (benchmark, input) present in both runs,
// in the order of curr.
func Compare(prev, curr Run) []Comparison {
	prevMap := make(map[resultKey]Result, len(prev.Results))
	for _, r := range prev.Results {
		prevMap[resultKey{r.Name, r.Input}] = r
	}

	var comparisons []Comparison
	for _, c := range curr.Results {
		p, ok := prevMap[resultKey{c.Name, c.Input}]
		if !ok {
			continue
		}
		comparisons = append(comparisons, Comparison{
			Name:         c.Name,
			Input:        c.Input,
			WallMeanDiff: percentChange(p.Wall().Mean, c.Wall().Mean),
			UserMeanDiff: percentChange(p.User().Mean, c.User().Mean),
			Prev:         p,
			Curr:         c,
		})
	}
	return comparisons
}

func percentChange(prev, curr float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}

// Regressions returns the comparisons whose wall mean grew by more than
// threshold percent.
func Regressions(comps []Comparison, threshold float64) []Comparison {
	var out []Comparison
	for _, c := range comps {
		if c.WallMeanDiff > threshold {
			out = append(out, c)
		}
	}
	return out
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s[%s]: %+.2f%% wall", c.Name, c.Input, c.WallMeanDiff)
}
