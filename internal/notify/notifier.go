package notify

import (
	"context"
	"fmt"
	"strings"

	"unitbench/internal/benchmark"
)

// Notifier delivers a plain-text message somewhere people will see it.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// RegressionMessage summarizes the regressions of a suite run. It returns ""
// when there is nothing to report.
func RegressionMessage(suite string, regressions []benchmark.Comparison, threshold float64) string {
	if len(regressions) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*: %d benchmark(s) slower than the previous run by more than %.1f%%\n",
		suite, len(regressions), threshold)
	for _, c := range regressions {
		fmt.Fprintf(&sb, "• `%s` [%s] %s -> %s (%+.2f%%)\n",
			c.Name, c.Input, seconds(c.Prev.Wall().Mean), seconds(c.Curr.Wall().Mean), c.WallMeanDiff)
	}
	return sb.String()
}

func seconds(s float64) string {
	return fmt.Sprintf("%.6fs", s)
}
