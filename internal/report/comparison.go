package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"unitbench/internal/benchmark"
)

var (
	failStyle = cellStyle.Foreground(lipgloss.Color("160")).Bold(true)
	imprStyle = cellStyle.Foreground(lipgloss.Color("34"))
)

// Status classifies a wall-time change against threshold percent.
func Status(diff, threshold float64) string {
	switch {
	case diff > threshold:
		return "FAIL"
	case diff < -threshold:
		return "IMPR"
	default:
		return "PASS"
	}
}

// WriteComparison renders the comparison of a run against the previous one.
func WriteComparison(w io.Writer, comps []benchmark.Comparison, threshold float64) error {
	if len(comps) == 0 {
		_, err := fmt.Fprintln(w, "No comparable results in the previous run.")
		return err
	}

	statuses := make([]string, len(comps))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("BENCHMARK", "INPUT", "PREV", "CURR", "DIFF %", "STATUS")

	for i, c := range comps {
		statuses[i] = Status(c.WallMeanDiff, threshold)
		t.Row(
			benchmark.Title(c.Name),
			c.Input,
			formatSeconds(c.Prev.Wall().Mean),
			formatSeconds(c.Curr.Wall().Mean),
			fmt.Sprintf("%+.2f%%", c.WallMeanDiff),
			statuses[i],
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == 5 && statuses[row] == "FAIL":
			return failStyle
		case col == 5 && statuses[row] == "IMPR":
			return imprStyle
		default:
			return cellStyle
		}
	})

	_, err := fmt.Fprintln(w, t.String())
	return err
}
