package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"unitbench/internal/benchmark"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = cellStyle.Foreground(lipgloss.Color("243"))
)

// Console renders a bordered table per run once every result is in.
type Console struct {
	w    io.Writer
	stat Stat
	grid *grid
}

// NewConsole creates a console sink reporting stat for each cell.
func NewConsole(w io.Writer, stat Stat) *Console {
	return &Console{w: w, stat: stat}
}

func (c *Console) Start(info benchmark.RunInfo) error {
	c.grid = newGrid(info)
	return nil
}

func (c *Console) Result(res benchmark.Result) error {
	return c.grid.add(res)
}

func (c *Console) End() error {
	info := c.grid.info

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(append([]string{"Values"}, info.Titles()...)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})

	for i, in := range info.Inputs {
		record := []string{in}
		for _, res := range c.grid.cells[i] {
			if res == nil {
				record = append(record, "-")
				continue
			}
			record = append(record, formatSeconds(c.stat.Value(*res)))
		}
		t.Row(record...)
	}

	heading := fmt.Sprintf("%s (%s, warmup %d, repeats %d)", suiteName(info), c.stat.Name, info.Warmup, info.Repeats)
	_, err := fmt.Fprintf(c.w, "%s\n%s\n", titleStyle.Render(heading), t.String())
	return err
}

func suiteName(info benchmark.RunInfo) string {
	if info.Suite == "" {
		return "benchmarks"
	}
	return info.Suite
}

// formatSeconds picks a unit so small timings stay readable.
func formatSeconds(s float64) string {
	switch {
	case s == 0:
		return "0s"
	case s < 1e-6:
		return fmt.Sprintf("%.1fns", s*1e9)
	case s < 1e-3:
		return fmt.Sprintf("%.2fµs", s*1e6)
	case s < 1:
		return fmt.Sprintf("%.2fms", s*1e3)
	default:
		return fmt.Sprintf("%.3fs", s)
	}
}
