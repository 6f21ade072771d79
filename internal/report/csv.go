package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"unitbench/internal/benchmark"
)

// CSV writes one row per input value and one column per benchmark. The header
// is written on Start, the rows on End.
type CSV struct {
	w    *csv.Writer
	stat Stat
	grid *grid
}

// NewCSV creates a CSV sink reporting stat for each cell.
func NewCSV(w io.Writer, stat Stat) *CSV {
	return &CSV{w: csv.NewWriter(w), stat: stat}
}

func (c *CSV) Start(info benchmark.RunInfo) error {
	c.grid = newGrid(info)
	header := append([]string{"Values"}, info.Titles()...)
	if err := c.w.Write(header); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSV) Result(res benchmark.Result) error {
	return c.grid.add(res)
}

func (c *CSV) End() error {
	for i, in := range c.grid.info.Inputs {
		if !c.hasResults(i) {
			continue
		}
		record := make([]string, 0, len(c.grid.cells[i])+1)
		record = append(record, in)
		for _, res := range c.grid.cells[i] {
			if res == nil {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(c.stat.Value(*res), 'f', 6, 64))
		}
		if err := c.w.Write(record); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSV) hasResults(row int) bool {
	for _, res := range c.grid.cells[row] {
		if res != nil {
			return true
		}
	}
	return false
}
