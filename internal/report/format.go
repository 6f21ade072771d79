package report

import (
	"fmt"
	"io"

	"unitbench/internal/benchmark"
)

// Formats lists the output formats New accepts.
var Formats = []string{"console", "csv", "markdown", "md"}

// New creates the sink for format writing to w.
func New(format string, w io.Writer, stat Stat) (benchmark.Sink, error) {
	switch format {
	case "", "console":
		return NewConsole(w, stat), nil
	case "csv":
		return NewCSV(w, stat), nil
	case "markdown", "md":
		return NewMarkdown(w, stat, "notty"), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
