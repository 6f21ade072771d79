package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"unitbench/internal/benchmark"
)

// Markdown renders the results as a markdown table. With a glamour style set
// the document is rendered for the terminal, otherwise the raw markdown is
// written.
type Markdown struct {
	w     io.Writer
	stat  Stat
	style string
	grid  *grid
}

// NewMarkdown creates a markdown sink. style is a glamour standard style name
// such as "dark", "light" or "notty"; an empty style writes plain markdown.
func NewMarkdown(w io.Writer, stat Stat, style string) *Markdown {
	return &Markdown{w: w, stat: stat, style: style}
}

func (m *Markdown) Start(info benchmark.RunInfo) error {
	m.grid = newGrid(info)
	return nil
}

func (m *Markdown) Result(res benchmark.Result) error {
	return m.grid.add(res)
}

func (m *Markdown) End() error {
	doc := m.document()
	if m.style == "" {
		_, err := io.WriteString(m.w, doc)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(doc)
	if err != nil {
		// Fallback to plain text
		_, err = io.WriteString(m.w, doc)
		return err
	}
	_, err = io.WriteString(m.w, out)
	return err
}

func (m *Markdown) document() string {
	info := m.grid.info
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", suiteName(info))
	fmt.Fprintf(&sb, "Statistic: `%s`, warmup %d, repeats %d\n\n", m.stat.Name, info.Warmup, info.Repeats)

	sb.WriteString("| Values |")
	for _, title := range info.Titles() {
		fmt.Fprintf(&sb, " %s |", title)
	}
	sb.WriteString("\n|---|")
	for range info.Benchmarks {
		sb.WriteString("---:|")
	}
	sb.WriteString("\n")

	for i, in := range info.Inputs {
		fmt.Fprintf(&sb, "| %s |", in)
		for _, res := range m.grid.cells[i] {
			if res == nil {
				sb.WriteString(" - |")
				continue
			}
			fmt.Fprintf(&sb, " %s |", formatSeconds(m.stat.Value(*res)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
