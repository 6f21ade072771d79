package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"unitbench/internal/benchmark"
	"unitbench/internal/suites"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [suite...]",
		Short: "List suites and their benchmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := suites.All()
			if len(args) > 0 {
				var err error
				if selected, err = selectSuites(args); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			for _, s := range selected {
				c := s.New()
				specs, err := benchmark.Discover(c)
				if err != nil {
					return fmt.Errorf("suite %s: %w", s.Name, err)
				}
				cfg := benchmark.ConfigFor(c)

				fmt.Fprintf(w, "%s\t%s\t(warmup %d, repeats %d)\n", s.Name, s.Description, cfg.Warmup, cfg.Repeats)
				for _, spec := range specs {
					fmt.Fprintf(w, "  %s\t%s\t\n", spec.Name, spec.Title)
				}
			}
			return w.Flush()
		},
	}
}
