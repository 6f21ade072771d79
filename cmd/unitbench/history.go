package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"unitbench/internal/config"
	"unitbench/internal/db"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [suite]",
		Short: "Show stored runs",
		Long:  `Lists the runs saved in the history store, oldest first. Without a suite every run is shown.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := config.Current()
			limit, _ := cmd.Flags().GetInt("limit")

			suite := ""
			if len(args) == 1 {
				suite = args[0]
			}

			store, err := newStoreFunc(db.StoreConfig{Type: s.HistoryBackend, ConnectionString: s.HistoryDSN})
			if err != nil {
				return fmt.Errorf("failed to open history store: %w", err)
			}
			defer store.Close()

			runs, err := store.LoadAll(suite)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[len(runs)-limit:]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "RUN\tSUITE\tTIME\tCOMMIT\tWARMUP\tREPEATS\tRESULTS")
			for _, r := range runs {
				commit := r.Commit
				if commit == "" {
					commit = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
					shortID(r.ID), r.Suite, r.Timestamp.Local().Format("2006-01-02 15:04:05"), commit, r.Warmup, r.Repeats, len(r.Results))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int("limit", 0, "Only show the most recent N runs")
	cmd.Flags().String("backend", "json", "History backend: json, sqlite or postgres")
	cmd.Flags().String("dsn", "", "History file path or Postgres DSN (default depends on the backend)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
