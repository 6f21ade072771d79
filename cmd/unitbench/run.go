package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"unitbench/internal/benchmark"
	"unitbench/internal/config"
	"unitbench/internal/db"
	"unitbench/internal/notify"
	"unitbench/internal/report"
	"unitbench/internal/suites"
	"unitbench/internal/telemetry"
)

// ErrRegression is returned by run when a benchmark slowed down by more than
// the fail threshold.
var ErrRegression = errors.New("performance regression")

// Test seams.
var (
	askOneFunc   = survey.AskOne
	isTerminal   = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) }
	gitCommit    = getGitCommit
	newStoreFunc = func(cfg db.StoreConfig) (benchmark.Store, error) { return db.NewStore(cfg) }
	newNotifier  = func(webhookURL string) notify.Notifier { return notify.NewSlackNotifier(webhookURL) }
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [suite...]",
		Short: "Run benchmark suites",
		Long: `Runs the named suites (all of them when none are given and stdin is not a
terminal; otherwise you are asked to pick). Results are reported on stdout in
the selected format. With --save the run is appended to the history store,
with --compare it is compared against the previous run of the same suite.`,
		RunE: runSuites,
	}

	cmd.Flags().Int("warmup", benchmark.DefaultWarmup, "Untimed executions per input (overrides the suite)")
	cmd.Flags().Int("repeats", benchmark.DefaultRepeats, "Timed executions per input (overrides the suite)")
	cmd.Flags().StringP("format", "f", "console", "Report format: "+strings.Join(report.Formats, ", "))
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().String("stat", "wall_mean", "Statistic shown per cell: "+strings.Join(report.StatNames(), ", "))
	cmd.Flags().Int("max-inputs", 0, "Pull at most this many inputs per benchmark (0 means all)")
	cmd.Flags().String("run", "", "Only run benchmarks whose name matches this regular expression")
	cmd.Flags().Bool("gc", false, "Force a garbage collection before each timed loop")
	cmd.Flags().Bool("save", false, "Save results to history")
	cmd.Flags().Bool("compare", false, "Compare with the previous saved run")
	cmd.Flags().String("backend", "json", "History backend: json, sqlite or postgres")
	cmd.Flags().String("dsn", "", "History file path or Postgres DSN (default depends on the backend)")
	cmd.Flags().Float64("threshold", 10.0, "Percentage threshold for regression warning")
	cmd.Flags().Float64("fail-threshold", 0, "Fail when a benchmark slows down by more than this percentage (0 disables)")
	cmd.Flags().String("pushgateway", "", "Push metrics to this Prometheus Pushgateway URL")

	return cmd
}

func runSuites(cmd *cobra.Command, args []string) error {
	s := config.Current()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	selected, err := selectSuites(args)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No suites selected.")
		return nil
	}
	telemetry.LogDebug("suites selected", "suites", suiteNames(selected))

	stat, err := report.ParseStat(s.Stat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.Output != "" {
		f, err := os.Create(s.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var store benchmark.Store
	if s.HistoryEnabled || s.Compare {
		store, err = newStoreFunc(db.StoreConfig{Type: s.HistoryBackend, ConnectionString: s.HistoryDSN})
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
	}

	var metrics *telemetry.Metrics
	if s.Pushgateway != "" {
		if metrics, err = telemetry.NewMetrics(); err != nil {
			return err
		}
	}

	commit, _ := gitCommit()
	opts := runnerOptions(s)

	var regressions []error
	for _, suite := range selected {
		run, err := runSuite(ctx, suite, opts, out, stat, s.Format, commit, metrics)
		if metrics != nil {
			metrics.RecordRun(suite.Name, err)
		}
		if err != nil {
			return fmt.Errorf("suite %s: %w", suite.Name, err)
		}

		if s.Compare {
			if err := compareRun(ctx, cmd.ErrOrStderr(), store, run, s); err != nil {
				regressions = append(regressions, err)
			}
		}

		if s.HistoryEnabled {
			if err := store.Save(run); err != nil {
				return fmt.Errorf("failed to save history: %w", err)
			}
			telemetry.LogInfo("run saved", "suite", suite.Name, "run_id", run.ID, "backend", s.HistoryBackend)
		}
	}

	if metrics != nil {
		if err := metrics.Push(ctx, s.Pushgateway, s.MetricsJob); err != nil {
			telemetry.LogError("metrics push failed", err)
		}
	}

	return errors.Join(regressions...)
}

func runnerOptions(s config.Settings) []benchmark.Option {
	opts := []benchmark.Option{
		benchmark.WithLogger(slog.Default()),
		benchmark.WithGC(s.GC),
	}
	if s.Warmup != nil {
		opts = append(opts, benchmark.WithWarmup(*s.Warmup))
	}
	if s.Repeats != nil {
		opts = append(opts, benchmark.WithRepeats(*s.Repeats))
	}
	if s.MaxInputs > 0 {
		opts = append(opts, benchmark.WithMaxInputs(s.MaxInputs))
	}
	if s.Filter != "" {
		// Already validated.
		opts = append(opts, benchmark.WithFilter(regexp.MustCompile(s.Filter)))
	}
	return opts
}

func runSuite(ctx context.Context, suite suites.Suite, opts []benchmark.Option, out io.Writer, stat report.Stat, format, commit string, metrics *telemetry.Metrics) (benchmark.Run, error) {
	sink, err := report.New(format, out, stat)
	if err != nil {
		return benchmark.Run{}, err
	}
	rec := report.NewRecorder(commit)
	sinks := report.Multi{sink, rec}
	if metrics != nil {
		sinks = append(sinks, metrics)
	}

	c := suite.New()
	runner := benchmark.NewRunner(append(opts, benchmark.WithSuite(suite.Name))...)
	if err := runner.Run(ctx, c, benchmark.ConfigFor(c), sinks); err != nil {
		return benchmark.Run{}, err
	}

	run, _ := rec.Run()
	return run, nil
}

// compareRun prints the comparison against the latest stored run, notifies
// about regressions and returns ErrRegression past the fail threshold.
func compareRun(ctx context.Context, w io.Writer, store benchmark.Store, run benchmark.Run, s config.Settings) error {
	prev, err := store.LoadLatest(run.Suite)
	if err != nil {
		telemetry.LogError("failed to load previous run", err, "suite", run.Suite)
		return nil
	}
	if prev == nil {
		fmt.Fprintf(w, "No previous run of %s to compare with.\n", run.Suite)
		return nil
	}

	comps := benchmark.Compare(*prev, run)
	fmt.Fprintf(w, "\nComparison with run %s (%s):\n", prev.ID, prev.Timestamp.Format("2006-01-02 15:04:05"))
	if err := report.WriteComparison(w, comps, s.Threshold); err != nil {
		return err
	}

	regs := benchmark.Regressions(comps, s.Threshold)
	if len(regs) > 0 && s.SlackWebhookURL != "" {
		msg := notify.RegressionMessage(run.Suite, regs, s.Threshold)
		if err := newNotifier(s.SlackWebhookURL).Notify(ctx, msg); err != nil {
			telemetry.LogError("regression notification failed", err, "suite", run.Suite)
		}
	}

	if s.FailThreshold > 0 {
		if failing := benchmark.Regressions(comps, s.FailThreshold); len(failing) > 0 {
			names := make([]string, len(failing))
			for i, c := range failing {
				names[i] = c.String()
			}
			return fmt.Errorf("%w in %s: %s", ErrRegression, run.Suite, strings.Join(names, "; "))
		}
	}
	return nil
}

// selectSuites resolves suite names. Without names it prompts on a terminal
// and selects every suite otherwise.
func selectSuites(names []string) ([]suites.Suite, error) {
	if len(names) == 0 {
		if !isTerminal() {
			return suites.All(), nil
		}
		return promptSuites()
	}

	selected := make([]suites.Suite, 0, len(names))
	for _, name := range names {
		s, err := suites.Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, s)
	}
	return selected, nil
}

func promptSuites() ([]suites.Suite, error) {
	all := suites.All()
	options := make([]string, len(all))
	byLabel := make(map[string]suites.Suite, len(all))
	for i, s := range all {
		label := fmt.Sprintf("%s - %s", s.Name, s.Description)
		options[i] = label
		byLabel[label] = s
	}

	var labels []string
	prompt := &survey.MultiSelect{
		Message: "Select suites to run:",
		Options: options,
		Default: options,
	}
	if err := askOneFunc(prompt, &labels); err != nil {
		return nil, err
	}

	selected := make([]suites.Suite, 0, len(labels))
	for _, l := range labels {
		selected = append(selected, byLabel[l])
	}
	return selected, nil
}

func getGitCommit() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func suiteNames(selected []suites.Suite) string {
	names := make([]string, len(selected))
	for i, s := range selected {
		names[i] = s.Name
	}
	return strings.Join(names, ",")
}
