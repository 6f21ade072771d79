package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"unitbench/internal/config"
	"unitbench/internal/telemetry"
)

var exit = os.Exit

// flagKeys maps flag names to configuration keys where they differ.
var flagKeys = map[string]string{
	"save":           "history.enabled",
	"backend":        "history.backend",
	"dsn":            "history.dsn",
	"fail-threshold": "fail_threshold",
	"max-inputs":     "max_inputs",
	"pushgateway":    "metrics.pushgateway",
	"log-file":       "log.file",
	"log-format":     "log.format",
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "unitbench",
		Short: "Run, report and track micro-benchmark suites",
		Long: `unitbench runs benchmark suites with warmup and repeated timing, then
reports wall-clock, user and system time per benchmark and input value.
Runs can be saved to a history store and compared against the previous run.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, cfgFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./unitbench.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Also append logs to this file")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format on stderr (json or text)")

	rootCmd.AddCommand(newRunCmd(), newListCmd(), newHistoryCmd())
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'unitbench --help' for usage.")
		exit(1)
	}
}

// initConfig reads the config file and environment, binds the flags of the
// executing command, validates the result and sets up logging.
func initConfig(cmd *cobra.Command, cfgFile string) error {
	if err := config.Load(cfgFile); err != nil {
		return err
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" || bindErr != nil {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		bindErr = viper.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("failed to bind flags: %w", bindErr)
	}

	if err := config.ValidateConfig(); err != nil {
		return err
	}

	s := config.Current()
	telemetry.InitLogger(s.Verbose, s.LogFile, s.LogFormat)
	return nil
}
