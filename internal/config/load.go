package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. UNITBENCH_REPEATS.
const EnvPrefix = "UNITBENCH"

// Load initializes the configuration from .env, the config file and
// environment variables.
func Load(cfgFile string) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("unitbench")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers the default of every key. warmup and repeats have
// none so containers keep their own counts unless overridden.
func SetDefaults() {
	viper.SetDefault("format", "console")
	viper.SetDefault("stat", "wall_mean")
	viper.SetDefault("output", "")
	viper.SetDefault("run", "")
	viper.SetDefault("max_inputs", 0)
	viper.SetDefault("gc", false)
	viper.SetDefault("verbose", false)

	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.backend", "json")
	// An empty dsn selects the backend's default location.
	viper.SetDefault("history.dsn", "")
	viper.SetDefault("compare", false)
	viper.SetDefault("threshold", 10.0)
	viper.SetDefault("fail_threshold", 0.0)

	viper.SetDefault("metrics.pushgateway", "")
	viper.SetDefault("metrics.job", "unitbench")

	viper.SetDefault("notifications.slack.webhook_url", "")

	viper.SetDefault("log.file", "")
	viper.SetDefault("log.format", "json")
}

// Settings is a snapshot of the loaded configuration.
type Settings struct {
	Warmup  *int
	Repeats *int
	Format  string
	Stat    string
	Output  string
	Filter  string
	GC      bool
	Verbose bool
	// MaxInputs bounds the inputs pulled per benchmark; 0 pulls them all.
	MaxInputs int

	HistoryEnabled bool
	HistoryBackend string
	HistoryDSN     string
	Compare        bool
	Threshold      float64
	FailThreshold  float64

	Pushgateway string
	MetricsJob  string

	SlackWebhookURL string

	LogFile   string
	LogFormat string
}

// Current reads the settings from viper.
func Current() Settings {
	s := Settings{
		Format:          viper.GetString("format"),
		Stat:            viper.GetString("stat"),
		Output:          viper.GetString("output"),
		Filter:          viper.GetString("run"),
		MaxInputs:       viper.GetInt("max_inputs"),
		GC:              viper.GetBool("gc"),
		Verbose:         viper.GetBool("verbose"),
		HistoryEnabled:  viper.GetBool("history.enabled"),
		HistoryBackend:  viper.GetString("history.backend"),
		HistoryDSN:      viper.GetString("history.dsn"),
		Compare:         viper.GetBool("compare"),
		Threshold:       viper.GetFloat64("threshold"),
		FailThreshold:   viper.GetFloat64("fail_threshold"),
		Pushgateway:     viper.GetString("metrics.pushgateway"),
		MetricsJob:      viper.GetString("metrics.job"),
		SlackWebhookURL: viper.GetString("notifications.slack.webhook_url"),
		LogFile:         viper.GetString("log.file"),
		LogFormat:       viper.GetString("log.format"),
	}
	if viper.IsSet("warmup") {
		n := viper.GetInt("warmup")
		s.Warmup = &n
	}
	if viper.IsSet("repeats") {
		n := viper.GetInt("repeats")
		s.Repeats = &n
	}
	return s
}
