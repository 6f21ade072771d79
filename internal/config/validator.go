package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"unitbench/internal/report"
)

var backends = []string{"json", "sqlite", "postgres"}

// ValidateConfig validates configuration values and returns an error listing
// every invalid one. Call it after Load and after flags are bound.
func ValidateConfig() error {
	var errors []string

	for _, key := range []string{"warmup", "repeats", "max_inputs"} {
		if viper.IsSet(key) {
			if n := viper.GetInt(key); n < 0 {
				errors = append(errors, fmt.Sprintf("%s must not be negative, got: %d", key, n))
			}
		}
	}

	if f := viper.GetString("format"); !slices.Contains(report.Formats, f) {
		errors = append(errors, fmt.Sprintf("format must be one of %s, got: %q", strings.Join(report.Formats, ", "), f))
	}

	if s := viper.GetString("stat"); !slices.Contains(report.StatNames(), s) {
		errors = append(errors, fmt.Sprintf("stat must be one of %s, got: %q", strings.Join(report.StatNames(), ", "), s))
	}

	if pattern := viper.GetString("run"); pattern != "" {
		if _, err := regexp.Compile(pattern); err != nil {
			errors = append(errors, fmt.Sprintf("run must be a valid regular expression: %v", err))
		}
	}

	if viper.GetBool("history.enabled") || viper.GetBool("compare") {
		if b := viper.GetString("history.backend"); !slices.Contains(backends, b) {
			errors = append(errors, fmt.Sprintf("history.backend must be one of %s, got: %q", strings.Join(backends, ", "), b))
		}
		if viper.GetString("history.backend") == "postgres" && viper.GetString("history.dsn") == "" {
			errors = append(errors, "history.dsn must be set for the postgres backend")
		}
	}

	for _, key := range []string{"threshold", "fail_threshold"} {
		if v := viper.GetFloat64(key); v < 0 {
			errors = append(errors, fmt.Sprintf("%s must not be negative, got: %v", key, v))
		}
	}

	if f := viper.GetString("log.format"); f != "json" && f != "text" {
		errors = append(errors, fmt.Sprintf("log.format must be json or text, got: %q", f))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errors, "\n  "))
	}

	return nil
}
