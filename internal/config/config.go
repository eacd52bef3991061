// Package config provides configuration types and helpers for logscrub.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the application-wide configuration, populated by viper from
// the config file, environment, and bound flags.
type Config struct {
	Format  string       `mapstructure:"format"`
	Verbose bool         `mapstructure:"verbose"`
	Redact  RedactConfig `mapstructure:"redact"`
}

// RedactConfig holds defaults for redaction runs.
type RedactConfig struct {
	// Preset names a built-in rule preset used instead of the defaults.
	Preset string `mapstructure:"preset"`

	// RuleFiles are JSON rule files appended to every run's rule list.
	RuleFiles []string `mapstructure:"rule_files"`

	// Encoding is the input character encoding (IANA name; default utf-8).
	Encoding string `mapstructure:"encoding"`

	// Errors selects the decode error policy: strict, replace, or ignore.
	Errors string `mapstructure:"errors"`

	// BackupSuffix, when set, preserves originals during in-place runs.
	BackupSuffix string `mapstructure:"backup_suffix"`
}

// Load unmarshals the current viper state into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
