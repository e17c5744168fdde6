// Package config provides configuration management for labelsplit.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (LABELSPLIT_ prefix)
//  3. Config file (.labelsplit.yaml)
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Supported output line endings.
const (
	LineEndingCRLF = "crlf"
	LineEndingLF   = "lf"
)

// Config represents the global configuration for labelsplit.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables colored diff output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// LabelsColumn is the header name of the column holding label tokens.
	LabelsColumn string `mapstructure:"labels-column" json:"labelsColumn"`

	// Separator joins label tokens inside the labels column.
	Separator string `mapstructure:"separator" json:"separator"`

	// Substrings are the literal substrings excluded in exclude-substrings
	// mode.
	Substrings []string `mapstructure:"substrings" json:"substrings"`

	// LineEnding terminates output records: crlf or lf.
	LineEnding string `mapstructure:"line-ending" json:"lineEnding"`

	// RequiredVersion is an optional semver constraint the running binary
	// must satisfy, e.g. ">= 1.2".
	RequiredVersion string `mapstructure:"required-version" json:"requiredVersion,omitempty"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), not read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LogLevel:     LogLevelInfo,
		LogFormat:    LogFormatText,
		LabelsColumn: "Labels",
		Separator:    ";",
		Substrings:   []string{"only_symbol", "compare_str", "ogk_label"},
		LineEnding:   LineEndingCRLF,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	switch c.LineEnding {
	case LineEndingCRLF, LineEndingLF:
	default:
		return fmt.Errorf("invalid line ending %q: must be one of crlf, lf", c.LineEnding)
	}

	if strings.TrimSpace(c.LabelsColumn) == "" {
		return errors.New("labels column must not be empty")
	}

	if c.Separator == "" {
		return errors.New("label separator must not be empty")
	}

	for _, s := range c.Substrings {
		if s == "" {
			return errors.New("excluded substrings must not contain an empty string")
		}
	}

	if c.RequiredVersion != "" {
		if _, err := semver.NewConstraint(c.RequiredVersion); err != nil {
			return fmt.Errorf("invalid required-version %q: %w", c.RequiredVersion, err)
		}
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// UseLF reports whether output records end with a bare "\n".
func (c *Config) UseLF() bool {
	return c.LineEnding == LineEndingLF
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("no-color", d.NoColor)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("labels-column", d.LabelsColumn)
	v.SetDefault("separator", d.Separator)
	v.SetDefault("substrings", d.Substrings)
	v.SetDefault("line-ending", d.LineEnding)
	v.SetDefault("required-version", "")
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("LABELSPLIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	v.SetConfigName(".labelsplit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "labelsplit"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags binds the command's own flags and every persistent flag from cmd
// up to the root, so a subcommand flag named like a config key overrides it.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
