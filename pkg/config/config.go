// Package config loads settings for the symtab command from a YAML file and
// SYMTAB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidBenchSize   = errors.New("bench sizes must be positive")
	ErrInvalidOrder       = errors.New("bench order must be sorted, reversed or random")
	ErrInvalidImpl        = errors.New("unknown table implementation")
	ErrInvalidOperations  = errors.New("verify operations must be positive")
	ErrInvalidKeySpace    = errors.New("verify key space must be positive")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("log format must be text or json")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidColor       = errors.New("color must be auto, always or never")
)

// Insertion orders for bench.
const (
	OrderSorted   = "sorted"
	OrderReversed = "reversed"
	OrderRandom   = "random"
)

// Table implementations.
const (
	ImplBST  = "bst"
	ImplLLRB = "llrb"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// envPrefix prefixes environment overrides, e.g. SYMTAB_VERIFY_OPERATIONS.
const envPrefix = "SYMTAB"

// Config holds all configuration for the symtab command.
type Config struct {
	Bench     BenchConfig     `mapstructure:"bench"`
	Verify    VerifyConfig    `mapstructure:"verify"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Output    OutputConfig    `mapstructure:"output"`
}

// BenchConfig controls the bench command.
type BenchConfig struct {
	Sizes []int    `mapstructure:"sizes"`
	Impls []string `mapstructure:"impls"`
	Order string   `mapstructure:"order"`
	Seed  uint64   `mapstructure:"seed"`
}

// VerifyConfig controls the randomized cross-check run by verify.
type VerifyConfig struct {
	Operations int    `mapstructure:"operations"`
	KeySpace   int    `mapstructure:"key_space"`
	Seed       uint64 `mapstructure:"seed"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig configures OTLP export. An empty endpoint disables it.
type TelemetryConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Headers     string  `mapstructure:"headers"`
	Environment string  `mapstructure:"environment"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Insecure    bool    `mapstructure:"insecure"`
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	Color string `mapstructure:"color"`
}

// LoadConfig loads configuration from configPath, or from symtab.yaml in
// the working directory or $HOME/.config/symtab when configPath is empty.
// Environment variables override file values.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("symtab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/symtab")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := v.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bench.sizes", DefaultBenchSizes)
	v.SetDefault("bench.impls", DefaultBenchImpls)
	v.SetDefault("bench.order", DefaultBenchOrder)
	v.SetDefault("bench.seed", DefaultBenchSeed)

	v.SetDefault("verify.operations", DefaultVerifyOperations)
	v.SetDefault("verify.key_space", DefaultVerifyKeySpace)
	v.SetDefault("verify.seed", DefaultVerifySeed)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.headers", "")
	v.SetDefault("telemetry.environment", "")
	v.SetDefault("telemetry.sample_ratio", 0.0)
	v.SetDefault("telemetry.insecure", false)

	v.SetDefault("output.color", DefaultColor)
}

func validateConfig(config *Config) error {
	for _, size := range config.Bench.Sizes {
		if size <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBenchSize, size)
		}
	}

	if !slices.Contains([]string{OrderSorted, OrderReversed, OrderRandom}, config.Bench.Order) {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, config.Bench.Order)
	}

	for _, impl := range config.Bench.Impls {
		if impl != ImplBST && impl != ImplLLRB {
			return fmt.Errorf("%w: %q", ErrInvalidImpl, impl)
		}
	}

	if config.Verify.Operations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOperations, config.Verify.Operations)
	}

	if config.Verify.KeySpace <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidKeySpace, config.Verify.KeySpace)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.Logging.Level)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if config.Logging.Format != FormatText && config.Logging.Format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, config.Output.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, config.Output.Color)
	}

	return nil
}
