// Package config loads application configuration from defaults, an
// optional YAML file, and environment variables, in increasing order of
// precedence. Environment variables use the SPICEHOLD prefix.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Forecast ForecastConfig `yaml:"forecast" envconfig:"FORECAST"`
	Decision DecisionConfig `yaml:"decision" envconfig:"DECISION"`
	Matching MatchingConfig `yaml:"matching" envconfig:"MATCHING"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system locations used by the CLI tools.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	RawDir     string `yaml:"raw_dir" envconfig:"RAW_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// CleaningConfig parameterizes the quality validator.
type CleaningConfig struct {
	// PriceCeiling is the implausibility ceiling in Rs/kg. Prices above it
	// are treated as transcription errors, not market prices.
	PriceCeiling float64 `yaml:"price_ceiling" envconfig:"PRICE_CEILING" validate:"gt=0"`
}

// ForecastConfig parameterizes train/validate and forecast generation.
type ForecastConfig struct {
	HoldoutFraction float64 `yaml:"holdout_fraction" envconfig:"HOLDOUT_FRACTION" validate:"gt=0,lt=1"`
	HorizonDays     int     `yaml:"horizon_days" envconfig:"HORIZON_DAYS" validate:"gt=0"`
}

// DecisionConfig parameterizes the sell/hold decision engine.
type DecisionConfig struct {
	// HoldThresholdPct is the minimum expected gain, in percent, required
	// to recommend holding rather than selling.
	HoldThresholdPct float64 `yaml:"hold_threshold_pct" envconfig:"HOLD_THRESHOLD_PCT" validate:"min=0"`
}

// MatchingConfig parameterizes the exporter matching scorer. Weights are
// taken as supplied; they are not required to sum to 1 and are never
// renormalized.
type MatchingConfig struct {
	ReferencePrice    float64 `yaml:"reference_price" envconfig:"REFERENCE_PRICE" validate:"gt=0"`
	PaymentWindowDays int     `yaml:"payment_window_days" envconfig:"PAYMENT_WINDOW_DAYS" validate:"gt=0"`
	Weights           Weights `yaml:"weights" envconfig:"WEIGHTS"`
}

// Weights are the externally supplied exporter score weights.
type Weights struct {
	Price            float64 `yaml:"price" envconfig:"PRICE"`
	PaymentSpeed     float64 `yaml:"payment_speed" envconfig:"PAYMENT_SPEED"`
	Reputation       float64 `yaml:"reputation" envconfig:"REPUTATION"`
	LogisticsSupport float64 `yaml:"logistics_support" envconfig:"LOGISTICS_SUPPORT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/spicehold.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			RawDir:     "data/raw",
			ReportsDir: "data/reports",
			LogsDir:    "logs",
		},
		Cleaning: CleaningConfig{
			PriceCeiling: 5000,
		},
		Forecast: ForecastConfig{
			HoldoutFraction: 0.2,
			HorizonDays:     30,
		},
		Decision: DecisionConfig{
			HoldThresholdPct: 2.0,
		},
		Matching: MatchingConfig{
			ReferencePrice:    3500,
			PaymentWindowDays: 20,
			Weights: Weights{
				Price:            0.4,
				PaymentSpeed:     0.2,
				Reputation:       0.3,
				LogisticsSupport: 0.1,
			},
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// configFile (skipped when empty or absent), and SPICEHOLD_* environment
// variables, then validates the result.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("SPICEHOLD", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
