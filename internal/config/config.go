// Package config provides configuration loading for uclsim.
// Order: defaults -> YAML file -> .env file -> environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/loirouge414/Who-is-UCL-winner/internal/clubelo"
	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
)

// Config contains all uclsim settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"server"`
	Ratings    RatingsConfig    `yaml:"ratings"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds the model parameters and run settings.
type SimulationConfig struct {
	league.Params `yaml:",inline"`

	// Runs is the number of tournaments simulated for an odds estimate.
	Runs int `yaml:"runs"`

	// Seed fixes the random stream. 0 picks a time-based seed.
	Seed uint64 `yaml:"seed"`
}

type DatabaseConfig struct {
	// URL is a lib/pq connection string.
	URL string `yaml:"url"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`

	// MaxRuns caps the runs a single /odds request may ask for.
	MaxRuns int `yaml:"max_runs"`

	// OddsRate and OddsBurst throttle /odds requests (per second). A zero
	// rate disables throttling.
	OddsRate  float64 `yaml:"odds_rate"`
	OddsBurst int     `yaml:"odds_burst"`
}

// RatingsConfig configures rating acquisition for the import command.
type RatingsConfig struct {
	ClubEloURL string        `yaml:"clubelo_url"`
	Date       string        `yaml:"date"` // YYYY-MM-DD snapshot day
	Roster     string        `yaml:"roster"`
	Fuzzy      bool          `yaml:"fuzzy"`
	Timeout    time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	// Level sets the log verbosity: "warn", "info" (default), "debug" or "trace".
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Params: league.DefaultParams(),
			Runs:   10_000,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			MaxRuns:   100_000,
			OddsRate:  1,
			OddsBurst: 5,
		},
		Ratings: RatingsConfig{
			ClubEloURL: clubelo.DefaultBaseURL,
			Date:       "2025-09-01",
			Roster:     "data/ucl_teams_2025_26.csv",
			Timeout:    10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. path may be empty; envFile is optional and
// silently skipped when missing.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.Simulation.Params.Validate(); err != nil {
		return err
	}
	if c.Simulation.Runs <= 0 {
		return fmt.Errorf("simulation.runs must be positive, got %d", c.Simulation.Runs)
	}
	if c.Server.MaxRuns <= 0 {
		return fmt.Errorf("server.max_runs must be positive, got %d", c.Server.MaxRuns)
	}
	if c.Server.OddsRate < 0 || c.Server.OddsBurst < 0 {
		return fmt.Errorf("server.odds_rate and server.odds_burst must not be negative")
	}
	if _, err := c.Ratings.SnapshotDate(); err != nil {
		return err
	}

	validLevels := map[string]bool{"warn": true, "info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: warn, info, debug, trace)", c.Logging.Level)
	}
	return nil
}

// SnapshotDate parses Date.
func (r RatingsConfig) SnapshotDate() (time.Time, error) {
	d, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("ratings.date: %w", err)
	}
	return d, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("UCLSIM_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("UCLSIM_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("UCLSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("UCLSIM_CLUBELO_URL"); v != "" {
		cfg.Ratings.ClubEloURL = v
	}

	if v := os.Getenv("UCLSIM_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("UCLSIM_SEED: %w", err)
		}
		cfg.Simulation.Seed = n
	}
	if v := os.Getenv("UCLSIM_RUNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UCLSIM_RUNS: %w", err)
		}
		cfg.Simulation.Runs = n
	}
	if v := os.Getenv("UCLSIM_SENSITIVITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("UCLSIM_SENSITIVITY: %w", err)
		}
		cfg.Simulation.Sensitivity = f
	}
	if v := os.Getenv("UCLSIM_NOISE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("UCLSIM_NOISE: %w", err)
		}
		cfg.Simulation.NoiseStdDev = f
	}
	return nil
}
