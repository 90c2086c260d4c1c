package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/l3aro/go-cfg-structure/internal/log"
)

// Config holds all configuration for gcs
type Config struct {
	// EliminateEmpty collapses empty redirect blocks before structuring
	EliminateEmpty bool `yaml:"eliminate_empty" env:"GCS_ELIMINATE_EMPTY"`

	// Indent is the number of spaces per nesting level in rendered code (0 = tabs)
	Indent int `yaml:"indent" env:"GCS_INDENT"`

	// Workers bounds how many functions are structured concurrently
	Workers int `yaml:"workers" env:"GCS_WORKERS"`

	// Result cache settings
	CacheEnabled bool   `yaml:"cache_enabled" env:"GCS_CACHE_ENABLED"`
	CacheDir     string `yaml:"cache_dir" env:"GCS_CACHE_DIR"`
	CacheSize    int    `yaml:"cache_size" env:"GCS_CACHE_SIZE"`

	// Logging
	LogLevel   string `yaml:"log_level" env:"GCS_LOG_LEVEL"`
	JSONOutput bool   `yaml:"json_output" env:"GCS_JSON_OUTPUT"`
	Verbose    bool   `yaml:"verbose" env:"GCS_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		EliminateEmpty: true,
		Indent:         4,
		Workers:        4,
		CacheEnabled:   true,
		CacheDir:       ".gcs/cache",
		CacheSize:      1024,
		LogLevel:       "info",
		JSONOutput:     false,
		Verbose:        false,
	}
}

// GlobalConfigFilePath returns the global config file path (~/.gcs/config.yaml)
func GlobalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gcs/config.yaml"
	}
	return filepath.Join(home, ".gcs", "config.yaml")
}

// ProjectConfigFilePath returns the project-level config file path (./.gcs/config.yaml)
func ProjectConfigFilePath() string {
	return filepath.Join(".gcs", "config.yaml")
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.gcs/config.yaml)
// 3. Global config (~/.gcs/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range []string{GlobalConfigFilePath(), ProjectConfigFilePath()} {
		if err := cfg.merge(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// merge overlays the YAML file at path onto c; a missing file is ignored.
func (c *Config) merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GCS_ELIMINATE_EMPTY"); v != "" {
		cfg.EliminateEmpty = parseBool(v)
	}
	if v := os.Getenv("GCS_INDENT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.Indent = i
		}
	}
	if v := os.Getenv("GCS_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.Workers = i
		}
	}
	if v := os.Getenv("GCS_CACHE_ENABLED"); v != "" {
		cfg.CacheEnabled = parseBool(v)
	}
	if v := os.Getenv("GCS_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("GCS_CACHE_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.CacheSize = i
		}
	}
	if v := os.Getenv("GCS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GCS_JSON_OUTPUT"); v != "" {
		cfg.JSONOutput = parseBool(v)
	}
	if v := os.Getenv("GCS_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.Indent < 0 || c.Indent > 16 {
		return fmt.Errorf("indent must be between 0 and 16")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.CacheEnabled {
		if c.CacheDir == "" {
			return fmt.Errorf("cache_dir is required when cache_enabled is true")
		}
		if c.CacheSize <= 0 {
			return fmt.Errorf("cache_size must be positive")
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level; Verbose forces debug.
func (c *Config) Level() log.Level {
	if c.Verbose {
		return log.DebugLevel
	}
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}

// CacheFile returns the path of the persisted result cache.
func (c *Config) CacheFile() string {
	return filepath.Join(c.CacheDir, "results.msgpack")
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
