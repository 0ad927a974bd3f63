// Package config loads clg configuration from .clg/config.json with
// environment overrides (CLG_*).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete clg configuration.
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Storage  StorageConfig  `json:"storage" mapstructure:"storage"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig tunes graph construction and traversal.
type AnalysisConfig struct {
	// MaxDepth bounds the impact traversal from seed nodes.
	MaxDepth int `json:"maxDepth" mapstructure:"maxDepth"`
	// WeightsPath optionally points at a TOML weights file overriding the
	// default connector scoring.
	WeightsPath string `json:"weightsPath" mapstructure:"weightsPath"`
	// CacheSize is the number of analyses kept in the in-memory LRU cache.
	CacheSize int `json:"cacheSize" mapstructure:"cacheSize"`
}

// StorageConfig controls the SQLite run store.
type StorageConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Analysis: AnalysisConfig{
			MaxDepth:  3,
			CacheSize: 64,
		},
		Storage: StorageConfig{Enabled: true},
		Logging: LoggingConfig{Format: "human", Level: "info"},
	}
}

// Load reads configuration for the given repo root. A missing config file
// is not an error; defaults apply. Precedence: env > file > defaults.
func Load(repoRoot string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".clg"))

	v.SetEnvPrefix("CLG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("analysis.maxDepth", defaults.Analysis.MaxDepth)
	v.SetDefault("analysis.cacheSize", defaults.Analysis.CacheSize)
	v.SetDefault("storage.enabled", defaults.Storage.Enabled)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.RepoRoot == "" {
		cfg.RepoRoot = repoRoot
	}
	return &cfg, nil
}

// Save writes the configuration to .clg/config.json.
func (c *Config) Save() error {
	dir := filepath.Join(c.RepoRoot, ".clg")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("version", c.Version)
	v.Set("analysis", map[string]interface{}{
		"maxDepth":    c.Analysis.MaxDepth,
		"weightsPath": c.Analysis.WeightsPath,
		"cacheSize":   c.Analysis.CacheSize,
	})
	v.Set("storage", map[string]interface{}{"enabled": c.Storage.Enabled})
	v.Set("logging", map[string]interface{}{"format": c.Logging.Format, "level": c.Logging.Level})

	return v.WriteConfigAs(filepath.Join(dir, "config.json"))
}
