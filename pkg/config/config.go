// Package config loads lore's configuration from TOML, YAML or JSON
// files, falling back to defaults when no file is present.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for lore.
type Config struct {
	History    HistoryConfig   `koanf:"history"`
	Risk       RiskConfig      `koanf:"risk"`
	Timeline   TimelineConfig  `koanf:"timeline"`
	Ownership  OwnershipConfig `koanf:"ownership"`
	Cache      CacheConfig     `koanf:"cache"`
	Output     OutputConfig    `koanf:"output"`
	Insight    InsightConfig   `koanf:"insight"`
	RecentDays int             `koanf:"recent_days"`
}

// HistoryConfig bounds the commit log walk.
type HistoryConfig struct {
	MaxCommits     int `koanf:"max_commits"`
	TimeoutSeconds int `koanf:"timeout_seconds"`
}

// RiskConfig holds the knowledge-risk thresholds.
type RiskConfig struct {
	FileDominance     float64 `koanf:"file_dominance"`
	TechDominance     float64 `koanf:"tech_dominance"`
	BusFactorSubjects int     `koanf:"bus_factor_subjects"`
	BusFactorHigh     int     `koanf:"bus_factor_high"`
}

// TimelineConfig bounds phase segmentation.
type TimelineConfig struct {
	MaxPhases  int `koanf:"max_phases"`
	MinCommits int `koanf:"min_commits"`
}

// OwnershipConfig bounds the per-file history fallback.
type OwnershipConfig struct {
	FallbackMaxFiles int   `koanf:"fallback_max_files"`
	MinFileSize      int64 `koanf:"min_file_size"`
	MaxFileSize      int64 `koanf:"max_file_size"`
	Workers          int   `koanf:"workers"`
}

// CacheConfig controls report caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	// TTL is in hours.
	TTL int `koanf:"ttl"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// InsightConfig controls the optional narrative summary.
type InsightConfig struct {
	Enabled bool   `koanf:"enabled"`
	Model   string `koanf:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `koanf:"api_key_env"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			MaxCommits:     500,
			TimeoutSeconds: 90,
		},
		Risk: RiskConfig{
			FileDominance:     0.80,
			TechDominance:     0.75,
			BusFactorSubjects: 5,
			BusFactorHigh:     10,
		},
		Timeline: TimelineConfig{
			MaxPhases:  5,
			MinCommits: 20,
		},
		Ownership: OwnershipConfig{
			FallbackMaxFiles: 200,
			MinFileSize:      100,
			MaxFileSize:      1 << 20,
			Workers:          3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".lore/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
		Insight: InsightConfig{
			Enabled:   false,
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		RecentDays: 30,
	}
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault searches standard locations for a config file and falls
// back to defaults when none loads.
func LoadOrDefault() *Config {
	configNames := []string{
		"lore.toml",
		"lore.yaml",
		"lore.yml",
		"lore.json",
		".lore.toml",
		".lore.yaml",
		".lore.yml",
		".lore.json",
	}
	searchDirs := []string{".", ".lore"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if cfg, err := Load(path); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}
