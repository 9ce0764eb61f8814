package model

import "time"

// Config is the complete legisref configuration
type Config struct {
	Directory   DirectoryConfig   `yaml:"directory" mapstructure:"directory"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// DirectoryConfig selects the legislator directory
type DirectoryConfig struct {
	// Path is a YAML file or SQLite database; empty disables legislator resolution
	Path string `yaml:"path" mapstructure:"path"`
	// Kind is "yaml", "sqlite" or "" to infer from the extension
	Kind string `yaml:"kind" mapstructure:"kind"`
	// LookupsPerSecond throttles directory queries; 0 means unthrottled
	LookupsPerSecond float64 `yaml:"lookups_per_second" mapstructure:"lookups_per_second"`
	Burst            int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls caching of directory lookups
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir     string        `yaml:"dir" mapstructure:"dir"` // Persist lookups on disk when set
}

// ExtractConfig holds extraction defaults
type ExtractConfig struct {
	Chamber         string `yaml:"chamber" mapstructure:"chamber"`
	LastMentionOnly bool   `yaml:"last_mention_only" mapstructure:"last_mention_only"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// InputConfig bounds document reads
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Directory: DirectoryConfig{
			Burst: 5,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Extract: ExtractConfig{
			Chamber: string(ChamberHouse),
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Input: InputConfig{
			MaxBytes: 10_000_000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
