package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	Output      OutputConfig  `mapstructure:"output"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
