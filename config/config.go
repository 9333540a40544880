package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/supadata-go/supadata"
)

// EnvPrefix is prepended to environment overrides, e.g. SUPADATA_API_KEY
const EnvPrefix = "SUPADATA"

// Load loads the configuration from file, environment and the given overrides.
// A missing config file is not an error; the API key may come from the environment.
func Load(configPath string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".supadata"))
		}

		// Check /etc
		v.AddConfigPath("/etc/supadata/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", supadata.DefaultBaseURL)
	v.SetDefault("timeout", "30s")
	v.SetDefault("concurrency", 4)

	v.SetDefault("output.format", "json")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.APIKey == "" || cfg.APIKey == "your-api-key-here" {
		return fmt.Errorf("api_key must be set to a valid API key (or %s_API_KEY)", EnvPrefix)
	}

	if cfg.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %s", cfg.Timeout)
	}

	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1: %d", cfg.Concurrency)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	validOutputs := map[string]bool{
		"json": true,
		"yaml": true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be 'json' or 'yaml')", cfg.Output.Format)
	}

	return nil
}
