// Package config handles configuration loading and validation for tandem.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Profile  Profile  `yaml:"profile"`
	Feed     Feed     `yaml:"feed"`
	Database Database `yaml:"database"`
	DataDir  string   `yaml:"-"` // set by caller, not from config file
}

// Profile identifies the local user to the shared store. Name and email
// are optional; the services fall back to placeholder names when absent.
type Profile struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Feed controls the activity feed view.
type Feed struct {
	// PageSize is the fixed number of entries per feed page.
	PageSize int `yaml:"page_size"`
	// Keep bounds how many of the newest entries the feed considers.
	// Zero keeps everything.
	Keep int `yaml:"keep"`
}

// Database selects the store backend.
type Database struct {
	// Backend is "sqlite" or "memory".
	Backend string `yaml:"backend"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Feed: Feed{
			PageSize: 5,
			Keep:     10,
		},
		Database: Database{
			Backend: "sqlite",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = defaults.Feed.PageSize
	}
	if c.Database.Backend == "" {
		c.Database.Backend = defaults.Database.Backend
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Feed.PageSize < 1 {
		return fmt.Errorf("feed.page_size must be at least 1")
	}

	if c.Feed.Keep < 0 {
		return fmt.Errorf("feed.keep cannot be negative")
	}

	switch c.Database.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("database.backend must be sqlite or memory, got %q", c.Database.Backend)
	}

	return nil
}
