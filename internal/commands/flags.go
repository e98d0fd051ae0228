package commands

import (
	"os"
	"path/filepath"

	"github.com/tandemlist/tandem/internal/core/config"
	"github.com/tandemlist/tandem/internal/core/identity"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// Session builds the caller identity from the loaded profile.
func (f *Flags) Session() identity.Session {
	return identity.Session{
		User: identity.User{
			ID:    f.Config.Profile.ID,
			Name:  f.Config.Profile.Name,
			Email: f.Config.Profile.Email,
		},
	}
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tandem", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tandem")
}
