package commands

import (
	"fmt"
	"strings"

	"github.com/csheth/tdamcheck/internal/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Endpoint   string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// LoadConfig reads the config file and applies command line overrides.
func (f *Flags) LoadConfig() error {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return err
	}
	if endpoint := strings.TrimSpace(f.Endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --endpoint: %w", err)
		}
	}
	f.Config = cfg
	return nil
}

// Settings returns the loaded config, or the defaults when the Before hook
// has not run.
func (f *Flags) Settings() config.Config {
	if f.Config == nil {
		return config.DefaultConfig()
	}
	return *f.Config
}
