package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config

	// path of the YAML file; a missing file at this path is not an error
	path string
	// explicit is set when the caller named the file, making it required
	explicit bool
}

// NewLoader creates a loader reading the default config file location
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
		path:   DefaultConfigPath(),
	}
}

// NewLoaderWithFile creates a loader that requires the YAML file at path
func NewLoaderWithFile(path string) *Loader {
	return &Loader{
		config:   NewConfig(),
		path:     path,
		explicit: true,
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file, if present
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) loadFile() error {
	if l.path == "" {
		return nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !l.explicit {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", l.path, err)
	}

	if err := yaml.Unmarshal(data, l.config); err != nil {
		return fmt.Errorf("parse config file %s: %w", l.path, err)
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDir          *string
	DBFilename     *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	// Server overrides
	ServerAddr *string
	GinMode    *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
	Debug   *bool
	LogJSON *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Database overrides
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.DBWriteTimeout != nil {
		config.Database.WriteTimeout = *overrides.DBWriteTimeout
	}

	// Server overrides
	if overrides.ServerAddr != nil {
		config.Server.Addr = *overrides.ServerAddr
	}
	if overrides.GinMode != nil {
		config.Server.GinMode = *overrides.GinMode
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.Debug != nil {
		config.Application.Debug = *overrides.Debug
	}
	if overrides.LogJSON != nil {
		config.Application.LogJSON = *overrides.LogJSON
	}
}

// Marshal renders the effective configuration as YAML
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}
