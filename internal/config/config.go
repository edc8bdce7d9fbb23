package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// AppName names the config and data directories.
const AppName = "pmtime"

// Config holds all configuration options for the time tracking service
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Server      ServerConfig      `yaml:"server"`
	Display     DisplayConfig     `yaml:"display"`
	Validation  ValidationConfig  `yaml:"validation"`
	Application ApplicationConfig `yaml:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" env:"PMTIME_DB_DIR"`
	Filename       string        `yaml:"filename" env:"PMTIME_DB_FILENAME"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"PMTIME_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"PMTIME_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"PMTIME_DB_DIR_PERMISSIONS"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr    string `yaml:"addr" env:"PMTIME_SERVER_ADDR"`
	GinMode string `yaml:"gin_mode" env:"PMTIME_GIN_MODE"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	TimeFormat    string `yaml:"time_format" env:"PMTIME_DISPLAY_TIME_FORMAT"`
	RunningStatus string `yaml:"running_status" env:"PMTIME_DISPLAY_RUNNING_STATUS"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	DescriptionMaxLength int `yaml:"description_max_length" env:"PMTIME_VALIDATION_DESCRIPTION_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"PMTIME_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"PMTIME_APP_VERBOSE"`
	Debug   bool          `yaml:"debug" env:"PMTIME_DEBUG"`
	LogJSON bool          `yaml:"log_json" env:"PMTIME_LOG_JSON"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dir:            filepath.Join(xdg.DataHome, AppName),
			Filename:       "pmtime.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			GinMode: "release",
		},
		Display: DisplayConfig{
			TimeFormat:    "2006-01-02 15:04:05",
			RunningStatus: "running",
		},
		Validation: ValidationConfig{
			DescriptionMaxLength: 1000,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// DefaultConfigPath returns the config file location under the XDG config home
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == ":memory:" {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values are ignored.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("PMTIME_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("PMTIME_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("PMTIME_DB_QUERY_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Database.QueryTimeout = d
		}
	}
	if timeout := os.Getenv("PMTIME_DB_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Database.WriteTimeout = d
		}
	}
	if perms := os.Getenv("PMTIME_DB_DIR_PERMISSIONS"); perms != "" {
		if p, err := strconv.ParseUint(perms, 8, 32); err == nil {
			c.Database.DirPermissions = uint32(p)
		}
	}

	// Server configuration
	if addr := os.Getenv("PMTIME_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if mode := os.Getenv("PMTIME_GIN_MODE"); mode != "" {
		c.Server.GinMode = mode
	}

	// Display configuration
	if format := os.Getenv("PMTIME_DISPLAY_TIME_FORMAT"); format != "" {
		c.Display.TimeFormat = format
	}
	if status := os.Getenv("PMTIME_DISPLAY_RUNNING_STATUS"); status != "" {
		c.Display.RunningStatus = status
	}

	// Validation configuration
	if maxLen := os.Getenv("PMTIME_VALIDATION_DESCRIPTION_MAX"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			c.Validation.DescriptionMaxLength = n
		}
	}

	// Application configuration
	if timeout := os.Getenv("PMTIME_APP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Application.Timeout = d
		}
	}
	if verbose := os.Getenv("PMTIME_APP_VERBOSE"); verbose != "" {
		if b, err := strconv.ParseBool(verbose); err == nil {
			c.Application.Verbose = b
		}
	}
	if os.Getenv("PMTIME_DEBUG") != "" {
		c.Application.Debug = true
	}
	if logJSON := os.Getenv("PMTIME_LOG_JSON"); logJSON != "" {
		if b, err := strconv.ParseBool(logJSON); err == nil {
			c.Application.LogJSON = b
		}
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return &ConfigError{Field: "server.gin_mode", Message: "gin mode must be debug, release or test"}
	}

	// Validate display configuration
	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}
	if c.Display.RunningStatus == "" {
		return &ConfigError{Field: "display.running_status", Message: "running status text cannot be empty"}
	}

	// Validate validation configuration
	if c.Validation.DescriptionMaxLength < 1 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description maximum length must be at least 1"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
