package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// In-process index kinds for the memory driver.
const (
	IndexInverted = "inverted"
	IndexBleve    = "bleve"
)

// Config holds the memedex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json, console (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys         []string `yaml:"api_keys"`
	ReadOnlyAPIKeys []string `yaml:"read_only_api_keys"` // search and read only
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds primary store and full-text backend settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // sqlite, redis, memory (default: sqlite)
	Path             string   `yaml:"path"`   // sqlite file, ":memory:" allowed
	BusyTimeoutMS    int      `yaml:"busy_timeout_ms"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	MemoryIndex      string   `yaml:"memory_index"` // inverted, bleve (memory driver only)
}

// SearchConfig holds query and result limits.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
	// Overfetch multiplies the candidate count when hits are post-filtered.
	Overfetch int `yaml:"proximity_overfetch"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, then applies
// defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.BusyTimeoutMS <= 0 {
		c.Database.BusyTimeoutMS = 5000
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.MemoryIndex == "" {
		c.Database.MemoryIndex = IndexInverted
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 200
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 1000
	}
	if c.Search.Overfetch <= 0 {
		c.Search.Overfetch = 5
	}
}

// Validate checks the configuration and reports every violation at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = multierror.Append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = multierror.Append(errs, fmt.Errorf("database.path is required for the sqlite driver"))
		}
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			errs = multierror.Append(errs, fmt.Errorf("database.addrs is required for the redis driver"))
		}
	case DriverMemory:
		switch c.Database.MemoryIndex {
		case IndexInverted, IndexBleve:
		default:
			errs = multierror.Append(errs, fmt.Errorf(
				"database.memory_index must be %q or %q, got %q", IndexInverted, IndexBleve, c.Database.MemoryIndex))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf(
			"database.driver must be %q, %q or %q, got %q",
			DriverSQLite, DriverRedis, DriverMemory, c.Database.Driver))
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		errs = multierror.Append(errs, fmt.Errorf(
			"logging.format must be \"json\" or \"console\", got %q", c.Logging.Format))
	}

	if c.Search.DefaultLimit > c.Search.MaxLimit {
		errs = multierror.Append(errs, fmt.Errorf(
			"search.default_limit (%d) exceeds search.max_limit (%d)", c.Search.DefaultLimit, c.Search.MaxLimit))
	}

	return errs.ErrorOrNil()
}

// PathEnvVar names a config file that overrides the per-environment lookup.
const PathEnvVar = "MEMEDEX_CONFIG"

// findConfigPath resolves the config file: $MEMEDEX_CONFIG, then
// ./config/<env>.yaml, then config/ next to the module root.
func findConfigPath(env string) string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}

	filename := env + ".yaml"
	local := filepath.Join("config", filename)
	if fileExists(local) {
		return local
	}

	_, b, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> module root
	if p := filepath.Join(root, "config", filename); fileExists(p) {
		return p
	}
	return local
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
