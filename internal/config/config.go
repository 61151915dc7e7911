// ABOUTME: Configuration loading and parsing for slugline-gateway
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete slugline-gateway configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Functions FunctionsConfig `yaml:"functions"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// JWTSecret signs admin session tokens for the token-management API
	JWTSecret string `yaml:"jwt_secret"`

	// LegacyAPIKey is a static shared secret granting wildcard scope.
	// Deprecated: kept for backward compatibility with pre-token deployments.
	LegacyAPIKey string `yaml:"legacy_api_key"`

	// RequireManifestAuth rejects unauthenticated manifest/status requests
	// when true. Defaults to false: the catalogue is publicly discoverable.
	RequireManifestAuth bool `yaml:"require_manifest_auth"`

	SessionTTL time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	SessionTTLRaw string `yaml:"session_ttl"`
}

// FunctionsConfig holds function execution configuration
type FunctionsConfig struct {
	ExecuteTimeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	ExecuteTimeoutRaw string `yaml:"execute_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Functions.ExecuteTimeoutRaw != "" {
		cfg.Functions.ExecuteTimeout, err = time.ParseDuration(cfg.Functions.ExecuteTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing execute_timeout %q: %w", cfg.Functions.ExecuteTimeoutRaw, err)
		}
	}

	if cfg.Auth.SessionTTLRaw != "" {
		cfg.Auth.SessionTTL, err = time.ParseDuration(cfg.Auth.SessionTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing session_ttl %q: %w", cfg.Auth.SessionTTLRaw, err)
		}
	}

	return nil
}
