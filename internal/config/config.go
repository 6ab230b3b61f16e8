// Package config resolves the CLI configuration.
//
// Precedence, lowest first: built-in defaults, the optional YAML file,
// DREAMBOARD_* environment variables, then command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backends accepted by the CLI.
const (
	BackendREST  = "rest"
	BackendGenAI = "genai"
	BackendEcho  = "echo"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DREAMBOARD_"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all user-tunable settings.
type Config struct {
	Backend  string `yaml:"backend"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Personas string `yaml:"personas"`
	LogLevel string `yaml:"log_level"`
	Port     int    `yaml:"port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:  BackendREST,
		LogLevel: "info",
		Port:     8080,
	}
}

// Load resolves defaults, then path (if non-empty), then the environment.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	overlay := map[string]*string{
		"BACKEND":   &cfg.Backend,
		"ENDPOINT":  &cfg.Endpoint,
		"MODEL":     &cfg.Model,
		"API_KEY":   &cfg.APIKey,
		"PERSONAS":  &cfg.Personas,
		"LOG_LEVEL": &cfg.LogLevel,
	}
	for name, field := range overlay {
		if v := getenv(EnvPrefix + name); v != "" {
			*field = v
		}
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendREST, BackendGenAI, BackendEcho:
	default:
		return fmt.Errorf("%w: unknown backend %q (want rest, genai or echo)", ErrInvalidConfig, c.Backend)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	return nil
}
