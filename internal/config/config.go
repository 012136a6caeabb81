// Package config provides YAML configuration file loading and validation.
// It handles environment variable expansion, default value application,
// and checks that named function signatures parse.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dmagro/abikit/internal/abi"
	"github.com/dmagro/abikit/internal/output"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "abikit.yaml"

// Config represents the root configuration structure loaded from YAML.
type Config struct {
	Defaults  Defaults          `yaml:"defaults"`
	Functions map[string]string `yaml:"functions"` // short name -> human-readable signature
}

// Defaults holds settings every command falls back to when the matching
// flag is not set.
type Defaults struct {
	Format           string `yaml:"format"`            // "terminal" or "json"
	Color            *bool  `yaml:"color"`             // nil means enabled
	LenientAddresses bool   `yaml:"lenient_addresses"` // accept all-lowercase or all-uppercase input in validate
	Workers          int    `yaml:"workers"`           // vector runner concurrency
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	// Validate on an empty config only fills defaults.
	_ = cfg.Validate()
	return cfg
}

// ColorEnabled reports whether terminal output should be colored.
func (c *Config) ColorEnabled() bool {
	return c.Defaults.Color == nil || *c.Defaults.Color
}

// Validate validates the configuration and applies defaults where appropriate.
// It may emit warnings (to stderr) for suspicious values but does not fail on warnings.
func (c *Config) Validate() error {
	switch c.Defaults.Format {
	case "":
		c.Defaults.Format = output.FormatTerminal
	case output.FormatTerminal, output.FormatJSON:
	default:
		return errors.Errorf("defaults.format must be %q or %q, got %q", output.FormatTerminal, output.FormatJSON, c.Defaults.Format)
	}

	if c.Defaults.Workers < 0 {
		return errors.New("defaults.workers must be >= 0")
	}
	if c.Defaults.Workers == 0 {
		c.Defaults.Workers = 8
	}
	if c.Defaults.Workers > 64 {
		fmt.Fprintf(os.Stderr, "Warning: defaults.workers is very high (%d); vectors are CPU bound\n", c.Defaults.Workers)
	}

	for name, sig := range c.Functions {
		fn, err := abi.ParseSignature(sig)
		if err != nil {
			return errors.Wrapf(err, "functions.%s", name)
		}
		if fn.Kind == abi.KindFunction && fn.Name != name {
			fmt.Fprintf(os.Stderr, "Warning: functions.%s refers to %s; the short name differs from the function name\n", name, fn.Name)
		}
	}
	return nil
}

// Resolve returns the signature registered under ref, or ref itself when it
// is not a configured short name.
func (c *Config) Resolve(ref string) string {
	if sig, ok := c.Functions[strings.TrimSpace(ref)]; ok {
		return sig
	}
	return ref
}

// Load reads and parses a YAML configuration file, expanding environment
// variables (${VAR}) before parsing, and validates the result. When path is
// DefaultPath and the file does not exist, Load returns Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultPath {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "failed to read config")
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadEnv reads KEY=VALUE lines from a .env file in the current working
// directory and sets them with os.Setenv, so that ${VAR} references in the
// config file resolve. Empty lines and # comments are skipped, surrounding
// quotes are stripped, and a missing file is not an error.
func LoadEnv() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
			os.Setenv(key, value)
		}
	}
}
