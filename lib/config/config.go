// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/binx/lib/compress"
	"github.com/bureau-foundation/binx/lib/policy"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for binx tooling.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Limits bounds payloads, frames and envelopes.
	Limits policy.Limits `yaml:"limits"`

	// Defaults supplies values for options not given on the command line.
	Defaults DefaultsConfig `yaml:"defaults"`

	// Keyring locates the kid-to-secret map used for decryption.
	Keyring KeyringConfig `yaml:"keyring"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
// Zero-valued fields leave the base value in place.
type ConfigOverrides struct {
	Limits   *policy.Limits  `yaml:"limits,omitempty"`
	Defaults *DefaultsConfig `yaml:"defaults,omitempty"`
	Keyring  *KeyringConfig  `yaml:"keyring,omitempty"`
}

// DefaultsConfig holds default operation options.
type DefaultsConfig struct {
	// KID is the key identifier used for encryption.
	// Default: 0
	KID int `yaml:"kid"`

	// Compress compresses frames before sealing.
	// Default: false
	Compress bool `yaml:"compress"`

	// Compression names the algorithm used when Compress is set:
	// zlib, zstd or lz4.
	// Default: zlib
	Compression compress.Algorithm `yaml:"compression"`

	// Format is the envelope representation: binary or base64.
	// Default: base64
	Format string `yaml:"format"`

	// StrictSchemaHash disables the legacy schema hash fallback. Nil
	// means unset, which production treats as true.
	StrictSchemaHash *bool `yaml:"strict_schema_hash,omitempty"`

	// RejectUnknownTags fails decoding on unrecognised value tags.
	// Default: false
	RejectUnknownTags bool `yaml:"reject_unknown_tags"`
}

// KeyringConfig locates the keyring file.
type KeyringConfig struct {
	// Path is a YAML keyring, or an age-sealed keyring when Identity
	// is set.
	Path string `yaml:"path"`

	// Identity is an age identity file that opens a sealed keyring.
	Identity string `yaml:"identity"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
func Default() *Config {
	return &Config{
		Environment: Development,
		Limits:      policy.Default(),
		Defaults: DefaultsConfig{
			KID:         0,
			Compression: compress.Zlib,
			Format:      "base64",
		},
	}
}

// Strict reports whether schema hashes are verified without the legacy
// fallback.
func (d DefaultsConfig) Strict() bool {
	return d.StrictSchemaHash != nil && *d.StrictSchemaHash
}

// Load loads configuration from the BINX_CONFIG environment variable.
//
// There are no fallbacks. If BINX_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("BINX_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("BINX_CONFIG environment variable not set; " +
			"set it to the path of your binx.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg.expandVariables(filepath.Dir(absolute))

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides != nil {
		if overrides.Limits != nil {
			mergeLimits(&c.Limits, *overrides.Limits)
		}
		if overrides.Defaults != nil {
			mergeDefaults(&c.Defaults, *overrides.Defaults)
		}
		if overrides.Keyring != nil {
			if overrides.Keyring.Path != "" {
				c.Keyring.Path = overrides.Keyring.Path
			}
			if overrides.Keyring.Identity != "" {
				c.Keyring.Identity = overrides.Keyring.Identity
			}
		}
	}

	// Production defaults: strict schema verification unless the file
	// chose otherwise.
	if c.Environment == Production && c.Defaults.StrictSchemaHash == nil {
		strict := true
		c.Defaults.StrictSchemaHash = &strict
	}
}

func mergeLimits(base *policy.Limits, override policy.Limits) {
	set := func(target *int, value int) {
		if value != 0 {
			*target = value
		}
	}
	set(&base.MaxDepth, override.MaxDepth)
	set(&base.MaxStringBytes, override.MaxStringBytes)
	set(&base.MaxAADBytes, override.MaxAADBytes)
	set(&base.MaxFields, override.MaxFields)
	set(&base.MaxFieldNameBytes, override.MaxFieldNameBytes)
	set(&base.MaxArrayLength, override.MaxArrayLength)
	set(&base.MaxObjectKeys, override.MaxObjectKeys)
	set(&base.MaxFrameBytes, override.MaxFrameBytes)
	set(&base.MaxDecryptedBytes, override.MaxDecryptedBytes)
}

func mergeDefaults(base *DefaultsConfig, override DefaultsConfig) {
	if override.KID != 0 {
		base.KID = override.KID
	}
	// Booleans are always applied from overrides.
	base.Compress = override.Compress
	base.RejectUnknownTags = override.RejectUnknownTags
	if override.Compression != 0 {
		base.Compression = override.Compression
	}
	if override.Format != "" {
		base.Format = override.Format
	}
	if override.StrictSchemaHash != nil {
		base.StrictSchemaHash = override.StrictSchemaHash
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables(configDir string) {
	vars := map[string]string{
		"BINX_CONFIG_DIR": configDir,
		"HOME":            os.Getenv("HOME"),
	}

	c.Keyring.Path = expandVars(c.Keyring.Path, vars)
	c.Keyring.Identity = expandVars(c.Keyring.Identity, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if err := c.Limits.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("limits: %w", err))
	}

	if c.Defaults.KID < 0 || c.Defaults.KID > 255 {
		errs = append(errs, fmt.Errorf("defaults.kid must be in range 0-255, got %d", c.Defaults.KID))
	}

	if c.Defaults.Format != "binary" && c.Defaults.Format != "base64" {
		errs = append(errs, fmt.Errorf("defaults.format must be one of: [binary base64], got %q", c.Defaults.Format))
	}

	switch c.Defaults.Compression {
	case compress.Zlib, compress.Zstd, compress.LZ4:
	default:
		errs = append(errs, fmt.Errorf("defaults.compression is not a known algorithm: %s", c.Defaults.Compression))
	}

	if c.Keyring.Identity != "" && c.Keyring.Path == "" {
		errs = append(errs, errors.New("keyring.identity requires keyring.path"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
