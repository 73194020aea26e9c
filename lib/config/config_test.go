// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/binx/lib/compress"
	"github.com/bureau-foundation/binx/lib/policy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "binx.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Limits != policy.Default() {
		t.Errorf("expected reference limits, got %+v", cfg.Limits)
	}
	if cfg.Defaults.Format != "base64" {
		t.Errorf("expected format=base64, got %s", cfg.Defaults.Format)
	}
	if cfg.Defaults.Compression != compress.Zlib {
		t.Errorf("expected compression=zlib, got %s", cfg.Defaults.Compression)
	}
	if cfg.Defaults.Strict() {
		t.Error("expected lenient schema hash for development")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_RequiresBinxConfig(t *testing.T) {
	t.Setenv("BINX_CONFIG", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when BINX_CONFIG not set, got nil")
	}

	expectedMsg := "BINX_CONFIG environment variable not set"
	if !strings.HasPrefix(err.Error(), expectedMsg) {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithBinxConfig(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging
defaults:
  kid: 7
`)
	t.Setenv("BINX_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}
	if cfg.Defaults.KID != 7 {
		t.Errorf("expected kid=7, got %d", cfg.Defaults.KID)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging

limits:
  max_depth: 8
  max_aad_bytes: 1024

defaults:
  kid: 3
  compress: true
  compression: zstd
  format: binary
  strict_schema_hash: true
  reject_unknown_tags: true

keyring:
  path: /etc/binx/keys.yaml
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Limits.MaxDepth != 8 {
		t.Errorf("expected max_depth=8, got %d", cfg.Limits.MaxDepth)
	}
	if cfg.Limits.MaxAADBytes != 1024 {
		t.Errorf("expected max_aad_bytes=1024, got %d", cfg.Limits.MaxAADBytes)
	}
	// Unset limits keep the reference values.
	if cfg.Limits.MaxStringBytes != policy.Default().MaxStringBytes {
		t.Errorf("expected default max_string_bytes, got %d", cfg.Limits.MaxStringBytes)
	}
	if cfg.Defaults.KID != 3 || !cfg.Defaults.Compress || cfg.Defaults.Compression != compress.Zstd {
		t.Errorf("unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Defaults.Format != "binary" {
		t.Errorf("expected format=binary, got %s", cfg.Defaults.Format)
	}
	if !cfg.Defaults.Strict() || !cfg.Defaults.RejectUnknownTags {
		t.Errorf("expected strict decoding, got %+v", cfg.Defaults)
	}
	if cfg.Keyring.Path != "/etc/binx/keys.yaml" {
		t.Errorf("expected keyring path, got %s", cfg.Keyring.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFile_UnknownCompression(t *testing.T) {
	configPath := writeConfig(t, `
defaults:
  compression: brotli
`)
	if _, err := LoadFile(configPath); err == nil {
		t.Fatal("expected error for unknown compression algorithm")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	configPath := writeConfig(t, `
environment: production

limits:
  max_depth: 16

defaults:
  kid: 1
  compress: true

keyring:
  path: /default/keys.yaml

production:
  limits:
    max_frame_bytes: 65536
  defaults:
    kid: 9
    compress: false
  keyring:
    path: /prod/keys.age
    identity: /prod/identity.txt
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Limits.MaxDepth != 16 {
		t.Errorf("expected base max_depth=16 to survive, got %d", cfg.Limits.MaxDepth)
	}
	if cfg.Limits.MaxFrameBytes != 65536 {
		t.Errorf("expected max_frame_bytes=65536, got %d", cfg.Limits.MaxFrameBytes)
	}
	if cfg.Defaults.KID != 9 {
		t.Errorf("expected kid=9, got %d", cfg.Defaults.KID)
	}
	if cfg.Defaults.Compress {
		t.Error("expected compress=false from production override")
	}
	if cfg.Keyring.Path != "/prod/keys.age" || cfg.Keyring.Identity != "/prod/identity.txt" {
		t.Errorf("unexpected keyring: %+v", cfg.Keyring)
	}
	if !cfg.Defaults.Strict() {
		t.Error("expected production to default to strict schema hash")
	}
}

func TestProductionStrictnessCanBeDisabled(t *testing.T) {
	configPath := writeConfig(t, `
environment: production
defaults:
  strict_schema_hash: false
`)
	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Defaults.Strict() {
		t.Error("explicit strict_schema_hash: false was overridden")
	}
}

func TestOtherEnvironmentSectionsIgnored(t *testing.T) {
	configPath := writeConfig(t, `
environment: development
production:
  defaults:
    kid: 200
`)
	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Defaults.KID != 0 {
		t.Errorf("production section applied in development: kid=%d", cfg.Defaults.KID)
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("BINX_KEY_NAME", "")

	configPath := writeConfig(t, `
keyring:
  path: ${BINX_CONFIG_DIR}/${BINX_KEY_NAME:-keys}.age
  identity: ${HOME}/.config/binx/identity.txt
`)
	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	wantPath := filepath.Join(filepath.Dir(configPath), "keys.age")
	if cfg.Keyring.Path != wantPath {
		t.Errorf("expected keyring path %s, got %s", wantPath, cfg.Keyring.Path)
	}
	if cfg.Keyring.Identity != "/home/tester/.config/binx/identity.txt" {
		t.Errorf("expected expanded identity, got %s", cfg.Keyring.Identity)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "invalid environment"},
		{"kid too large", func(c *Config) { c.Defaults.KID = 256 }, "defaults.kid"},
		{"negative kid", func(c *Config) { c.Defaults.KID = -1 }, "defaults.kid"},
		{"bad format", func(c *Config) { c.Defaults.Format = "hex" }, "defaults.format"},
		{"bad compression", func(c *Config) { c.Defaults.Compression = 0 }, "defaults.compression"},
		{"limit above wire bound", func(c *Config) { c.Limits.MaxFields = 300 }, "max_fields"},
		{"nonpositive limit", func(c *Config) { c.Limits.MaxDepth = 0 }, "max_depth"},
		{"identity without path", func(c *Config) { c.Keyring.Identity = "/id.txt" }, "keyring.identity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
