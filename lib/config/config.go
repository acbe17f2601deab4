// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides settings loading for Lockbox.
//
// Settings are read from a single YAML file specified by:
//   - the LOCKBOX_CONFIG environment variable, or
//   - the --config flag passed to the binary.
//
// There are no fallbacks or automatic discovery. If neither source
// names a file, built-in defaults apply. This keeps the configuration
// deterministic and auditable — no hidden overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvVar is the environment variable naming the settings file.
const EnvVar = "LOCKBOX_CONFIG"

// Settings holds the operator-tunable behavior of the session engine.
type Settings struct {
	// ConfirmDeleteItems gates external delete requests behind an
	// Allow/Deny prompt before any entry is touched.
	ConfirmDeleteItems bool `yaml:"confirm_delete_items"`

	// HistorySize caps the readline backend's in-process history.
	HistorySize int `yaml:"history_size"`

	// Compression selects the vault store payload compression:
	// "zstd" (default), "lz4", or "none".
	Compression string `yaml:"compression"`
}

// Default returns the built-in settings used when no config file is
// present.
func Default() *Settings {
	return &Settings{
		ConfirmDeleteItems: true,
		HistorySize:        100,
		Compression:        "zstd",
	}
}

// Load reads settings from the given file path. An empty path falls
// back to the LOCKBOX_CONFIG environment variable, and if that is also
// unset, to Default. A named file that does not exist or does not
// parse is an error — a misspelled config should fail loudly, not
// silently run on defaults.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	settings := Default()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return settings, nil
}

func (s *Settings) validate() error {
	switch s.Compression {
	case "zstd", "lz4", "none":
	default:
		return fmt.Errorf("unknown compression %q (want zstd, lz4, or none)", s.Compression)
	}
	if s.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative, got %d", s.HistorySize)
	}
	return nil
}
