// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvVar, "")

	settings, err := Load("")
	if err != nil {
		t.Fatalf("Load with no sources failed: %v", err)
	}
	if !settings.ConfirmDeleteItems {
		t.Error("confirm_delete_items should default to true")
	}
	if settings.Compression != "zstd" {
		t.Errorf("compression should default to zstd, got %q", settings.Compression)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockbox.yaml")
	content := "confirm_delete_items: false\ncompression: lz4\nhistory_size: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.ConfirmDeleteItems {
		t.Error("confirm_delete_items should be false")
	}
	if settings.Compression != "lz4" {
		t.Errorf("compression = %q, want lz4", settings.Compression)
	}
	if settings.HistorySize != 10 {
		t.Errorf("history_size = %d, want 10", settings.HistorySize)
	}
}

func TestLoad_EnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockbox.yaml")
	if err := os.WriteFile(path, []byte("history_size: 5\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv(EnvVar, path)

	settings, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.HistorySize != 5 {
		t.Errorf("history_size = %d, want 5", settings.HistorySize)
	}
	// Fields absent from the file keep their defaults.
	if !settings.ConfirmDeleteItems {
		t.Error("confirm_delete_items should keep its default")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing named file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("compression: brotli\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for unknown compression")
	}
}
