// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got := cfg.Renderer.Address(); got != "localhost:3000" {
		t.Errorf("default address = %q, want localhost:3000", got)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	t.Setenv("REMOTE_UI_TEST_ROOT", "/srv/captures")

	path := filepath.Join(t.TempDir(), "console.yaml")
	content := `
renderer:
  host: render-box.local
log:
  level: debug
export:
  directory: ${REMOTE_UI_TEST_ROOT}/hdr
  compression: zstd
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Renderer.Host != "render-box.local" {
		t.Errorf("host = %q", cfg.Renderer.Host)
	}
	if cfg.Renderer.Port != 3000 {
		t.Errorf("port = %d, want default 3000", cfg.Renderer.Port)
	}
	if cfg.Export.Directory != "/srv/captures/hdr" {
		t.Errorf("export directory = %q, want expanded path", cfg.Export.Directory)
	}
	if cfg.Export.Compression != "zstd" {
		t.Errorf("compression = %q, want zstd", cfg.Export.Compression)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("renderer: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Renderer.Host = ""
	cfg.Renderer.Port = 70000
	cfg.Log.Level = "chatty"
	cfg.Outbox.MaxBytes = 0
	cfg.Export.Compression = "gzip"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted an invalid config")
	}
	for _, fragment := range []string{"renderer.host", "renderer.port", "chatty", "export.compression", "outbox.max_bytes"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q does not mention %s", err, fragment)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   slog.Level
		off     bool
		wantErr bool
	}{
		{name: "trace", level: LevelTrace},
		{name: "debug", level: slog.LevelDebug},
		{name: "info", level: slog.LevelInfo},
		{name: "WARN", level: slog.LevelWarn},
		{name: "err", level: slog.LevelError},
		{name: "critical", level: LevelCritical},
		{name: "off", level: LevelCritical, off: true},
		{name: "verbose", wantErr: true},
	}
	for _, test := range tests {
		level, off, err := ParseLogLevel(test.name)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseLogLevel(%q) succeeded, want error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogLevel(%q): %v", test.name, err)
			continue
		}
		if level != test.level || off != test.off {
			t.Errorf("ParseLogLevel(%q) = (%v, %v), want (%v, %v)", test.name, level, off, test.level, test.off)
		}
	}
}
