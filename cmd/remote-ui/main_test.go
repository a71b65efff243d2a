// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/remoteui/remoteui/console"
	"github.com/remoteui/remoteui/lib/cli"
	"github.com/remoteui/remoteui/lib/codec"
	"github.com/remoteui/remoteui/lib/config"
	"github.com/remoteui/remoteui/lib/testutil"
	"github.com/remoteui/remoteui/transport"
)

func parseFlags(t *testing.T, args ...string) (*options, error) {
	t.Helper()
	var opts options
	flagSet := newFlagSet(&opts)
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	cfg, err := loadConfig(flagSet, &opts)
	if err != nil {
		return nil, err
	}
	opts.host = cfg.Renderer.Host
	opts.port = cfg.Renderer.Port
	opts.logLevel = cfg.Log.Level
	opts.exportDir = cfg.Export.Directory
	opts.compressExport = cfg.Export.Compression
	opts.outboxBytes = cfg.Outbox.MaxBytes
	return &opts, nil
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags(t)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if opts.host != "localhost" || opts.port != 3000 {
		t.Errorf("renderer = %s:%d, want localhost:3000", opts.host, opts.port)
	}
	if opts.logLevel != "info" {
		t.Errorf("log level = %q, want info", opts.logLevel)
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "remote-ui.yaml")
	file := `
renderer:
  host: render-box
  port: 4000
log:
  level: debug
export:
  directory: /srv/frames
  compression: zstd
`
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := parseFlags(t, "--config", path, "--port", "4100", "--compress-export", "lz4")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	// Set flags win; unset flags keep the file's values.
	if opts.port != 4100 {
		t.Errorf("port = %d, want 4100 from the flag", opts.port)
	}
	if opts.compressExport != "lz4" {
		t.Errorf("compression = %q, want lz4 from the flag", opts.compressExport)
	}
	if opts.host != "render-box" {
		t.Errorf("host = %q, want render-box from the file", opts.host)
	}
	if opts.logLevel != "debug" {
		t.Errorf("log level = %q, want debug from the file", opts.logLevel)
	}
	if opts.exportDir != "/srv/frames" {
		t.Errorf("export dir = %q, want /srv/frames from the file", opts.exportDir)
	}
}

func TestLoadConfigValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"port out of range", []string{"--port", "70000"}},
		{"unknown log level", []string{"--log-level", "loud"}},
		{"unknown compression", []string{"--compress-export", "gzip"}},
		{"empty outbox", []string{"--outbox-bytes", "0"}},
		{"missing config file", []string{"--config", "/nonexistent/remote-ui.yaml"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseFlags(t, test.args...)
			if err == nil {
				t.Fatal("loadConfig succeeded, want a validation error")
			}
			if code := cli.ExitCode(err); code != 2 {
				t.Errorf("ExitCode = %d, want 2 (err: %v)", code, err)
			}
		})
	}
}

func TestFanoutHandlerRespectsLevels(t *testing.T) {
	t.Parallel()

	var verbose, quiet bytes.Buffer
	logger := slog.New(fanoutHandler{
		slog.NewTextHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}).With("component", "test")

	logger.Debug("detail")
	logger.Warn("problem")

	if !strings.Contains(verbose.String(), "detail") || !strings.Contains(verbose.String(), "problem") {
		t.Errorf("debug handler output = %q, want both records", verbose.String())
	}
	if strings.Contains(quiet.String(), "detail") {
		t.Errorf("warn handler received a debug record: %q", quiet.String())
	}
	if !strings.Contains(quiet.String(), "component=test") {
		t.Errorf("warn handler output = %q, want the derived attribute", quiet.String())
	}
	if logger.Handler().Enabled(context.Background(), slog.LevelDebug-4) {
		t.Error("fanout enabled below every handler's level")
	}
}

func TestNewLoggingWritesJSONFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "console.jsonl")
	logs, err := newLogging(slog.LevelInfo, false, path)
	if err != nil {
		t.Fatalf("newLogging: %v", err)
	}
	logs.background.Info("frame exported", "cycle", 3)
	logs.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("log file is not one JSON record: %v\n%s", err, data)
	}
	if record["msg"] != "frame exported" || record["cycle"] != float64(3) {
		t.Errorf("record = %v", record)
	}
}

func TestNewLoggingUnwritableFile(t *testing.T) {
	t.Parallel()

	_, err := newLogging(slog.LevelInfo, false, filepath.Join(t.TempDir(), "missing", "console.jsonl"))
	var categorized *cli.Error
	if !errors.As(err, &categorized) || categorized.Category != cli.CategoryValidation {
		t.Fatalf("newLogging = %v, want a validation error", err)
	}
}

func TestSessionAppliesValuesSentOnConnect(t *testing.T) {
	t.Parallel()

	consoleConn, rendererConn := net.Pipe()
	// The renderer reports its sample count the moment the console
	// connects, and drains whatever the console publishes.
	payload, err := codec.Marshal(uint32(16))
	if err != nil {
		t.Fatal(err)
	}
	go transport.WriteMessage(rendererConn, transport.Message{Channel: "samples", Payload: payload})
	go func() {
		for {
			if _, err := transport.ReadMessage(rendererConn); err != nil {
				return
			}
		}
	}()

	discard := slog.New(slog.DiscardHandler)
	s := startSession(context.Background(), transport.NewConn(consoleConn), config.Default(), consoleOptions{
		logs: &logging{startup: discard, background: discard, tui: console.NewLogHandler(slog.LevelInfo)},
	})
	t.Cleanup(func() {
		s.close()
		rendererConn.Close()
	})

	testutil.RequireReceive(t, (<-chan struct{})(s.changes), 5*time.Second, "waiting for the reported sample count")
	if got := s.panel.Samples.RemoteValue(); got != 16 {
		t.Errorf("samples = %d, want 16 from the renderer", got)
	}
}
