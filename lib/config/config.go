// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the console configuration.
type Config struct {
	Renderer RendererConfig `yaml:"renderer"`
	Log      LogConfig      `yaml:"log"`
	Menu     MenuConfig     `yaml:"menu"`
	Export   ExportConfig   `yaml:"export"`
	Outbox   OutboxConfig   `yaml:"outbox"`
}

// RendererConfig locates the remote renderer.
type RendererConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// DialTimeout bounds the initial connection attempt, as a Go
	// duration string ("5s").
	DialTimeout string `yaml:"dial_timeout"`
}

// Address returns "host:port".
func (r RendererConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, err/error, critical,
	// off.
	Level string `yaml:"level"`

	// Output, if set, receives every record as JSON in addition to the
	// console status line.
	Output string `yaml:"output"`
}

// MenuConfig points at the JSON file that populates the model chooser.
type MenuConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig configures frame export.
type ExportConfig struct {
	Directory string `yaml:"directory"`

	// Compression wraps exported PFM files in a stream: none, zstd
	// (.pfm.zst) or lz4 (.pfm.lz4).
	Compression string `yaml:"compression"`
}

// OutboxConfig bounds the publisher's local send buffer.
type OutboxConfig struct {
	MaxBytes int `yaml:"max_bytes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Renderer: RendererConfig{
			Host:        "localhost",
			Port:        3000,
			DialTimeout: "5s",
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Directory: ".",
		},
		Outbox: OutboxConfig{
			MaxBytes: 4 * 1024 * 1024,
		},
	}
}

// LoadFile loads path on top of Default and expands ${VAR} references
// in path-valued fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands environment references in path fields so a
// config file can be shared between machines.
func (c *Config) expandVariables() {
	c.Log.Output = os.ExpandEnv(c.Log.Output)
	c.Menu.Path = os.ExpandEnv(c.Menu.Path)
	c.Export.Directory = os.ExpandEnv(c.Export.Directory)
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Renderer.Host == "" {
		errs = append(errs, fmt.Errorf("renderer.host is required"))
	}
	if c.Renderer.Port <= 0 || c.Renderer.Port > 65535 {
		errs = append(errs, fmt.Errorf("renderer.port must be in 1..65535, got %d", c.Renderer.Port))
	}
	if _, _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Export.Directory == "" {
		errs = append(errs, fmt.Errorf("export.directory is required"))
	}
	switch c.Export.Compression {
	case "", "none", "zstd", "lz4":
	default:
		errs = append(errs, fmt.Errorf("export.compression must be none, zstd or lz4, got %q", c.Export.Compression))
	}
	if c.Outbox.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("outbox.max_bytes must be positive, got %d", c.Outbox.MaxBytes))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LevelTrace sits below slog.LevelDebug for per-message wire logging.
const LevelTrace = slog.LevelDebug - 4

// LevelCritical sits above slog.LevelError.
const LevelCritical = slog.LevelError + 4

// ParseLogLevel maps a level name to a slog level. The second result is
// true for "off", which the caller implements by discarding records.
func ParseLogLevel(name string) (slog.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, false, nil
	case "debug":
		return slog.LevelDebug, false, nil
	case "info", "":
		return slog.LevelInfo, false, nil
	case "warn", "warning":
		return slog.LevelWarn, false, nil
	case "err", "error":
		return slog.LevelError, false, nil
	case "critical":
		return LevelCritical, false, nil
	case "off":
		return LevelCritical, true, nil
	default:
		return 0, false, fmt.Errorf("log level %q must be one of trace, debug, info, warn, err, critical, off", name)
	}
}
