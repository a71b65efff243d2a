// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/remoteui/remoteui/console"
	"github.com/remoteui/remoteui/lib/cli"
	"github.com/remoteui/remoteui/lib/tui"
)

// logging holds the console's loggers. Before the terminal UI starts,
// records go to stderr (startup). Once it runs, stderr belongs to the
// alt screen, so background records go to the status line and,
// optionally, a JSON file.
type logging struct {
	startup    *slog.Logger
	background *slog.Logger
	tui        *console.LogHandler
	file       *os.File
}

func newLogging(level slog.Level, off bool, output string) (*logging, error) {
	// The status line shows one record at a time; below info it would
	// be unreadable.
	tuiHandler := console.NewLogHandler(max(level, slog.LevelInfo))
	logs := &logging{tui: tuiHandler}

	if off {
		logs.startup = slog.New(slog.DiscardHandler)
		logs.background = slog.New(slog.DiscardHandler)
		return logs, nil
	}

	options := &slog.HandlerOptions{Level: level}
	logs.startup = slog.New(tui.StderrHandler(options))

	if output == "" {
		logs.background = slog.New(tuiHandler)
		return logs, nil
	}
	file, err := os.Create(output)
	if err != nil {
		return nil, cli.Validation("cannot open log file %s: %w", output, err)
	}
	logs.file = file
	fileHandler := slog.NewJSONHandler(file, options)
	logs.background = slog.New(fanoutHandler{tuiHandler, fileHandler})
	logs.startup = slog.New(fanoutHandler{logs.startup.Handler(), fileHandler})
	return logs, nil
}

// Close closes the log file, if any.
func (l *logging) Close() {
	if l.file != nil {
		l.file.Close()
	}
}

// fanoutHandler sends each record to every handler enabled for its
// level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
