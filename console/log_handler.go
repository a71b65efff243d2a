// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the model for display in the
// status line.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// logRecordFadeMsg clears the status line after logRecordFadeDelay.
// Seq identifies the record that scheduled it, so an older fade does
// not clear a newer record.
type logRecordFadeMsg struct{ Seq int }

// logRecordFadeDelay is how long a log record stays in the status line
// before the help line returns.
const logRecordFadeDelay = 5 * time.Second

// logRecordBuffer bounds the records waiting for the model. When it
// is full the oldest waiting record is dropped.
const logRecordBuffer = 64

// LogHandler is a slog.Handler that routes records into the model as
// status-line messages. Handle never blocks, even when called from
// inside Update: records wait in a bounded buffer that the model drains
// with a tea.Cmd.
//
// Handlers derived via WithAttrs/WithGroup share the buffer.
type LogHandler struct {
	level   slog.Leveler
	records chan logRecordMsg
	attrs   []slog.Attr
	groups  []string
}

// NewLogHandler creates a handler for records at or above level.
func NewLogHandler(level slog.Leveler) *LogHandler {
	return &LogHandler{
		level:   level,
		records: make(chan logRecordMsg, logRecordBuffer),
	}
}

// Enabled implements slog.Handler.
func (handler *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle implements slog.Handler.
func (handler *LogHandler) Handle(_ context.Context, record slog.Record) error {
	message := logRecordMsg{
		Summary: handler.summarize(record),
		Level:   record.Level,
	}
	for {
		select {
		case handler.records <- message:
			return nil
		default:
		}
		select {
		case <-handler.records:
		default:
		}
	}
}

// listen returns a command that waits for the next record. The model
// re-arms it after every record it receives.
func (handler *LogHandler) listen() tea.Cmd {
	if handler == nil {
		return nil
	}
	records := handler.records
	return func() tea.Msg {
		return <-records
	}
}

// WithAttrs implements slog.Handler.
func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := handler.groupPrefix()
	qualified := make([]slog.Attr, len(attrs))
	for index, attr := range attrs {
		qualified[index] = slog.Attr{Key: prefix + attr.Key, Value: attr.Value}
	}
	return &LogHandler{
		level:   handler.level,
		records: handler.records,
		attrs:   append(sliceClone(handler.attrs), qualified...),
		groups:  sliceClone(handler.groups),
	}
}

// WithGroup implements slog.Handler.
func (handler *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	return &LogHandler{
		level:   handler.level,
		records: handler.records,
		attrs:   sliceClone(handler.attrs),
		groups:  append(sliceClone(handler.groups), name),
	}
}

// summarize renders "message (key=value, ...)".
func (handler *LogHandler) summarize(record slog.Record) string {
	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	prefix := handler.groupPrefix()
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})
	if len(parts) == 0 {
		return record.Message
	}
	return record.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (handler *LogHandler) groupPrefix() string {
	if len(handler.groups) == 0 {
		return ""
	}
	return strings.Join(handler.groups, ".") + "."
}

func sliceClone[T any](source []T) []T {
	if source == nil {
		return nil
	}
	result := make([]T, len(source))
	copy(result, source)
	return result
}
