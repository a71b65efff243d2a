// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ApplyColorMode sets the default lipgloss color profile from a
// --color flag value. "auto" keeps lipgloss's own detection, "always"
// forces 256 colors (useful under tmux or when recording), and "never"
// strips all styling.
func ApplyColorMode(mode string) error {
	switch mode {
	case "", "auto":
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("color mode must be auto, always or never, got %q", mode)
	}
	return nil
}

// StderrHandler returns a text handler when stderr is a terminal and a
// JSON handler otherwise, so piped output stays machine-readable.
func StderrHandler(options *slog.HandlerOptions) slog.Handler {
	return streamHandler(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), options)
}

func streamHandler(w io.Writer, terminal bool, options *slog.HandlerOptions) slog.Handler {
	if terminal {
		return slog.NewTextHandler(w, options)
	}
	return slog.NewJSONHandler(w, options)
}
