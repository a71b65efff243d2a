// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the console's colour palette. All colors use lipgloss
// ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Focused row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Gauges.
	SliderFill  lipgloss.Color
	SliderTrack lipgloss.Color
	GraphBar    lipgloss.Color

	// Connection and frame status.
	StatusGood    lipgloss.Color
	StatusPending lipgloss.Color
	StatusBad     lipgloss.Color

	// Background tints for recently changed controls: HotAccentRemote
	// for updates from the renderer, HotAccentLocal for user edits.
	HotAccentRemote lipgloss.Color
	HotAccentLocal  lipgloss.Color

	// Dropdown overlays.
	TooltipForeground lipgloss.Color
	TooltipBackground lipgloss.Color
}

// LevelColor returns the status-line color for a log level.
func (theme Theme) LevelColor(level slog.Level) lipgloss.Color {
	switch {
	case level >= slog.LevelError:
		return theme.StatusBad
	case level >= slog.LevelWarn:
		return theme.StatusPending
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	SliderFill:  lipgloss.Color("75"),  // blue
	SliderTrack: lipgloss.Color("238"), // dark gray
	GraphBar:    lipgloss.Color("114"), // green

	StatusGood:    lipgloss.Color("114"), // green
	StatusPending: lipgloss.Color("220"), // yellow/amber
	StatusBad:     lipgloss.Color("196"), // red

	HotAccentRemote: lipgloss.Color("58"), // dark amber background tint
	HotAccentLocal:  lipgloss.Color("23"), // dark teal background tint

	TooltipForeground: lipgloss.Color("252"),
	TooltipBackground: lipgloss.Color("237"),
}
