// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks of the console:
// the colour theme, slider and sparkline gauges, the chooser dropdown
// overlay, and the heat tracker that makes remotely changed controls
// glow briefly.
//
// Everything here renders to strings with lipgloss and measures with
// ANSI-aware widths, so the console's bubbletea model can compose the
// pieces freely.
package tui
