// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DropdownOverlay renders a floating chooser menu anchored at a screen
// position. It captures keyboard input while open (up/down to move,
// enter to select, escape to dismiss); the model owns the instance and
// routes input to it.
type DropdownOverlay struct {
	Options []string
	Cursor  int
	AnchorX int    // Screen X coordinate of the top-left corner.
	AnchorY int    // Screen Y coordinate of the top-left corner.
	Target  string // Channel of the chooser being edited.
}

// NewDropdown opens a dropdown over options with the cursor on the
// current selection.
func NewDropdown(target string, options []string, current, anchorX, anchorY int) *DropdownOverlay {
	cursor := current
	if cursor < 0 || cursor >= len(options) {
		cursor = 0
	}
	return &DropdownOverlay{
		Options: options,
		Cursor:  cursor,
		AnchorX: anchorX,
		AnchorY: anchorY,
		Target:  target,
	}
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (dropdown *DropdownOverlay) MoveUp() {
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Options) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (dropdown *DropdownOverlay) MoveDown() {
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Options) {
		dropdown.Cursor = 0
	}
}

// Width returns the visible width of the rendered dropdown in columns.
func (dropdown *DropdownOverlay) Width() int {
	maxLabelWidth := 0
	for _, option := range dropdown.Options {
		maxLabelWidth = max(maxLabelWidth, ansi.StringWidth(option))
	}
	// " > LABEL ": one column of padding each side plus a two-column
	// marker prefix.
	return maxLabelWidth + 4
}

// Render produces the dropdown lines for SpliceOverlay. Every line has
// the same visible width and a solid background; the highlighted
// option uses the selection colors.
func (dropdown *DropdownOverlay) Render(theme Theme) []string {
	innerWidth := dropdown.Width() - 2

	backgroundStyle := lipgloss.NewStyle().
		Background(theme.TooltipBackground).
		Foreground(theme.TooltipForeground)
	selectedStyle := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)

	lines := make([]string, 0, len(dropdown.Options))
	for index, option := range dropdown.Options {
		marker := "  "
		style := backgroundStyle
		if index == dropdown.Cursor {
			marker = "> "
			style = selectedStyle
		}
		content := marker + option
		padding := max(innerWidth-ansi.StringWidth(content), 0)
		lines = append(lines, style.Render(" "+content+strings.Repeat(" ", padding)+" "))
	}
	return lines
}
