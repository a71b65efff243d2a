// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay lines placed at (anchorX, anchorY). Truncation is ANSI-aware,
// so escape sequences in the view survive on both sides of the overlay.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		lineIndex := anchorY + index
		if lineIndex < 0 || lineIndex >= len(viewLines) {
			continue
		}
		viewLine := viewLines[lineIndex]

		var result strings.Builder
		prefix := ansi.Truncate(viewLine, anchorX, "")
		result.WriteString(prefix)
		// Pad short lines so the overlay lands at its column.
		if gap := anchorX - ansi.StringWidth(prefix); gap > 0 {
			result.WriteString(strings.Repeat(" ", gap))
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		if suffixStart := anchorX + overlayWidth; suffixStart < ansi.StringWidth(viewLine) {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}
		viewLines[lineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}
