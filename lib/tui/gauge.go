// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderSlider draws a horizontal slider of the given width for a
// position in [0,1]; out-of-range positions are clamped.
//
//	━━━━━━━━●───────
func RenderSlider(theme Theme, width int, position float64, focused bool) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(position) {
		position = 0
	}
	position = min(max(position, 0), 1)

	knob := int(math.Round(position * float64(width-1)))
	fillStyle := lipgloss.NewStyle().Foreground(theme.SliderFill)
	trackStyle := lipgloss.NewStyle().Foreground(theme.SliderTrack)
	knobStyle := fillStyle
	if focused {
		knobStyle = lipgloss.NewStyle().Foreground(theme.SelectedForeground).Bold(true)
	}

	return fillStyle.Render(strings.Repeat("━", knob)) +
		knobStyle.Render("●") +
		trackStyle.Render(strings.Repeat("─", width-1-knob))
}

// sparkLevels are the eighth-block glyphs from empty to full.
var sparkLevels = []rune(" ▁▂▃▄▅▆▇█")

// RenderSparkline draws values in [0,1] as a block graph of the given
// width and height. When there are more values than columns, each
// column shows the maximum of the values it covers.
func RenderSparkline(theme Theme, values []float32, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	columns := make([]float64, width)
	if len(values) > 0 {
		for column := range columns {
			start := column * len(values) / width
			end := max((column+1)*len(values)/width, start+1)
			peak := 0.0
			for _, value := range values[start:min(end, len(values))] {
				peak = max(peak, float64(value))
			}
			columns[column] = min(max(peak, 0), 1)
		}
	}

	steps := len(sparkLevels) - 1
	lines := make([]string, height)
	for line := range lines {
		// Row 0 is the top of the graph.
		floor := float64(height-1-line) / float64(height)
		var row strings.Builder
		for _, value := range columns {
			fill := (value - floor) * float64(height)
			level := int(math.Round(min(max(fill, 0), 1) * float64(steps)))
			row.WriteRune(sparkLevels[level])
		}
		lines[line] = row.String()
	}
	return lipgloss.NewStyle().Foreground(theme.GraphBar).Render(strings.Join(lines, "\n"))
}
