// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/remoteui/remoteui/frame"
	"github.com/remoteui/remoteui/lib/tui"
)

const (
	// labelWidth is the width of the label column; labelColumn is
	// where widgets start: indent, focus marker, label, gap.
	labelWidth  = 18
	labelColumn = 2 + 2 + labelWidth + 2

	minSliderWidth     = 12
	maxSliderWidth     = 40
	histogramHeight    = 3
	defaultScreenWidth = 80
)

// View implements tea.Model.
func (model Model) View() string {
	if model.stopped {
		return ""
	}
	now := model.config.Clock.Now()
	width := model.screenWidth()

	lines := []string{model.renderTitle(width)}
	rowLines := make([]int, len(model.rows))
	section := ""
	for index, item := range model.rows {
		if item.section != section {
			section = item.section
			lines = append(lines, model.sectionStyle().Render(section))
		}
		rowLines[index] = len(lines)
		lines = append(lines, model.renderRow(index, item, width, now))
	}
	lines = append(lines, model.renderTelemetry(width)...)
	lines = append(lines, "", model.renderStatus(width))

	view := strings.Join(lines, "\n")
	if model.dropdown != nil {
		view = tui.SpliceOverlay(view, model.dropdown.Render(model.theme),
			model.dropdown.AnchorX, rowLines[model.cursor]+1)
	}
	return view
}

func (model Model) screenWidth() int {
	if model.width <= 0 {
		return defaultScreenWidth
	}
	return model.width
}

func (model Model) sliderWidth(width int) int {
	return min(max(width-labelColumn-16, minSliderWidth), maxSliderWidth)
}

func (model Model) sectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
}

func (model Model) renderTitle(width int) string {
	title := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).Render("remote-ui")
	detail := lipgloss.NewStyle().Foreground(model.theme.FaintText).
		Render(fmt.Sprintf("  %s  exports → %s", model.config.Address, model.config.ExportDirectory))
	return ansi.Truncate(title+detail, width, "…")
}

func (model Model) renderRow(index int, item row, width int, now time.Time) string {
	focused := index == model.cursor
	marker := "  "
	labelStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if focused {
		marker = "▸ "
		labelStyle = lipgloss.NewStyle().Foreground(model.theme.SelectedForeground).Bold(true)
	}

	var widget string
	switch item.kind {
	case rowSlider:
		widget = tui.RenderSlider(model.theme, model.sliderWidth(width), item.position(), focused) +
			"  " + item.readout()
	case rowChooser:
		choice := "-"
		if chosen := item.chosen(); chosen >= 0 && chosen < len(item.options) {
			choice = item.options[chosen]
		}
		widget = labelStyle.Render(choice + " ▾")
	case rowButton:
		button := lipgloss.NewStyle().
			Foreground(model.theme.NormalText).
			Background(model.theme.SelectedBackground)
		if focused {
			button = button.Foreground(model.theme.SelectedForeground).Bold(true)
		}
		label := item.label
		if item.action == buttonExport && model.exporting {
			label = "Exporting…"
		}
		line := "  " + marker + button.Render("[ "+label+" ]")
		return ansi.Truncate(line, width, "…")
	}

	label := labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, item.label))
	line := "  " + marker + label + "  " + widget

	if !focused {
		if heat := model.heat.Heat(item.key, now); heat > 0 {
			accent := model.theme.HotAccentRemote
			if model.heat.Kind(item.key) == tui.HeatLocal {
				accent = model.theme.HotAccentLocal
			}
			line = lipgloss.NewStyle().Background(accent).Render(line)
		}
	}
	return ansi.Truncate(line, width, "…")
}

func (model Model) renderTelemetry(width int) []string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	field := func(label, value string) string {
		return ansi.Truncate("    "+faint.Render(fmt.Sprintf("%-*s", labelWidth, label))+"  "+value, width, "…")
	}

	lines := []string{model.sectionStyle().Render("Info/Stats")}

	if monitor := model.config.Monitor; monitor != nil {
		snapshot := monitor.Snapshot()
		lines = append(lines, field("Workload balance", snapshot.Histogram.Summary))
		graph := tui.RenderSparkline(model.theme, snapshot.Histogram.Values,
			max(width-labelColumn-2, minSliderWidth), histogramHeight)
		for _, graphLine := range strings.Split(graph, "\n") {
			lines = append(lines, strings.Repeat(" ", labelColumn)+graphLine)
		}
		lines = append(lines,
			field("Video rate", snapshot.BitRateText()),
			field("Frame rate", snapshot.FrameRateText()),
		)
	}

	if accumulator := model.config.Accumulator; accumulator != nil {
		lines = append(lines, field("Frame", model.frameStatus(accumulator)))
	}

	if model.config.Stats != nil {
		stats := model.config.Stats()
		lines = append(lines, field("Outbox", fmt.Sprintf("%d queued · %d sent · %d dropped · %d failed",
			stats.Queued, stats.Sent, stats.Dropped, stats.Failed)))
	}
	return lines
}

func (model Model) frameStatus(accumulator *frame.Accumulator) string {
	var status string
	switch accumulator.State() {
	case frame.Idle:
		status = lipgloss.NewStyle().Foreground(model.theme.StatusPending).Render("waiting for first frame")
	case frame.Receiving:
		received, height := accumulator.Progress()
		status = lipgloss.NewStyle().Foreground(model.theme.StatusPending).
			Render(fmt.Sprintf("receiving %d/%d rows", received, height))
	case frame.Complete:
		status = lipgloss.NewStyle().Foreground(model.theme.StatusGood).Render("complete")
	}
	if latest := accumulator.Latest(); latest != nil {
		status += fmt.Sprintf("  last #%d %d×%d", latest.Cycle, latest.Header.Width, latest.Header.Height)
	}
	if model.config.FrameMeter != nil {
		status += fmt.Sprintf("  local %.1f fps", model.config.FrameMeter.Rate())
	}
	return status
}

func (model Model) renderStatus(width int) string {
	switch {
	case model.status != "":
		style := lipgloss.NewStyle().Foreground(model.theme.LevelColor(model.statusLevel))
		return ansi.Truncate(style.Render(model.status), width, "…")
	case model.notice != "":
		style := lipgloss.NewStyle().Foreground(model.theme.NormalText)
		return ansi.Truncate(style.Render(model.notice), width, "…")
	default:
		return model.help.View(model.keys)
	}
}
