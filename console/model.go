// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/remoteui/remoteui/channel"
	"github.com/remoteui/remoteui/control"
	"github.com/remoteui/remoteui/frame"
	"github.com/remoteui/remoteui/lib/clock"
	"github.com/remoteui/remoteui/lib/tui"
	"github.com/remoteui/remoteui/telemetry"
)

// Config wires the model to the rest of the console.
type Config struct {
	Panel       *control.Panel
	Monitor     *telemetry.Monitor
	Accumulator *frame.Accumulator

	// FrameMeter measures frames completed locally. Optional.
	FrameMeter *telemetry.RateMeter

	// Stats reports the publisher's counters. Optional.
	Stats func() channel.PublisherStats

	// Changes is signalled by every binding, the monitor and the
	// accumulator. Capacity 1.
	Changes <-chan struct{}

	ExportDirectory string
	Compression     frame.Compression

	// Address is the renderer address shown in the title.
	Address string

	Clock  clock.Clock
	Logger *slog.Logger

	// Logs feeds the status line. Optional; usually the handler behind
	// Logger.
	Logs *LogHandler

	Theme *tui.Theme
	Keys   *KeyMap
}

// changedMsg reports that shared state changed since the last redraw.
type changedMsg struct{}

// heatTickMsg drives the change highlight decay.
type heatTickMsg struct{}

// refreshTickMsg redraws periodically so time-based readouts (the
// local frame rate) decay when nothing arrives.
type refreshTickMsg struct{}

// exportDoneMsg carries the outcome of an export started with the
// export key or button.
type exportDoneMsg struct {
	result frame.ExportResult
	err    error
}

const refreshInterval = time.Second

// Model is the bubbletea model of the console.
type Model struct {
	config Config
	theme  tui.Theme
	keys   KeyMap
	help   help.Model

	rows     []row
	cursor   int
	dropdown *tui.DropdownOverlay

	heat        *tui.HeatTracker
	seen        map[string]uint64
	tickRunning bool

	status      string
	statusLevel slog.Level
	statusSeq   int
	notice      string
	exporting   bool

	width  int
	height int

	stopped bool
}

// NewModel creates the console model.
func NewModel(config Config) Model {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	theme := tui.DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}
	keys := DefaultKeyMap
	if config.Keys != nil {
		keys = *config.Keys
	}

	helpModel := help.New()
	helpStyle := lipgloss.NewStyle().Foreground(theme.HelpText)
	helpModel.Styles.ShortKey = helpStyle.Bold(true)
	helpModel.Styles.ShortDesc = helpStyle
	helpModel.Styles.ShortSeparator = helpStyle
	helpModel.Styles.FullKey = helpStyle.Bold(true)
	helpModel.Styles.FullDesc = helpStyle
	helpModel.Styles.FullSeparator = helpStyle

	model := Model{
		config: config,
		theme:  theme,
		keys:   keys,
		help:   helpModel,
		rows:   buildRows(config.Panel),
		heat:   tui.NewHeatTracker(),
		seen:   make(map[string]uint64),
	}
	// Defaults published during construction are not remote changes.
	for _, item := range model.rows {
		if item.version != nil {
			model.seen[item.key] = item.version()
		}
	}
	return model
}

// Stopped reports whether the user pressed the stop button. The caller
// uses it after the program exits to tell a stop from a plain quit.
func (model Model) Stopped() bool {
	return model.stopped
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return tea.Batch(
		listenForChanges(model.config.Changes),
		model.config.Logs.listen(),
		scheduleRefreshTick(),
	)
}

// listenForChanges returns a tea.Cmd that blocks until the shared
// change channel is signalled.
func listenForChanges(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

func scheduleRefreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.help.Width = message.Width

	case tea.KeyMsg:
		if model.dropdown != nil {
			return model.handleDropdownKey(message)
		}
		return model.handleKey(message)

	case changedMsg:
		return model.handleChanged()

	case heatTickMsg:
		if model.heat.HasHot(model.config.Clock.Now()) {
			return model, scheduleHeatTick()
		}
		model.tickRunning = false

	case refreshTickMsg:
		return model, scheduleRefreshTick()

	case logRecordMsg:
		model.statusSeq++
		model.status = message.Summary
		model.statusLevel = message.Level
		seq := model.statusSeq
		fade := tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{Seq: seq}
		})
		return model, tea.Batch(fade, model.config.Logs.listen())

	case logRecordFadeMsg:
		if message.Seq == model.statusSeq {
			model.status = ""
		}

	case exportDoneMsg:
		model.exporting = false
		model.notice = exportNotice(message)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	model.notice = ""
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Help):
		model.help.ShowAll = !model.help.ShowAll

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.rows)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.Decrease):
		return model.stepFocused(-1)
	case key.Matches(message, model.keys.Increase):
		return model.stepFocused(1)
	case key.Matches(message, model.keys.DecreaseCoarse):
		return model.stepFocused(-10)
	case key.Matches(message, model.keys.IncreaseCoarse):
		return model.stepFocused(10)

	case key.Matches(message, model.keys.Activate):
		return model.activateFocused()

	case key.Matches(message, model.keys.Export):
		return model.startExport()
	}
	return model, nil
}

func (model Model) handleDropdownKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.dropdown.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.dropdown.MoveDown()
	case key.Matches(message, model.keys.Activate):
		item := model.rows[model.cursor]
		selection := model.dropdown.Cursor
		model.dropdown = nil
		if err := item.choose(selection); err == nil {
			model.markLocal(item)
			return model.igniteTick()
		}
	case key.Matches(message, model.keys.Dismiss), key.Matches(message, model.keys.Quit):
		model.dropdown = nil
	}
	return model, nil
}

// stepFocused moves the focused slider by steps fine steps.
func (model Model) stepFocused(steps float64) (tea.Model, tea.Cmd) {
	item := model.rows[model.cursor]
	if item.kind != rowSlider {
		return model, nil
	}
	// A publish failure is logged by the binding and shows in the
	// status line; the local value is kept either way.
	_ = item.step(steps * item.fineStep)
	model.markLocal(item)
	return model.igniteTick()
}

func (model Model) activateFocused() (tea.Model, tea.Cmd) {
	item := model.rows[model.cursor]
	switch item.kind {
	case rowChooser:
		model.dropdown = tui.NewDropdown(item.key, item.options, item.chosen(), labelColumn, 0)
	case rowButton:
		switch item.action {
		case buttonExport:
			return model.startExport()
		case buttonStop:
			if err := model.config.Panel.Stop.Set(true); err != nil {
				return model, nil
			}
			model.config.Logger.Info("stop requested")
			model.stopped = true
			return model, tea.Quit
		}
	}
	return model, nil
}

// markLocal records the focused control's new version as seen, so the
// next refresh does not treat the user's own edit as a remote change.
func (model *Model) markLocal(item row) {
	if item.version == nil {
		return
	}
	model.seen[item.key] = item.version()
	model.heat.Ignite(item.key, tui.HeatLocal, model.config.Clock.Now())
}

func (model Model) handleChanged() (tea.Model, tea.Cmd) {
	now := model.config.Clock.Now()
	for _, item := range model.rows {
		if item.version == nil {
			continue
		}
		if version := item.version(); version != model.seen[item.key] {
			model.seen[item.key] = version
			model.heat.Ignite(item.key, tui.HeatRemote, now)
		}
	}
	next, command := model.igniteTick()
	return next, tea.Batch(listenForChanges(model.config.Changes), command)
}

// igniteTick starts the heat animation if anything is hot and the
// timer is not already running.
func (model Model) igniteTick() (Model, tea.Cmd) {
	if model.tickRunning || !model.heat.HasHot(model.config.Clock.Now()) {
		return model, nil
	}
	model.tickRunning = true
	return model, scheduleHeatTick()
}

func (model Model) startExport() (tea.Model, tea.Cmd) {
	if model.exporting || model.config.Accumulator == nil {
		return model, nil
	}
	model.exporting = true
	model.notice = "Exporting…"

	accumulator := model.config.Accumulator
	compression := model.config.Compression
	name := "frame-" + model.config.Clock.Now().Format("20060102-150405.000") + compression.Extension()
	path := filepath.Join(model.config.ExportDirectory, name)
	logger := model.config.Logger
	return model, func() tea.Msg {
		result, err := accumulator.ExportToFile(path, frame.ExportOptions{Compression: compression})
		if err != nil {
			logger.Error("frame export failed", "path", path, "error", err)
		}
		return exportDoneMsg{result: result, err: err}
	}
}

func exportNotice(message exportDoneMsg) string {
	switch {
	case message.err != nil:
		return "Export failed: " + message.err.Error()
	case !message.result.Ready:
		return "No completed frame to export yet"
	default:
		digest := message.result.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		return fmt.Sprintf("Exported frame %d to %s (%s, blake3 %s)",
			message.result.Cycle, message.result.Path,
			humanize.Bytes(uint64(message.result.Size)), digest)
	}
}
