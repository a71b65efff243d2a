// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"math"

	"github.com/remoteui/remoteui/control"
)

type rowKind int

const (
	rowSlider rowKind = iota
	rowChooser
	rowButton
)

type buttonAction int

const (
	buttonExport buttonAction = iota
	buttonStop
)

// row is one focusable line of the panel. Which fields are set depends
// on kind.
type row struct {
	key     string
	label   string
	section string
	kind    rowKind

	// version reports the bound control's change counter; nil for
	// buttons.
	version func() uint64

	// Sliders. fineStep is the position change of one key press.
	position func() float64
	step     func(delta float64) error
	readout  func() string
	fineStep float64

	// Choosers.
	options []string
	chosen  func() int
	choose  func(index int) error

	// Buttons.
	action buttonAction
}

const defaultFineStep = 0.01

// buildRows lays out the panel in display order.
func buildRows(panel *control.Panel) []row {
	rotation := panel.Rotation
	rows := []row{{
		key:     rotation.Channel(),
		label:   "Env rotation",
		section: "Scene",
		kind:    rowSlider,
		version: rotation.Control().Version,
		position: func() float64 {
			return rotation.Value() / (2 * math.Pi)
		},
		step: func(delta float64) error {
			angle := math.Mod(rotation.Value()+delta*2*math.Pi, 2*math.Pi)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			return rotation.Set(angle)
		},
		readout:  func() string { return fmt.Sprintf("%.0f°", rotation.RemoteValue()) },
		fineStep: 1.0 / 72,
	}}

	for _, slider := range panel.Sliders() {
		rows = append(rows, sliderRow("Camera", slider))
	}

	samples := panel.Samples
	rows = append(rows, row{
		key:      samples.Channel(),
		label:    "Samples",
		section:  "Render",
		kind:     rowSlider,
		version:  samples.Control().Version,
		position: samples.Value,
		step: func(delta float64) error {
			return samples.Set(clampUnit(samples.Value() + delta))
		},
		readout:  func() string { return fmt.Sprintf("%d spp", samples.RemoteValue()) },
		fineStep: 1.0 / control.MaxSamples,
	})
	rows = append(rows, chooserRow("Device", "Render", control.Devices, panel.Device))
	if panel.Model != nil {
		rows = append(rows, chooserRow("Model", "Render", panel.ModelNames, panel.Model))
	}

	rows = append(rows,
		row{key: "export", label: "Export frame", section: "Actions", kind: rowButton, action: buttonExport},
		row{key: panel.Stop.Channel(), label: "Stop renderer", section: "Actions", kind: rowButton, action: buttonStop},
	)
	return rows
}

func sliderRow(section string, slider control.LabeledSlider) row {
	return row{
		key:      slider.Channel(),
		label:    slider.Label,
		section:  section,
		kind:     rowSlider,
		version:  slider.Control().Version,
		position: slider.Value,
		step: func(delta float64) error {
			return slider.Set(clampUnit(slider.Value() + delta))
		},
		readout:  func() string { return formatReadout(slider.RemoteValue(), slider.Unit) },
		fineStep: defaultFineStep,
	}
}

func chooserRow(label, section string, options []string, chooser *control.Chooser) row {
	return row{
		key:     chooser.Channel(),
		label:   label,
		section: section,
		kind:    rowChooser,
		version: chooser.Control().Version,
		options: options,
		chosen:  chooser.Value,
		choose:  chooser.Set,
	}
}

// formatReadout shows about three significant digits without switching
// to exponent notation.
func formatReadout(value float32, unit string) string {
	var text string
	switch magnitude := math.Abs(float64(value)); {
	case magnitude >= 100:
		text = fmt.Sprintf("%.0f", value)
	case magnitude >= 10:
		text = fmt.Sprintf("%.1f", value)
	default:
		text = fmt.Sprintf("%.2f", value)
	}
	if unit != "" {
		text += " " + unit
	}
	return text
}

func clampUnit(value float64) float64 {
	return min(max(value, 0), 1)
}
