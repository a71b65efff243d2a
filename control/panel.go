// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"log/slog"
	"math"
	"slices"

	"github.com/remoteui/remoteui/lib/menu"
)

// Slider is a binding from a [0,1] slider to a float channel.
type Slider = Binding[float64, float32]

// Chooser is a binding from a list index to a string channel.
type Chooser = Binding[int, string]

// LabeledSlider is a slider with its display metadata.
type LabeledSlider struct {
	Label string
	Unit  string
	*Slider
}

// Devices are the renderer backends offered by the device chooser.
var Devices = []string{"cpu", "ipu"}

// Panel is the console's full set of bindings.
type Panel struct {
	// Rotation is the environment rotator; the widget value is radians.
	Rotation *Binding[float64, float32]

	FOV      *Slider
	Exposure *Slider
	Gamma    *Slider
	X        *Slider
	Y        *Slider
	Lambda1  *Slider
	Lambda2  *Slider
	Samples  *Binding[float64, uint32]

	Device *Chooser

	// Model selects a renderer-side model from the menu file. Nil when
	// the menu is empty.
	Model      *Chooser
	ModelNames []string

	Stop *Binding[bool, bool]
}

// NewPanel binds every control. Sliders publish their defaults
// immediately; choosers and the stop button publish only when used.
// notify receives a signal whenever any control's value changes.
func NewPanel(subscriber Subscriber, publisher Publisher, models []menu.Entry, notify chan<- struct{}, logger *slog.Logger) *Panel {
	slider := func(name string, position float64, toRemote func(float64) float32, fromRemote func(float32) float64) *Slider {
		return Bind(subscriber, publisher, Spec[float64, float32]{
			Channel:    name,
			Default:    position,
			ToRemote:   toRemote,
			FromRemote: accept(fromRemote),
		}, notify, logger)
	}

	gamma, gammaPosition := Linear(GammaRange)
	x, xPosition := Linear(ImageWidth)
	y, yPosition := Linear(ImageHeight)
	lambda, lambdaPosition := Linear(LambdaRange)

	panel := &Panel{
		Rotation: Bind(subscriber, publisher, Spec[float64, float32]{
			Channel:  "env_rotation",
			Default:  0,
			ToRemote: RotationDegrees,
		}, notify, logger),
		FOV:      slider("fov", FieldOfViewPosition(math.Pi/2), FieldOfView, FieldOfViewPosition),
		Exposure: slider("exposure", 0.5, Exposure, ExposurePosition),
		Gamma:    slider("gamma", 2.2/GammaRange, gamma, gammaPosition),
		X:        slider("X", 640.0/ImageWidth, x, xPosition),
		Y:        slider("Y", 360.0/ImageHeight, y, yPosition),
		Lambda1:  slider("lambda1", 50.0/LambdaRange, lambda, lambdaPosition),
		Lambda2:  slider("lambda2", 50.0/LambdaRange, lambda, lambdaPosition),
		Samples: Bind(subscriber, publisher, Spec[float64, uint32]{
			Channel:    "samples",
			Default:    0.25,
			ToRemote:   SampleCount,
			FromRemote: accept(SamplePosition),
		}, notify, logger),
		Device: Bind(subscriber, publisher, chooserSpec("device", Devices), notify, logger),
		Stop: Bind(subscriber, publisher, Spec[bool, bool]{
			Channel:            "stop",
			ToRemote:           func(stop bool) bool { return stop },
			SkipInitialPublish: true,
		}, notify, logger),
	}

	if len(models) > 0 {
		paths := make([]string, len(models))
		for index, entry := range models {
			panel.ModelNames = append(panel.ModelNames, entry.Name)
			paths[index] = entry.RemotePath
		}
		spec := chooserSpec("nif_path", paths)
		// The renderer does not report the loaded model back.
		spec.FromRemote = nil
		panel.Model = Bind(subscriber, publisher, spec, notify, logger)
	}
	return panel
}

// Sliders returns the [0,1] sliders in display order.
func (p *Panel) Sliders() []LabeledSlider {
	return []LabeledSlider{
		{Label: "Field of view", Unit: "rad", Slider: p.FOV},
		{Label: "Exposure", Unit: "stops", Slider: p.Exposure},
		{Label: "Gamma", Slider: p.Gamma},
		{Label: "X", Unit: "px", Slider: p.X},
		{Label: "Y", Unit: "px", Slider: p.Y},
		{Label: "Lambda1", Slider: p.Lambda1},
		{Label: "Lambda2", Slider: p.Lambda2},
	}
}

// Close deregisters every binding.
func (p *Panel) Close() {
	for _, slider := range p.Sliders() {
		slider.Close()
	}
	p.Rotation.Close()
	p.Samples.Close()
	p.Device.Close()
	if p.Model != nil {
		p.Model.Close()
	}
	p.Stop.Close()
}

// chooserSpec binds an index into items to the item string. Remote
// values not in items are rejected.
func chooserSpec(name string, items []string) Spec[int, string] {
	items = slices.Clone(items)
	return Spec[int, string]{
		Channel: name,
		ToRemote: func(index int) string {
			if index < 0 || index >= len(items) {
				return ""
			}
			return items[index]
		},
		FromRemote: func(item string) (int, bool) {
			index := slices.Index(items, item)
			return index, index >= 0
		},
		SkipInitialPublish: true,
	}
}

// accept lifts an infallible inverse conversion into FromRemote's shape.
func accept[V, D any](convert func(D) V) func(D) (V, bool) {
	return func(remote D) (V, bool) { return convert(remote), true }
}
