// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package control

import "math"

// Widget-to-renderer unit conversions. Sliders are positions in [0,1];
// the rotator is an angle in radians.

const (
	// MaxSamples bounds the per-pixel sample count; higher counts make
	// a frame take too long and the controls feel unresponsive.
	MaxSamples = 16

	// Image-space extents for the X and Y probe sliders.
	ImageWidth  = 1280
	ImageHeight = 720

	// LambdaRange is the full-scale value of the lambda sliders.
	LambdaRange = 100

	// ExposureRange is the span of the exposure slider, centred on 0.
	ExposureRange = 4

	// GammaRange is the full-scale value of the gamma slider.
	GammaRange = 4
)

// SampleCount maps a slider position to a per-pixel sample count in
// [1, MaxSamples]. It is total: out-of-range positions are clamped and
// NaN maps to 1. The result is non-decreasing in position.
func SampleCount(position float64) uint32 {
	count := uint32(clamp01(position) * MaxSamples)
	return max(count, 1)
}

// SamplePosition is the slider position for a sample count reported by
// the renderer.
func SamplePosition(count uint32) float64 {
	return clamp01(float64(count) / MaxSamples)
}

// FieldOfView maps a slider position to a field of view in radians:
// the full slider spans one turn.
func FieldOfView(position float64) float32 {
	return float32(position * 2 * math.Pi)
}

// FieldOfViewPosition is the inverse of FieldOfView.
func FieldOfViewPosition(radians float32) float64 {
	return clamp01(float64(radians) / (2 * math.Pi))
}

// RotationDegrees maps a rotator angle in radians to degrees.
func RotationDegrees(radians float64) float32 {
	return float32(radians / (2 * math.Pi) * 360)
}

// Exposure maps a slider position to an exposure in
// [-ExposureRange/2, +ExposureRange/2] stops.
func Exposure(position float64) float32 {
	return float32(ExposureRange * (position - 0.5))
}

// ExposurePosition is the inverse of Exposure.
func ExposurePosition(stops float32) float64 {
	return clamp01(float64(stops)/ExposureRange + 0.5)
}

// Linear returns a conversion from slider position to [0, fullScale]
// and its inverse. Used for gamma, the X/Y probes and the lambdas.
func Linear(fullScale float64) (func(float64) float32, func(float32) float64) {
	toRemote := func(position float64) float32 {
		return float32(position * fullScale)
	}
	fromRemote := func(value float32) float64 {
		return clamp01(float64(value) / fullScale)
	}
	return toRemote, fromRemote
}

// clamp01 clamps to [0,1] and maps NaN to 0.
func clamp01(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
