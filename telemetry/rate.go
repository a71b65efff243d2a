// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/remoteui/remoteui/lib/clock"
)

// Display units for the rate readouts.
const (
	UnitBitRate   = "Mbps"
	UnitFrameRate = "Frames/sec"
)

// FormatRate renders a rate with one decimal place and its unit.
func FormatRate(value float32, unit string) string {
	return fmt.Sprintf("%.1f %s", value, unit)
}

// RateMeter counts events over a sliding window. The console uses it
// for the rate of frames completed locally, next to the renderer's own
// frame rate.
type RateMeter struct {
	clock  clock.Clock
	window time.Duration

	mutex  sync.Mutex
	events []time.Time
}

// NewRateMeter creates a meter averaging over window.
func NewRateMeter(clk clock.Clock, window time.Duration) *RateMeter {
	if window <= 0 {
		panic("telemetry: RateMeter window must be positive")
	}
	return &RateMeter{clock: clk, window: window}
}

// Mark records one event at the current time.
func (m *RateMeter) Mark() {
	now := m.clock.Now()
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.events = append(m.events, now)
	m.expireLocked(now)
}

// Rate returns events per second over the window ending now.
func (m *RateMeter) Rate() float64 {
	now := m.clock.Now()
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.expireLocked(now)
	return float64(len(m.events)) / m.window.Seconds()
}

func (m *RateMeter) expireLocked(now time.Time) {
	cutoff := now.Add(-m.window)
	keep := 0
	for keep < len(m.events) && !m.events[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		m.events = append(m.events[:0], m.events[keep:]...)
	}
}
