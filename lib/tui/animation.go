// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// HeatDecayDuration is how long a control glows after a change.
// Heat starts at 1.0 and decays linearly to 0.0 over this duration.
const HeatDecayDuration = 2 * time.Second

// HeatTickInterval is the re-render interval while any control is hot.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind distinguishes where a change came from.
type HeatKind int

const (
	// HeatRemote marks a value the renderer pushed.
	HeatRemote HeatKind = iota
	// HeatLocal marks a value the user set.
	HeatLocal
)

type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps control keys to ignition timestamps for animated
// change highlighting. Not safe for concurrent use; the console model
// owns it.
type HeatTracker struct {
	entries map[string]heatEntry
}

// NewHeatTracker creates an empty heat tracker.
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{
		entries: make(map[string]heatEntry),
	}
}

// Ignite records a change. Resets the decay timer if the control was
// already hot.
func (tracker *HeatTracker) Ignite(key string, kind HeatKind, now time.Time) {
	tracker.entries[key] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the current intensity: 1.0 at ignition, decaying
// linearly to 0.0 over [HeatDecayDuration].
func (tracker *HeatTracker) Heat(key string, now time.Time) float64 {
	entry, exists := tracker.entries[key]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= HeatDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(HeatDecayDuration)
}

// Kind returns the heat kind for a control. Only meaningful when Heat
// returns > 0.
func (tracker *HeatTracker) Kind(key string) HeatKind {
	return tracker.entries[key].kind
}

// HasHot reports whether any control is still hot, meaning the tick
// timer should keep running. Fully decayed entries are dropped.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for key, entry := range tracker.entries {
		if now.Sub(entry.ignition) < HeatDecayDuration {
			hot = true
			continue
		}
		delete(tracker.entries, key)
	}
	return hot
}
