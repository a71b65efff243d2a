// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/remoteui/remoteui/channel"
	"github.com/remoteui/remoteui/lib/clock"
	"github.com/remoteui/remoteui/lib/codec"
)

func newTestMonitor(t *testing.T) (*channel.Registry, *Monitor, *clock.FakeClock, chan struct{}) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	registry := channel.NewRegistry(logger)
	fake := clock.Fake(time.Unix(1000, 0))
	notify := make(chan struct{}, 1)
	monitor := NewMonitor(registry, fake, notify, logger)
	t.Cleanup(monitor.Close)
	return registry, monitor, fake, notify
}

func encode(t *testing.T, value any) []byte {
	t.Helper()
	payload, err := codec.Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return payload
}

func TestMonitorInitialSnapshot(t *testing.T) {
	t.Parallel()
	_, monitor, _, _ := newTestMonitor(t)
	snapshot := monitor.Snapshot()
	if snapshot.FrameRateText() != "-" || snapshot.BitRateText() != "-" {
		t.Errorf("readouts = %q, %q; want -, -", snapshot.FrameRateText(), snapshot.BitRateText())
	}
	if snapshot.Histogram.Summary != "max tile: 0" {
		t.Errorf("Summary = %q", snapshot.Histogram.Summary)
	}
	if !snapshot.Updated.IsZero() {
		t.Errorf("Updated = %v, want zero", snapshot.Updated)
	}
}

func TestMonitorAppliesTelemetry(t *testing.T) {
	t.Parallel()
	registry, monitor, fake, notify := newTestMonitor(t)

	fake.Advance(time.Second)
	registry.Dispatch(ChannelHistogram, encode(t, []uint32{1, 4, 2}))
	registry.Dispatch(ChannelFrameRate, encode(t, float32(24)))
	registry.Dispatch(ChannelBitRate, encode(t, float32(12.5)))

	select {
	case <-notify:
	default:
		t.Fatal("no change notification")
	}

	snapshot := monitor.Snapshot()
	if !slices.Equal(snapshot.Histogram.Values, []float32{0.25, 1, 0.5}) {
		t.Errorf("histogram = %v", snapshot.Histogram.Values)
	}
	if snapshot.Histogram.Summary != "max tile: 4" {
		t.Errorf("Summary = %q", snapshot.Histogram.Summary)
	}
	if got := snapshot.FrameRateText(); got != "24.0 Frames/sec" {
		t.Errorf("FrameRateText = %q", got)
	}
	if got := snapshot.BitRateText(); got != "12.5 Mbps" {
		t.Errorf("BitRateText = %q", got)
	}
	if want := time.Unix(1001, 0); !snapshot.Updated.Equal(want) {
		t.Errorf("Updated = %v, want %v", snapshot.Updated, want)
	}
}

func TestMonitorIgnoresMalformedPayload(t *testing.T) {
	t.Parallel()
	registry, monitor, _, notify := newTestMonitor(t)

	registry.Dispatch(ChannelHistogram, encode(t, "not a histogram"))
	registry.Dispatch(ChannelFrameRate, []byte{0xff})

	select {
	case <-notify:
		t.Error("malformed payload signalled a change")
	default:
	}
	if snapshot := monitor.Snapshot(); snapshot.HasFrameRate || snapshot.Histogram.Max != 0 {
		t.Errorf("snapshot changed: %+v", snapshot)
	}
}
