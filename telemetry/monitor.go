// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"log/slog"
	"sync"
	"time"

	"github.com/remoteui/remoteui/channel"
	"github.com/remoteui/remoteui/lib/clock"
	"github.com/remoteui/remoteui/lib/codec"
)

// Channel names the monitor subscribes to.
const (
	ChannelHistogram = "tile_histogram"
	ChannelFrameRate = "frame_rate"
	ChannelBitRate   = "bit_rate"
)

// Subscriber binds callbacks to channel names. *channel.Registry
// implements it.
type Subscriber interface {
	Subscribe(name string, callback channel.Callback) *channel.Subscription
}

// Snapshot is a copy of the latest telemetry. A zero rate with its Has
// flag unset means nothing has arrived yet and the readout shows "-".
type Snapshot struct {
	Histogram Histogram

	FrameRate    float32
	HasFrameRate bool
	BitRate      float32
	HasBitRate   bool

	// Updated is when any value last changed. Zero before the first
	// update.
	Updated time.Time
}

// FrameRateText is the frame-rate readout.
func (s Snapshot) FrameRateText() string {
	if !s.HasFrameRate {
		return "-"
	}
	return FormatRate(s.FrameRate, UnitFrameRate)
}

// BitRateText is the bit-rate readout.
func (s Snapshot) BitRateText() string {
	if !s.HasBitRate {
		return "-"
	}
	return FormatRate(s.BitRate, UnitBitRate)
}

// Monitor keeps the latest reduced telemetry.
type Monitor struct {
	clock         clock.Clock
	notify        chan<- struct{}
	logger        *slog.Logger
	subscriptions []*channel.Subscription

	mutex    sync.Mutex
	snapshot Snapshot
}

// NewMonitor subscribes to the telemetry channels. Every update does a
// non-blocking send on notify if it is non-nil.
func NewMonitor(subscriber Subscriber, clk clock.Clock, notify chan<- struct{}, logger *slog.Logger) *Monitor {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	monitor := &Monitor{
		clock:    clk,
		notify:   notify,
		logger:   logger,
		snapshot: Snapshot{Histogram: NormalizeHistogram(nil)},
	}
	monitor.subscriptions = []*channel.Subscription{
		subscriber.Subscribe(ChannelHistogram, monitor.onHistogram),
		subscriber.Subscribe(ChannelFrameRate, monitor.onFrameRate),
		subscriber.Subscribe(ChannelBitRate, monitor.onBitRate),
	}
	return monitor
}

// Snapshot returns a copy of the latest telemetry. The histogram values
// are shared and must not be modified.
func (m *Monitor) Snapshot() Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.snapshot
}

// Close deregisters the monitor's subscriptions.
func (m *Monitor) Close() {
	for _, subscription := range m.subscriptions {
		subscription.Close()
	}
}

func (m *Monitor) onHistogram(payload []byte) {
	counts, err := codec.Decode[[]uint32](payload)
	if err != nil {
		m.malformed(ChannelHistogram, payload, err)
		return
	}
	// Normalize outside the lock; histograms can have thousands of tiles.
	histogram := NormalizeHistogram(counts)
	m.update(func(snapshot *Snapshot) { snapshot.Histogram = histogram })
}

func (m *Monitor) onFrameRate(payload []byte) {
	rate, err := codec.Decode[float32](payload)
	if err != nil {
		m.malformed(ChannelFrameRate, payload, err)
		return
	}
	m.update(func(snapshot *Snapshot) {
		snapshot.FrameRate = rate
		snapshot.HasFrameRate = true
	})
}

func (m *Monitor) onBitRate(payload []byte) {
	rate, err := codec.Decode[float32](payload)
	if err != nil {
		m.malformed(ChannelBitRate, payload, err)
		return
	}
	m.update(func(snapshot *Snapshot) {
		snapshot.BitRate = rate
		snapshot.HasBitRate = true
	})
}

func (m *Monitor) update(apply func(*Snapshot)) {
	now := m.clock.Now()
	m.mutex.Lock()
	apply(&m.snapshot)
	m.snapshot.Updated = now
	m.mutex.Unlock()

	if m.notify != nil {
		select {
		case m.notify <- struct{}{}:
		default:
		}
	}
}

func (m *Monitor) malformed(name string, payload []byte, err error) {
	m.logger.Warn("malformed telemetry payload",
		"channel", name,
		"error", err,
		"payload", codec.Diagnose(payload),
	)
}
