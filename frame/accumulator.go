// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/remoteui/remoteui/channel"
	"github.com/remoteui/remoteui/lib/clock"
	"github.com/remoteui/remoteui/lib/codec"
)

// Channel names the accumulator subscribes to.
const (
	ChannelHeader = "hdr_header"
	ChannelRows   = "hdr_rows"
)

// State is the accumulator's position in the frame cycle.
type State int

const (
	Idle State = iota
	Receiving
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Receiving:
		return "receiving"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Subscriber binds callbacks to channel names. *channel.Registry
// implements it.
type Subscriber interface {
	Subscribe(name string, callback channel.Callback) *channel.Subscription
}

// Config configures an Accumulator.
type Config struct {
	Clock clock.Clock

	// Notify, if non-nil, receives a non-blocking signal on every
	// state change.
	Notify chan<- struct{}

	// OnComplete, if non-nil, is called on the receive goroutine with
	// each published snapshot. It must not block.
	OnComplete func(*Snapshot)

	Logger *slog.Logger
}

// Accumulator assembles frames from header and rows packets.
type Accumulator struct {
	clock      clock.Clock
	notify     chan<- struct{}
	onComplete func(*Snapshot)
	logger     *slog.Logger

	// mutex guards the receive state below. Held only while copying
	// rows in; never held by export.
	mutex    sync.Mutex
	state    State
	header   Header
	back     []float32
	cycles   uint64
	received int

	latest atomic.Pointer[Snapshot]

	subscriptions []*channel.Subscription
}

// NewAccumulator creates an accumulator in state Idle. If subscriber is
// non-nil it subscribes to the frame channels.
func NewAccumulator(subscriber Subscriber, config Config) *Accumulator {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	accumulator := &Accumulator{
		clock:      config.Clock,
		notify:     config.Notify,
		onComplete: config.OnComplete,
		logger:     config.Logger,
	}
	if subscriber != nil {
		accumulator.subscriptions = []*channel.Subscription{
			subscriber.Subscribe(ChannelHeader, accumulator.dispatchHeader),
			subscriber.Subscribe(ChannelRows, accumulator.dispatchRows),
		}
	}
	return accumulator
}

// State returns the current state.
func (a *Accumulator) State() State {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.state
}

// Progress returns rows received for the frame in progress and its
// height. Both are zero when no frame is in progress.
func (a *Accumulator) Progress() (received, height int) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.state != Receiving {
		return 0, 0
	}
	return a.received, int(a.header.Height)
}

// Latest returns the most recently completed frame, or nil before the
// first completion.
func (a *Accumulator) Latest() *Snapshot {
	return a.latest.Load()
}

// Close deregisters the accumulator's subscriptions.
func (a *Accumulator) Close() {
	for _, subscription := range a.subscriptions {
		subscription.Close()
	}
}

// ApplyHeader starts a new frame. A frame in progress is abandoned.
func (a *Accumulator) ApplyHeader(header Header) error {
	if err := header.Validate(); err != nil {
		return err
	}
	a.mutex.Lock()
	abandoned := a.state == Receiving
	a.state = Receiving
	a.header = header
	a.back = make([]float32, header.Samples())
	a.received = 0
	a.mutex.Unlock()

	if abandoned {
		a.logger.Warn("frame abandoned by new header",
			"width", header.Width, "height", header.Height)
	}
	a.signal()
	return nil
}

// ApplyRows copies rows into the frame in progress. A packet with Last
// set completes the frame and publishes it.
func (a *Accumulator) ApplyRows(rows Rows) error {
	a.mutex.Lock()
	if a.state != Receiving {
		state := a.state
		a.mutex.Unlock()
		return fmt.Errorf("%w: rows while %s", ErrMalformed, state)
	}
	stride := a.header.RowSamples()
	if len(rows.Data)%stride != 0 {
		a.mutex.Unlock()
		return fmt.Errorf("%w: %d samples is not a whole number of %d-sample rows",
			ErrMalformed, len(rows.Data), stride)
	}
	count := len(rows.Data) / stride
	if uint64(rows.Row)+uint64(count) > uint64(a.header.Height) {
		a.mutex.Unlock()
		return fmt.Errorf("%w: rows %d..%d outside frame height %d",
			ErrMalformed, rows.Row, int(rows.Row)+count, a.header.Height)
	}
	copy(a.back[int(rows.Row)*stride:], rows.Data)
	a.received += count

	if !rows.Last {
		a.mutex.Unlock()
		return nil
	}

	missing := int(a.header.Height) - a.received
	a.cycles++
	snapshot := &Snapshot{
		Header:    a.header,
		Pixels:    a.back,
		Cycle:     a.cycles,
		Completed: a.clock.Now(),
	}
	a.back = nil
	a.state = Complete
	a.latest.Store(snapshot)
	a.mutex.Unlock()

	if missing > 0 {
		a.logger.Warn("frame completed with missing rows",
			"cycle", snapshot.Cycle, "missing", missing)
	}
	a.logger.Debug("frame complete",
		"cycle", snapshot.Cycle,
		"width", snapshot.Header.Width,
		"height", snapshot.Header.Height,
	)
	if a.onComplete != nil {
		a.onComplete(snapshot)
	}
	a.signal()
	return nil
}

func (a *Accumulator) signal() {
	if a.notify == nil {
		return
	}
	select {
	case a.notify <- struct{}{}:
	default:
	}
}

func (a *Accumulator) dispatchHeader(payload []byte) {
	header, err := codec.Decode[Header](payload)
	if err != nil {
		a.logger.Warn("malformed frame header", "error", err, "payload", codec.Diagnose(payload))
		return
	}
	if err := a.ApplyHeader(header); err != nil {
		a.logger.Warn("frame header rejected", "error", err)
	}
}

func (a *Accumulator) dispatchRows(payload []byte) {
	rows, err := codec.Decode[Rows](payload)
	if err != nil {
		a.logger.Warn("malformed frame rows", "error", err)
		return
	}
	if err := a.ApplyRows(rows); err != nil {
		a.logger.Warn("frame rows rejected", "error", err)
	}
}
