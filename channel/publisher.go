// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/remoteui/remoteui/lib/codec"
	"github.com/remoteui/remoteui/transport"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("publisher closed")

// FrameWriter writes one encoded frame to the renderer.
// *transport.Conn implements it.
type FrameWriter interface {
	WriteEncoded(frame []byte) error
}

// Publisher sends named values to the renderer without waiting for the
// network. Publish is safe to call from any goroutine.
type Publisher struct {
	outbox *Outbox
	writer FrameWriter
	logger *slog.Logger

	closed atomic.Bool
	sent   atomic.Uint64
	failed atomic.Uint64
}

// PublisherStats is a point-in-time view of the publisher's counters.
type PublisherStats struct {
	Queued  int
	Sent    uint64
	Dropped uint64
	Failed  uint64
}

// NewPublisher creates a publisher whose outbox holds at most
// outboxBytes of encoded frames. Call Run to start writing.
func NewPublisher(writer FrameWriter, outboxBytes int, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{
		outbox: NewOutbox(outboxBytes),
		writer: writer,
		logger: logger,
	}
}

// Publish encodes value and queues it for channel name. It returns once
// the frame is queued; it never waits for the network. Errors are
// encoding failures, oversized frames, and ErrClosed.
func (p *Publisher) Publish(name string, value any) error {
	if p.closed.Load() {
		return ErrClosed
	}
	payload, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	frame, err := transport.AppendFrame(nil, transport.Message{Channel: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	if err := p.outbox.Push(frame); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	p.logger.Log(context.Background(), levelTrace, "queued publish", "channel", name, "bytes", len(payload))
	return nil
}

// Run drains the outbox to the writer until ctx is cancelled, then
// makes one final pass so values published just before shutdown (the
// stop request in particular) still go out. A failed write is logged
// and the frame discarded.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-p.outbox.Notify():
			p.drain()
		case <-ctx.Done():
			p.drain()
			return
		}
	}
}

func (p *Publisher) drain() {
	for {
		frame := p.outbox.Pop()
		if frame == nil {
			return
		}
		if err := p.writer.WriteEncoded(frame); err != nil {
			p.failed.Add(1)
			p.logger.Warn("publish failed", "channel", frameChannel(frame), "error", err)
			continue
		}
		p.sent.Add(1)
	}
}

// Close makes subsequent Publish calls fail with ErrClosed. Frames
// already queued are still written by Run.
func (p *Publisher) Close() {
	p.closed.Store(true)
}

// Stats returns the current counters.
func (p *Publisher) Stats() PublisherStats {
	return PublisherStats{
		Queued:  p.outbox.Len(),
		Sent:    p.sent.Load(),
		Dropped: p.outbox.Dropped(),
		Failed:  p.failed.Load(),
	}
}

// frameChannel extracts the channel name from an encoded frame for
// logging.
func frameChannel(frame []byte) string {
	if len(frame) < 2 {
		return ""
	}
	length := int(frame[0])<<8 | int(frame[1])
	if len(frame) < 2+length {
		return ""
	}
	return string(frame[2 : 2+length])
}
