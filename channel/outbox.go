// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package channel

import (
	"fmt"
	"sync"

	"github.com/eapache/queue"
)

// Outbox is a byte-bounded FIFO of encoded frames waiting for the
// writer goroutine. When a Push would exceed the byte limit, the oldest
// frames are dropped until the new one fits: a stale control value is
// worth less than the latest one.
//
// The notify channel (capacity 1) wakes the writer when a frame is
// pushed. Safe for concurrent use.
type Outbox struct {
	mutex     sync.Mutex
	frames    *queue.Queue
	totalSize int
	maxSize   int
	dropped   uint64
	notify    chan struct{}
}

// NewOutbox creates an Outbox holding at most maxSize bytes of frames.
func NewOutbox(maxSize int) *Outbox {
	if maxSize <= 0 {
		panic(fmt.Sprintf("outbox: maxSize must be positive, got %d", maxSize))
	}
	return &Outbox{
		frames:  queue.New(),
		maxSize: maxSize,
		notify:  make(chan struct{}, 1),
	}
}

// Push appends a frame, evicting the oldest frames if needed. A frame
// larger than the whole outbox is refused.
func (o *Outbox) Push(frame []byte) error {
	size := len(frame)
	if size > o.maxSize {
		return fmt.Errorf("outbox: frame of %d bytes exceeds outbox size %d", size, o.maxSize)
	}
	if size == 0 {
		return fmt.Errorf("outbox: refusing to push empty frame")
	}

	o.mutex.Lock()
	for o.totalSize+size > o.maxSize && o.frames.Length() > 0 {
		evicted := o.frames.Remove().([]byte)
		o.totalSize -= len(evicted)
		o.dropped++
	}
	o.frames.Add(frame)
	o.totalSize += size
	o.mutex.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pop removes and returns the oldest frame, or nil if the outbox is
// empty.
func (o *Outbox) Pop() []byte {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.frames.Length() == 0 {
		return nil
	}
	frame := o.frames.Remove().([]byte)
	o.totalSize -= len(frame)
	return frame
}

// Len returns the number of queued frames.
func (o *Outbox) Len() int {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.frames.Length()
}

// SizeBytes returns the total size of queued frames.
func (o *Outbox) SizeBytes() int {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.totalSize
}

// Dropped returns how many frames have been evicted by overflow.
func (o *Outbox) Dropped() uint64 {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.dropped
}

// Notify returns the wake-up channel for the writer.
func (o *Outbox) Notify() <-chan struct{} {
	return o.notify
}
