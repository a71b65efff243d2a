// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformed marks a header or rows packet that cannot be applied.
var ErrMalformed = errors.New("malformed frame packet")

const (
	// DefaultChannels is the channel count assumed when a header
	// leaves it zero: interleaved RGB.
	DefaultChannels = 3

	// MaxSamples bounds Width*Height*Channels of one frame.
	MaxSamples = 1 << 26
)

// Header announces a frame.
type Header struct {
	Width    uint32 `cbor:"width"`
	Height   uint32 `cbor:"height"`
	Channels uint32 `cbor:"channels,omitempty"`
}

// ChannelCount returns Channels, defaulting to DefaultChannels.
func (h Header) ChannelCount() int {
	if h.Channels == 0 {
		return DefaultChannels
	}
	return int(h.Channels)
}

// RowSamples is the number of float32 samples in one row.
func (h Header) RowSamples() int {
	return int(h.Width) * h.ChannelCount()
}

// Samples is the number of float32 samples in the frame.
func (h Header) Samples() int {
	return h.RowSamples() * int(h.Height)
}

// Validate rejects headers that cannot describe a PFM image.
func (h Header) Validate() error {
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("%w: empty frame %dx%d", ErrMalformed, h.Width, h.Height)
	}
	if channels := h.ChannelCount(); channels != 1 && channels != 3 {
		return fmt.Errorf("%w: %d channels, want 1 or 3", ErrMalformed, channels)
	}
	if uint64(h.Width)*uint64(h.Height)*uint64(h.ChannelCount()) > MaxSamples {
		return fmt.Errorf("%w: frame %dx%dx%d exceeds %d samples",
			ErrMalformed, h.Width, h.Height, h.ChannelCount(), MaxSamples)
	}
	return nil
}

// Rows carries one or more consecutive rows starting at Row (0 is the
// top row). Data holds whole rows of interleaved samples and may be
// empty on a packet that only sets Last.
type Rows struct {
	Row  uint32    `cbor:"row"`
	Data []float32 `cbor:"data"`
	Last bool      `cbor:"last,omitempty"`
}

// Snapshot is a completed frame. It is never modified after it is
// published.
type Snapshot struct {
	Header Header

	// Pixels are interleaved samples, top row first.
	Pixels []float32

	// Cycle counts completed frames, starting at 1.
	Cycle uint64

	Completed time.Time
}

// Row returns the samples of row y, top row 0.
func (s *Snapshot) Row(y int) []float32 {
	stride := s.Header.RowSamples()
	return s.Pixels[y*stride : (y+1)*stride]
}
