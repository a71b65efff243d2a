// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// nameLengthSize and payloadLengthSize are the widths of the two
	// length prefixes in a frame.
	nameLengthSize    = 2
	payloadLengthSize = 4

	// MaxNameLength bounds channel names.
	MaxNameLength = 255

	// MaxPayloadLength bounds a single payload. A 1280x720 RGB float
	// frame sent as one row packet is about 11 MB of CBOR.
	MaxPayloadLength = 64 * 1024 * 1024
)

// ErrFrameTooLarge is returned when a frame's name or payload exceeds
// the protocol limits, on either the write or the read side.
var ErrFrameTooLarge = errors.New("frame exceeds protocol limits")

// Message is one named-channel message.
type Message struct {
	Channel string
	Payload []byte
}

// AppendFrame appends the wire encoding of message to dst.
func AppendFrame(dst []byte, message Message) ([]byte, error) {
	if message.Channel == "" {
		return dst, fmt.Errorf("encode frame: empty channel name")
	}
	if len(message.Channel) > MaxNameLength {
		return dst, fmt.Errorf("encode frame: channel name of %d bytes: %w", len(message.Channel), ErrFrameTooLarge)
	}
	if len(message.Payload) > MaxPayloadLength {
		return dst, fmt.Errorf("encode frame %q: payload of %d bytes: %w", message.Channel, len(message.Payload), ErrFrameTooLarge)
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(message.Channel)))
	dst = append(dst, message.Channel...)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(message.Payload)))
	dst = append(dst, message.Payload...)
	return dst, nil
}

// WriteMessage writes one framed message to w with a single Write call.
func WriteMessage(w io.Writer, message Message) error {
	frame, err := AppendFrame(make([]byte, 0, FrameSize(message)), message)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame %q: %w", message.Channel, err)
	}
	return nil
}

// FrameSize returns the encoded size of message.
func FrameSize(message Message) int {
	return nameLengthSize + len(message.Channel) + payloadLengthSize + len(message.Payload)
}

// ReadMessage reads one framed message from r. A clean end of stream
// before the first byte of a frame returns io.EOF unwrapped; a stream
// that ends mid-frame returns io.ErrUnexpectedEOF.
func ReadMessage(r io.Reader) (Message, error) {
	var nameLength [nameLengthSize]byte
	if _, err := io.ReadFull(r, nameLength[:]); err != nil {
		if err == io.EOF {
			return Message{}, io.EOF
		}
		return Message{}, fmt.Errorf("read frame name length: %w", err)
	}
	length := binary.BigEndian.Uint16(nameLength[:])
	if length == 0 {
		return Message{}, fmt.Errorf("read frame: empty channel name")
	}
	if length > MaxNameLength {
		return Message{}, fmt.Errorf("read frame: channel name of %d bytes: %w", length, ErrFrameTooLarge)
	}
	name := make([]byte, length)
	if _, err := io.ReadFull(r, name); err != nil {
		return Message{}, fmt.Errorf("read frame name: %w", noEOF(err))
	}

	var payloadLength [payloadLengthSize]byte
	if _, err := io.ReadFull(r, payloadLength[:]); err != nil {
		return Message{}, fmt.Errorf("read frame %q payload length: %w", name, noEOF(err))
	}
	size := binary.BigEndian.Uint32(payloadLength[:])
	if size > MaxPayloadLength {
		return Message{}, fmt.Errorf("read frame %q: payload of %d bytes: %w", name, size, ErrFrameTooLarge)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Message{}, fmt.Errorf("read frame %q payload: %w", name, noEOF(err))
	}
	return Message{Channel: string(name), Payload: payload}, nil
}

// noEOF turns a bare io.EOF inside a frame into io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
