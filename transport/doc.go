// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport carries named-channel messages between the console
// and the renderer over a single ordered byte stream.
//
// Every message is one frame:
//
//	[2 bytes name length, big-endian] [name] [4 bytes payload length, big-endian] [payload]
//
// The name routes the message to a channel subscriber; the payload is an
// opaque codec-encoded value. Frames arrive in the order they were sent,
// so messages on one channel are delivered FIFO. Nothing is ordered
// across channels beyond that.
//
// [Conn] wraps a net.Conn. Send writes a whole frame under a write lock,
// so concurrent senders never interleave bytes. Receive runs the read
// loop on the calling goroutine (the console's receive context) and
// hands each complete message to a [Handler] before reading the next.
//
// [Dial] opens the console's connection; [Listen] is used by the mock
// renderer and by tests.
package transport
