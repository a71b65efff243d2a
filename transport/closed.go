// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsExpectedClose reports whether err ends a renderer session normally.
// A renderer session ends in one of four ways:
//
//   - io.EOF: the renderer exited cleanly after a stop request.
//   - net.ErrClosed: the console closed its own side during shutdown.
//   - ECONNRESET: the renderer process was killed mid-stream.
//   - EPIPE: the console published after the renderer had gone.
//
// Anything else (a truncated frame, an oversized length) is a protocol
// error worth reporting.
func IsExpectedClose(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return true
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return true
	default:
		return false
	}
}
