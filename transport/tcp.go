// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Dial connects to the renderer at address ("host:port"). A positive
// timeout bounds the connection attempt in addition to ctx.
func Dial(ctx context.Context, address string, timeout time.Duration) (*Conn, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", address, err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		// Control frames are tiny; do not hold them back for coalescing.
		tcp.SetNoDelay(true)
	}
	return NewConn(conn), nil
}

// Listener accepts renderer-side connections.
type Listener struct {
	listener net.Listener
}

// Listen opens a TCP listener on address (e.g. ":3000", or
// "127.0.0.1:0" for a random port in tests).
func Listen(address string) (*Listener, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return &Listener{listener: listener}, nil
}

// Accept waits for the next connection. Cancelling ctx closes the
// listener.
func (l *Listener) Accept(ctx context.Context) (*Conn, error) {
	stop := context.AfterFunc(ctx, func() { l.listener.Close() })
	defer stop()

	conn, err := l.listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return NewConn(conn), nil
}

// Address returns the listening address in "host:port" form.
func (l *Listener) Address() string {
	return l.listener.Addr().String()
}

// Close stops listening.
func (l *Listener) Close() error {
	return l.listener.Close()
}
