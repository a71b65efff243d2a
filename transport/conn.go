// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"
)

// Handler receives inbound messages. Dispatch is called on the
// receive goroutine, once per message, in arrival order. The payload
// is only valid until Dispatch returns.
type Handler interface {
	Dispatch(channel string, payload []byte)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(channel string, payload []byte)

// Dispatch calls f.
func (f HandlerFunc) Dispatch(channel string, payload []byte) { f(channel, payload) }

// Conn is a duplex named-channel connection.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader

	// WriteTimeout, when positive, bounds each Send so a renderer that
	// stops reading surfaces as an error instead of a stuck writer.
	WriteTimeout time.Duration

	writeMutex sync.Mutex
	closeOnce  sync.Once
	closeErr   error
}

// NewConn wraps an established connection.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, 64*1024),
	}
}

// Send writes one message. Safe for concurrent use; frames are never
// interleaved.
func (c *Conn) Send(channel string, payload []byte) error {
	return c.SendFrame(Message{Channel: channel, Payload: payload})
}

// SendFrame writes one message. See Send.
func (c *Conn) SendFrame(message Message) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	if c.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout)); err != nil {
			return err
		}
	}
	return WriteMessage(c.conn, message)
}

// WriteEncoded writes a frame already encoded with AppendFrame.
func (c *Conn) WriteEncoded(frame []byte) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	if c.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout)); err != nil {
			return err
		}
	}
	_, err := c.conn.Write(frame)
	return err
}

// Receive reads messages and dispatches them to handler until the
// stream ends, ctx is cancelled, or a framing error occurs. An expected
// close (see IsExpectedClose) and a cancellation both return nil. Cancelling ctx closes
// the connection to unblock the read.
func (c *Conn) Receive(ctx context.Context, handler Handler) error {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	for {
		message, err := ReadMessage(c.reader)
		if err != nil {
			if ctx.Err() != nil || IsExpectedClose(err) {
				return nil
			}
			return err
		}
		handler.Dispatch(message.Channel, message.Payload)
	}
}

// RemoteAddress returns the peer address.
func (c *Conn) RemoteAddress() string {
	return c.conn.RemoteAddr().String()
}

// Close closes the underlying connection. Safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
