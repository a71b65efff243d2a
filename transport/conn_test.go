// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/remoteui/remoteui/lib/testutil"
)

func TestConnSendReceiveOverPipe(t *testing.T) {
	t.Parallel()
	local, remote := net.Pipe()
	sender := NewConn(local)
	receiver := NewConn(remote)
	defer sender.Close()
	defer receiver.Close()

	received := make(chan Message, 8)
	done := make(chan error, 1)
	go func() {
		done <- receiver.Receive(context.Background(), HandlerFunc(func(channel string, payload []byte) {
			received <- Message{Channel: channel, Payload: append([]byte(nil), payload...)}
		}))
	}()

	if err := sender.Send("fov", []byte{1}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := sender.Send("gamma", []byte{2}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	first := testutil.RequireReceive(t, received, 5*time.Second, "first message")
	second := testutil.RequireReceive(t, received, 5*time.Second, "second message")
	if first.Channel != "fov" || second.Channel != "gamma" {
		t.Errorf("got %s then %s, want fov then gamma", first.Channel, second.Channel)
	}

	sender.Close()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "receive loop exit"); err != nil {
		t.Errorf("Receive after peer close = %v, want nil", err)
	}
}

func TestConnConcurrentSendersDoNotInterleave(t *testing.T) {
	t.Parallel()
	local, remote := net.Pipe()
	sender := NewConn(local)
	receiver := NewConn(remote)
	defer sender.Close()
	defer receiver.Close()

	const perSender = 50
	channels := []string{"exposure", "gamma", "lambda1", "lambda2"}
	counts := make(chan string, perSender*len(channels))
	go receiver.Receive(context.Background(), HandlerFunc(func(channel string, payload []byte) {
		if len(payload) != 64 {
			t.Errorf("%s payload length %d, want 64", channel, len(payload))
		}
		counts <- channel
	}))

	var group sync.WaitGroup
	for _, channel := range channels {
		group.Add(1)
		go func() {
			defer group.Done()
			payload := make([]byte, 64)
			for range perSender {
				if err := sender.Send(channel, payload); err != nil {
					t.Errorf("Send(%s): %v", channel, err)
					return
				}
			}
		}()
	}
	group.Wait()

	seen := make(map[string]int)
	for range perSender * len(channels) {
		seen[testutil.RequireReceive(t, counts, 5*time.Second, "frame")]++
	}
	for _, channel := range channels {
		if seen[channel] != perSender {
			t.Errorf("%s: received %d frames, want %d", channel, seen[channel], perSender)
		}
	}
}

func TestReceiveReturnsOnCancel(t *testing.T) {
	t.Parallel()
	local, remote := net.Pipe()
	defer local.Close()
	receiver := NewConn(remote)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- receiver.Receive(ctx, HandlerFunc(func(string, []byte) {}))
	}()
	cancel()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "receive loop exit"); err != nil {
		t.Errorf("Receive after cancel = %v, want nil", err)
	}
}

func TestReceiveReportsFramingError(t *testing.T) {
	t.Parallel()
	local, remote := net.Pipe()
	receiver := NewConn(remote)
	defer receiver.Close()

	done := make(chan error, 1)
	go func() {
		done <- receiver.Receive(context.Background(), HandlerFunc(func(string, []byte) {}))
	}()
	// Name length 0x0100 exceeds MaxNameLength.
	go func() {
		local.Write([]byte{0x01, 0x00})
	}()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "receive loop exit"); err == nil {
		t.Error("Receive accepted an oversized channel name")
	}
	local.Close()
}

func TestDialListen(t *testing.T) {
	t.Parallel()
	listener, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer listener.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	accepted := make(chan *Conn, 1)
	go func() {
		conn, err := listener.Accept(ctx)
		if err != nil {
			t.Errorf("Accept: %v", err)
			close(accepted)
			return
		}
		accepted <- conn
	}()

	client, err := Dial(ctx, listener.Address(), time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	server := testutil.RequireReceive(t, accepted, 5*time.Second, "accepted connection")
	defer server.Close()

	received := make(chan string, 1)
	go server.Receive(ctx, HandlerFunc(func(channel string, _ []byte) { received <- channel }))
	if err := client.Send("stop", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := testutil.RequireReceive(t, received, 5*time.Second, "stop message"); got != "stop" {
		t.Errorf("channel = %q, want stop", got)
	}
}

func TestDialRefused(t *testing.T) {
	t.Parallel()
	listener, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	address := listener.Address()
	listener.Close()

	if _, err := Dial(context.Background(), address, time.Second); err == nil {
		t.Fatal("Dial to a closed port succeeded")
	}
}

func TestAcceptCancelled(t *testing.T) {
	t.Parallel()
	listener, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := listener.Accept(ctx); err == nil {
		t.Fatal("Accept with a cancelled context returned a connection")
	}
}
