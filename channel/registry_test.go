// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package channel

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/remoteui/remoteui/lib/testutil"
)

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.DiscardHandler))
}

func TestDispatchInvokesSubscriber(t *testing.T) {
	t.Parallel()
	registry := newTestRegistry()

	var got []byte
	subscription := registry.Subscribe("fov", func(payload []byte) {
		got = append([]byte(nil), payload...)
	})
	defer subscription.Close()

	registry.Dispatch("fov", []byte{1, 2, 3})
	if string(got) != "\x01\x02\x03" {
		t.Errorf("callback received %v, want [1 2 3]", got)
	}
	if subscription.Name() != "fov" {
		t.Errorf("Name() = %q", subscription.Name())
	}
}

func TestDispatchUnknownChannelIsDropped(t *testing.T) {
	t.Parallel()
	registry := newTestRegistry()
	called := false
	subscription := registry.Subscribe("fov", func([]byte) { called = true })
	defer subscription.Close()

	registry.Dispatch("exposure", []byte{1})
	if called {
		t.Error("fov callback invoked for an exposure message")
	}
}

func TestResubscribeReplacesCallback(t *testing.T) {
	t.Parallel()
	registry := newTestRegistry()

	var first, second int
	old := registry.Subscribe("device", func([]byte) { first++ })
	replacement := registry.Subscribe("device", func([]byte) { second++ })
	defer replacement.Close()

	registry.Dispatch("device", nil)
	if first != 0 || second != 1 {
		t.Fatalf("after replace: first=%d second=%d, want 0 and 1", first, second)
	}

	// Closing the replaced handle must not remove the new binding.
	old.Close()
	registry.Dispatch("device", nil)
	if second != 2 {
		t.Errorf("closing the old handle removed the new binding (second=%d)", second)
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "device" {
		t.Errorf("Names() = %v, want [device]", names)
	}
}

func TestCloseStopsDispatch(t *testing.T) {
	t.Parallel()
	registry := newTestRegistry()
	calls := 0
	subscription := registry.Subscribe("gamma", func([]byte) { calls++ })
	registry.Unsubscribe(subscription)
	subscription.Close()

	registry.Dispatch("gamma", nil)
	if calls != 0 {
		t.Errorf("callback invoked %d times after Close", calls)
	}
	if len(registry.Names()) != 0 {
		t.Errorf("Names() = %v after Close, want empty", registry.Names())
	}
}

func TestCloseWaitsForInFlightCallback(t *testing.T) {
	t.Parallel()
	registry := newTestRegistry()

	entered := make(chan struct{})
	release := make(chan struct{})
	subscription := registry.Subscribe("tile_histogram", func([]byte) {
		close(entered)
		<-release
	})

	go registry.Dispatch("tile_histogram", nil)
	testutil.RequireClosed(t, entered, 5*time.Second, "callback entered")

	closed := make(chan struct{})
	go func() {
		subscription.Close()
		close(closed)
	}()

	testutil.RequireNoReceive(t, closed, 50*time.Millisecond, "Close returned while the callback was running")
	close(release)
	testutil.RequireClosed(t, closed, 5*time.Second, "Close after callback returned")
}

// TestConcurrentCloseAndDispatch hammers one channel from a receive
// goroutine while the owner closes the subscription. Once Close has
// returned, the owner's state is marked torn down; any invocation after
// that point is a use-after-release.
func TestConcurrentCloseAndDispatch(t *testing.T) {
	t.Parallel()
	for round := range 200 {
		registry := newTestRegistry()

		var released atomic.Bool
		var lateCalls atomic.Int64
		subscription := registry.Subscribe("fov", func([]byte) {
			if released.Load() {
				lateCalls.Add(1)
			}
		})

		var group sync.WaitGroup
		stop := make(chan struct{})
		group.Add(1)
		go func() {
			defer group.Done()
			for {
				select {
				case <-stop:
					return
				default:
					registry.Dispatch("fov", []byte{byte(round)})
				}
			}
		}()

		subscription.Close()
		released.Store(true)
		// Keep dispatching for a moment after release.
		for range 100 {
			registry.Dispatch("fov", nil)
		}
		close(stop)
		group.Wait()

		if n := lateCalls.Load(); n != 0 {
			t.Fatalf("round %d: callback invoked %d times after Close returned", round, n)
		}
	}
}
