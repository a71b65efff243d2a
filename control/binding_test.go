// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/remoteui/remoteui/channel"
	"github.com/remoteui/remoteui/lib/codec"
)

// published is one value handed to recordingPublisher.
type published struct {
	channel string
	value   any
}

// recordingPublisher stands in for the transport side of a binding and
// records every publish.
type recordingPublisher struct {
	mutex   sync.Mutex
	sent    []published
	failing bool
}

func (p *recordingPublisher) Publish(name string, value any) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.failing {
		return channel.ErrClosed
	}
	p.sent = append(p.sent, published{channel: name, value: value})
	return nil
}

func (p *recordingPublisher) count(name string) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	n := 0
	for _, entry := range p.sent {
		if entry.channel == name {
			n++
		}
	}
	return n
}

func (p *recordingPublisher) last() published {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.sent[len(p.sent)-1]
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func mustEncode(t *testing.T, value any) []byte {
	t.Helper()
	payload, err := codec.Marshal(value)
	if err != nil {
		t.Fatalf("Marshal(%v): %v", value, err)
	}
	return payload
}

func bindFOV(registry *channel.Registry, publisher Publisher, notify chan<- struct{}) *Slider {
	return Bind(registry, publisher, Spec[float64, float32]{
		Channel:    "fov",
		Default:    0.25,
		ToRemote:   FieldOfView,
		FromRemote: accept(FieldOfViewPosition),
	}, notify, discardLogger())
}

func TestBindPublishesDefault(t *testing.T) {
	t.Parallel()
	registry := channel.NewRegistry(discardLogger())
	publisher := &recordingPublisher{}

	binding := bindFOV(registry, publisher, nil)
	defer binding.Close()

	if got := publisher.count("fov"); got != 1 {
		t.Fatalf("publishes on construction = %d, want 1", got)
	}
	want := float32(0.25 * 2 * math.Pi)
	if got := publisher.last().value.(float32); got != want {
		t.Errorf("initial publish = %v, want %v", got, want)
	}
}

func TestSkipInitialPublish(t *testing.T) {
	t.Parallel()
	publisher := &recordingPublisher{}
	binding := Bind(channel.NewRegistry(discardLogger()), publisher, chooserSpec("device", Devices), nil, discardLogger())
	defer binding.Close()

	if got := publisher.count("device"); got != 0 {
		t.Fatalf("chooser published %d times on construction, want 0", got)
	}
	if err := binding.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := publisher.last(); got.channel != "device" || got.value != "ipu" {
		t.Errorf("last publish = %+v, want device=ipu", got)
	}
}

// TestRemoteUpdateDoesNotPublish is the loop-prevention property: an
// inbound update is applied without any outbound send.
func TestRemoteUpdateDoesNotPublish(t *testing.T) {
	t.Parallel()
	registry := channel.NewRegistry(discardLogger())
	publisher := &recordingPublisher{}
	notify := make(chan struct{}, 1)
	binding := bindFOV(registry, publisher, notify)
	defer binding.Close()

	before := publisher.count("fov")
	registry.Dispatch("fov", mustEncode(t, float32(math.Pi)))

	if got := binding.Value(); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("Value() = %v, want 0.5", got)
	}
	if got := publisher.count("fov"); got != before {
		t.Errorf("remote update caused %d publishes", got-before)
	}
	select {
	case <-notify:
	default:
		t.Error("remote update did not signal a change")
	}
}

func TestRemoteUpdateIsIdempotent(t *testing.T) {
	t.Parallel()
	registry := channel.NewRegistry(discardLogger())
	publisher := &recordingPublisher{}
	notify := make(chan struct{}, 1)
	binding := bindFOV(registry, publisher, notify)
	defer binding.Close()

	payload := mustEncode(t, float32(1))
	registry.Dispatch("fov", payload)
	<-notify
	value := binding.Value()
	version := binding.Control().Version()

	registry.Dispatch("fov", payload)
	if got := binding.Value(); got != value {
		t.Errorf("second apply changed value from %v to %v", value, got)
	}
	if got := binding.Control().Version(); got != version {
		t.Errorf("second apply bumped version %d -> %d", version, got)
	}
	select {
	case <-notify:
		t.Error("second apply signalled a change")
	default:
	}
}

func TestMalformedPayloadKeepsValue(t *testing.T) {
	t.Parallel()
	registry := channel.NewRegistry(discardLogger())
	binding := bindFOV(registry, &recordingPublisher{}, nil)
	defer binding.Close()

	registry.Dispatch("fov", []byte("not cbor at all"))
	registry.Dispatch("fov", mustEncode(t, "a string, not a float"))
	registry.Dispatch("fov", nil)

	if got := binding.Value(); got != 0.25 {
		t.Errorf("Value() = %v after malformed payloads, want 0.25", got)
	}
}

func TestRejectedRemoteValue(t *testing.T) {
	t.Parallel()
	registry := channel.NewRegistry(discardLogger())
	binding := Bind(registry, &recordingPublisher{}, chooserSpec("device", Devices), nil, discardLogger())
	defer binding.Close()

	registry.Dispatch("device", mustEncode(t, "ipu"))
	if got := binding.Value(); got != 1 {
		t.Fatalf("Value() = %d, want 1", got)
	}
	registry.Dispatch("device", mustEncode(t, "gpu"))
	if got := binding.Value(); got != 1 {
		t.Errorf("unknown device changed value to %d", got)
	}
}

// TestFOVRoundTrip: the console publishes 1.5708 rad, the renderer
// echoes it, and the echo lands on the slider without a second publish.
func TestFOVRoundTrip(t *testing.T) {
	t.Parallel()
	registry := channel.NewRegistry(discardLogger())
	publisher := &recordingPublisher{}
	binding := bindFOV(registry, publisher, nil)
	defer binding.Close()

	const radians = 1.5708
	if err := binding.Set(radians / (2 * math.Pi)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	sent := publisher.last().value.(float32)
	if math.Abs(float64(sent)-radians) > 1e-4 {
		t.Fatalf("published %v, want %v", sent, radians)
	}
	publishes := publisher.count("fov")

	registry.Dispatch("fov", mustEncode(t, float32(radians)))

	if got, want := binding.Value(), radians/(2*math.Pi); math.Abs(got-want) > 1e-6 {
		t.Errorf("slider = %v, want %v", got, want)
	}
	if got := publisher.count("fov"); got != publishes {
		t.Errorf("echo caused %d extra publishes", got-publishes)
	}
}

func TestSetReturnsPublishError(t *testing.T) {
	t.Parallel()
	publisher := &recordingPublisher{}
	binding := bindFOV(channel.NewRegistry(discardLogger()), publisher, nil)
	defer binding.Close()

	publisher.failing = true
	err := binding.Set(0.75)
	if !errors.Is(err, channel.ErrClosed) {
		t.Errorf("Set error = %v, want ErrClosed", err)
	}
	if got := binding.Value(); got != 0.75 {
		t.Errorf("Value() = %v, want 0.75 kept after failed publish", got)
	}
}

func TestPublishOnlyBindingDoesNotSubscribe(t *testing.T) {
	t.Parallel()
	registry := channel.NewRegistry(discardLogger())
	binding := Bind(registry, &recordingPublisher{}, Spec[float64, float32]{
		Channel:  "env_rotation",
		ToRemote: RotationDegrees,
	}, nil, discardLogger())
	defer binding.Close()

	if names := registry.Names(); len(names) != 0 {
		t.Errorf("registry names = %v, want none", names)
	}
}

// TestCloseDuringDispatch destroys a binding while the receive
// goroutine is dispatching to it. After Close returns the control must
// not change.
func TestCloseDuringDispatch(t *testing.T) {
	t.Parallel()
	for round := range 100 {
		registry := channel.NewRegistry(discardLogger())
		binding := bindFOV(registry, &recordingPublisher{}, nil)

		var stop atomic.Bool
		var group sync.WaitGroup
		group.Add(1)
		go func() {
			defer group.Done()
			value := float32(0)
			for !stop.Load() {
				value += 0.01
				payload, _ := codec.Marshal(value)
				registry.Dispatch("fov", payload)
			}
		}()

		binding.Close()
		version := binding.Control().Version()
		for range 50 {
			payload, _ := codec.Marshal(float32(3))
			registry.Dispatch("fov", payload)
		}
		stop.Store(true)
		group.Wait()

		if got := binding.Control().Version(); got != version {
			t.Fatalf("round %d: control changed after Close (version %d -> %d)", round, version, got)
		}
	}
}
