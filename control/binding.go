// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"log/slog"

	"github.com/remoteui/remoteui/channel"
	"github.com/remoteui/remoteui/lib/codec"
)

// Publisher queues a value for a channel. *channel.Publisher
// implements it.
type Publisher interface {
	Publish(name string, value any) error
}

// Subscriber binds callbacks to channel names. *channel.Registry
// implements it.
type Subscriber interface {
	Subscribe(name string, callback channel.Callback) *channel.Subscription
}

// Spec describes one binding. V is the widget's value type, D the
// value type carried on the channel.
type Spec[V comparable, D any] struct {
	Channel string
	Default V

	// ToRemote converts a widget value to the channel value.
	ToRemote func(V) D

	// FromRemote converts a channel value to a widget value. ok=false
	// rejects the update (e.g. a device name not in the chooser). Nil
	// makes the binding publish-only: it never subscribes.
	FromRemote func(D) (V, bool)

	// SkipInitialPublish suppresses the publish of Default on
	// construction. Buttons and choosers publish only when used.
	SkipInitialPublish bool
}

// Binding pairs a Control with a channel.
type Binding[V comparable, D any] struct {
	spec         Spec[V, D]
	control      *Control[V]
	publisher    Publisher
	subscription *channel.Subscription
	logger       *slog.Logger
}

// Bind creates a binding, stores the default, subscribes (unless
// publish-only) and publishes the default (unless suppressed). A failed
// initial publish is logged; the binding is usable regardless.
func Bind[V comparable, D any](subscriber Subscriber, publisher Publisher, spec Spec[V, D], notify chan<- struct{}, logger *slog.Logger) *Binding[V, D] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	binding := &Binding[V, D]{
		spec:      spec,
		control:   NewControl(spec.Default, notify),
		publisher: publisher,
		logger:    logger.With("channel", spec.Channel),
	}
	if spec.FromRemote != nil {
		binding.subscription = subscriber.Subscribe(spec.Channel, binding.dispatch)
	}
	if !spec.SkipInitialPublish {
		binding.publish(spec.Default)
	}
	return binding
}

// Channel returns the bound channel name.
func (b *Binding[V, D]) Channel() string { return b.spec.Channel }

// Value returns the displayed value.
func (b *Binding[V, D]) Value() V { return b.control.Value() }

// RemoteValue returns the displayed value converted to the channel
// domain, for display next to the widget.
func (b *Binding[V, D]) RemoteValue() D { return b.spec.ToRemote(b.control.Value()) }

// Control returns the underlying control.
func (b *Binding[V, D]) Control() *Control[V] { return b.control }

// Set is the local edit path: store value and publish it. Publishing
// happens even if the value is unchanged, since the user acted. A
// publish error is logged and returned; the local value is kept.
func (b *Binding[V, D]) Set(value V) error {
	b.control.Store(value)
	return b.publish(value)
}

// ApplyRemote is the remote update path. It stores the converted value
// and never publishes. Returns whether the displayed value changed.
func (b *Binding[V, D]) ApplyRemote(remote D) bool {
	value, ok := b.spec.FromRemote(remote)
	if !ok {
		b.logger.Warn("rejected remote value", "value", remote)
		return false
	}
	return b.control.Store(value)
}

// Close deregisters the binding's subscription. After Close returns no
// remote update reaches the control.
func (b *Binding[V, D]) Close() {
	if b.subscription != nil {
		b.subscription.Close()
	}
}

func (b *Binding[V, D]) publish(value V) error {
	remote := b.spec.ToRemote(value)
	if err := b.publisher.Publish(b.spec.Channel, remote); err != nil {
		b.logger.Warn("publish failed", "value", remote, "error", err)
		return err
	}
	return nil
}

// dispatch runs on the receive goroutine. A payload that does not
// decode leaves the control untouched.
func (b *Binding[V, D]) dispatch(payload []byte) {
	remote, err := codec.Decode[D](payload)
	if err != nil {
		b.logger.Warn("malformed payload", "error", err, "payload", codec.Diagnose(payload))
		return
	}
	if b.ApplyRemote(remote) {
		b.logger.Debug("applied remote value", "value", remote)
	}
}
