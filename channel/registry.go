// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package channel

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Callback handles one dispatched payload. The payload is shared with
// the transport and must not be retained or modified after the
// callback returns.
type Callback func(payload []byte)

// Registry routes inbound messages to subscriptions by channel name.
// Safe for concurrent use: Dispatch runs on the receive goroutine while
// Subscribe and Close run on the interactive one.
type Registry struct {
	mutex         sync.RWMutex
	subscriptions map[string]*Subscription
	logger        *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger discards.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		subscriptions: make(map[string]*Subscription),
		logger:        logger,
	}
}

// Subscribe binds callback to name and returns the subscription handle.
// If name already has a subscription, it is detached: its callback is
// not invoked for any dispatch that starts after Subscribe returns, and
// its owner's Close no longer affects the new binding.
func (r *Registry) Subscribe(name string, callback Callback) *Subscription {
	subscription := &Subscription{
		name:     name,
		callback: callback,
		registry: r,
	}

	r.mutex.Lock()
	previous := r.subscriptions[name]
	r.subscriptions[name] = subscription
	r.mutex.Unlock()

	if previous != nil {
		previous.detach()
		r.logger.Debug("subscription replaced", "channel", name)
	}
	return subscription
}

// Unsubscribe is equivalent to subscription.Close.
func (r *Registry) Unsubscribe(subscription *Subscription) {
	subscription.Close()
}

// Dispatch invokes the callback subscribed to name, if any. It
// implements transport.Handler and runs on the receive goroutine.
func (r *Registry) Dispatch(name string, payload []byte) {
	r.mutex.RLock()
	subscription := r.subscriptions[name]
	entered := subscription != nil && subscription.enter()
	r.mutex.RUnlock()

	if !entered {
		r.logger.Log(context.Background(), levelTrace, "dropping message for unsubscribed channel",
			"channel", name, "bytes", len(payload))
		return
	}
	defer subscription.leave()
	subscription.callback(payload)
}

// Names returns the subscribed channel names, sorted.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.subscriptions))
	for name := range r.subscriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// remove deletes subscription if it is still the one bound to its name.
func (r *Registry) remove(subscription *Subscription) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.subscriptions[subscription.name] == subscription {
		delete(r.subscriptions, subscription.name)
	}
}

// levelTrace matches config.LevelTrace without importing lib/config.
const levelTrace = slog.LevelDebug - 4
