// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package control

import "sync"

// Control is the authoritative displayed value of one widget. It is
// written from both the interactive goroutine (user edits) and the
// receive goroutine (remote updates), and read by the renderer of the
// UI; the mutex covers only the read or the store.
type Control[V comparable] struct {
	mutex   sync.Mutex
	value   V
	version uint64
	notify  chan<- struct{}
}

// NewControl creates a control holding initial. If notify is non-nil,
// every effective change does a non-blocking send on it so the
// interactive loop can redraw; the channel should have capacity 1.
func NewControl[V comparable](initial V, notify chan<- struct{}) *Control[V] {
	return &Control[V]{value: initial, notify: notify}
}

// Value returns the current value.
func (c *Control[V]) Value() V {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.value
}

// Version returns a counter incremented on every effective change.
func (c *Control[V]) Version() uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.version
}

// Store sets the value. It reports whether the value changed; storing
// the current value is a no-op.
func (c *Control[V]) Store(value V) bool {
	c.mutex.Lock()
	if c.value == value {
		c.mutex.Unlock()
		return false
	}
	c.value = value
	c.version++
	c.mutex.Unlock()

	if c.notify != nil {
		select {
		case c.notify <- struct{}{}:
		default:
		}
	}
	return true
}
