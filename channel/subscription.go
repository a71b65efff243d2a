// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package channel

import "sync"

// Subscription is the handle for one callback bound to one channel
// name. It is owned by whoever called Subscribe; closing it is the
// owner's last act before releasing the state the callback touches.
type Subscription struct {
	name     string
	callback Callback
	registry *Registry

	mutex    sync.Mutex
	closed   bool
	inFlight sync.WaitGroup
}

// Name returns the channel name.
func (s *Subscription) Name() string { return s.name }

// Close deregisters the subscription and blocks until any invocation of
// its callback that is already running has returned. After Close
// returns the callback is never invoked again. Close is idempotent.
//
// Close must not be called from inside the subscription's own callback:
// it would wait for itself.
func (s *Subscription) Close() {
	s.registry.remove(s)
	s.detach()
	s.inFlight.Wait()
}

// enter reserves an invocation. It fails once the subscription has been
// detached, so no Add can race with the Wait in Close.
func (s *Subscription) enter() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return false
	}
	s.inFlight.Add(1)
	return true
}

func (s *Subscription) leave() {
	s.inFlight.Done()
}

// detach stops new invocations without waiting for running ones.
func (s *Subscription) detach() {
	s.mutex.Lock()
	s.closed = true
	s.mutex.Unlock()
}
