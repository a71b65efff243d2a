// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package channel implements the named-channel publish/subscribe layer
// between the console and the renderer.
//
// Inbound: the transport's receive goroutine calls [Registry.Dispatch]
// once per message. The registry maps each channel name to at most one
// [Subscription] and invokes its callback synchronously with the raw
// payload; the callback decodes it. Messages for names nobody
// subscribed to are dropped without error, which is normal while the
// console is starting up or shutting down.
//
// The registry lock covers only the name lookup and the in-flight
// reservation on the subscription; callback bodies run outside it.
// [Subscription.Close] deregisters and then waits for any in-flight
// invocation to return, so once Close returns the callback is never
// entered again and the state it touches may be torn down.
//
// Outbound: [Publisher.Publish] encodes a value, frames it, and pushes
// it into a byte-bounded outbox, then returns. A single writer
// goroutine ([Publisher.Run]) drains the outbox to the connection. When
// the outbox is full the oldest frames are dropped. A failed write is
// logged once and the frame discarded; nothing is retried.
package channel
