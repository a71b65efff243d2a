// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the payload codec shared by the console and the
// renderer. Every value published on a named channel is a single CBOR
// data item; the channel name travels separately in the transport frame
// (see package transport), so a payload carries no type tag of its own.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): the same
// value always produces identical bytes. This matters for the control
// path: applying a remote update compares decoded values, and tests
// compare encoded payloads byte for byte.
//
// For one-off values:
//
//	payload, err := codec.Marshal(float32(1.5708))
//	angle, err := codec.Decode[float32](payload)
//
// Struct payloads (frame headers, row packets) use `cbor` struct tags.
package codec
