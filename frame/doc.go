// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package frame assembles HDR frames streamed by the renderer and
// exports them as PFM files.
//
// A frame arrives as one [Header] on the hdr_header channel followed by
// [Rows] packets on hdr_rows; the packet with Last set completes it.
// The [Accumulator] writes rows into a private back buffer. On
// completion the back buffer is published as an immutable [Snapshot]
// through an atomic pointer, and the next header allocates a fresh back
// buffer. Export reads only published snapshots, so it never sees a
// half-written frame and never holds the receive lock.
//
// Accumulator states:
//
//	Idle --header--> Receiving --last rows--> Complete --header--> Receiving
//
// A header received while Receiving abandons the partial frame.
package frame
