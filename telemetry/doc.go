// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry reduces the renderer's statistics streams into
// display values: the per-tile workload histogram, the video bit rate
// and the frame rate.
//
// [Monitor] subscribes to the telemetry channels and keeps the latest
// reduced values in a [Snapshot]. Updates arrive on the receive
// goroutine; readers take a copy under the monitor's lock.
package telemetry
