// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockrenderer is a stand-in for the remote renderer, used by
// remote-ui-mock-renderer and by end-to-end tests of the console.
//
// It speaks the renderer side of the channel protocol: parameters the
// console publishes are stored and echoed back in canonical form, the
// telemetry channels are fed on a timer, and a synthetic HDR frame is
// streamed on another. A "stop" message ends the session.
package mockrenderer
