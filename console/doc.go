// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package console is the interactive side of remote-ui: a bubbletea
// program that renders the control panel and telemetry, and turns key
// presses into local edits.
//
// The model never touches shared state from the receive goroutine.
// Bindings, the telemetry monitor and the frame accumulator signal a
// shared capacity-1 channel when their state changes; the model listens
// on it with a tea.Cmd and re-reads everything once per signal, so a
// burst of remote updates costs one redraw.
package console
