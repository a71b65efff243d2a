// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the error types shared by the remote-ui binaries.
//
// Startup failures are returned from run() as a categorized *Error and
// mapped to a process exit code by [ExitCode]: bad flags or config
// exit 2, an unreachable renderer or any other startup failure exits 1.
// Steady-state failures (publish errors, malformed payloads) never
// reach this package; they are logged where they happen.
package cli
