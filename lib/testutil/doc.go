// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive], [RequireClosed], and [RequireNoReceive] wrap the
// select-with-timeout pattern so that concurrency tests in the
// transport, channel, and console packages never hang on a lost
// message. They are the only place in the test suite where wall-clock
// timeouts appear.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
