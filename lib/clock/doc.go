// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that measures rates or paces a stream takes a Clock instead of
// calling the time package directly. Production code passes Real();
// tests pass Fake() and move time forward with Advance:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	meter := telemetry.NewRateMeter(c, time.Second)
//	c.Advance(100 * time.Millisecond)
//
// Goroutines that wait on a fake ticker register a waiter; use
// WaitForTimers before Advance so the tick is not lost.
package clock
