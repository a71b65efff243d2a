// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"testing"
	"time"

	"github.com/remoteui/remoteui/lib/clock"
)

func TestFormatRate(t *testing.T) {
	t.Parallel()
	if got := FormatRate(29.97, UnitFrameRate); got != "30.0 Frames/sec" {
		t.Errorf("FormatRate = %q", got)
	}
	if got := FormatRate(4.25, UnitBitRate); got != "4.2 Mbps" && got != "4.3 Mbps" {
		t.Errorf("FormatRate = %q", got)
	}
}

func TestRateMeter(t *testing.T) {
	t.Parallel()
	fake := clock.Fake(time.Unix(1000, 0))
	meter := NewRateMeter(fake, 2*time.Second)

	if got := meter.Rate(); got != 0 {
		t.Errorf("initial Rate() = %v, want 0", got)
	}
	for range 10 {
		meter.Mark()
		fake.Advance(100 * time.Millisecond)
	}
	if got := meter.Rate(); got != 5 {
		t.Errorf("Rate() = %v, want 5 (10 events / 2s)", got)
	}

	fake.Advance(1500 * time.Millisecond)
	// Events at t=0.0..0.9 s; now t=2.5 s keeps those after t=0.5 s.
	if got := meter.Rate(); got != 2 {
		t.Errorf("Rate() = %v after partial expiry, want 2", got)
	}

	fake.Advance(time.Minute)
	if got := meter.Rate(); got != 0 {
		t.Errorf("Rate() = %v after window, want 0", got)
	}
}
