// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowAdvances(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)
	c.Advance(3 * time.Second)
	if got := c.Now(); !got.Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("Now = %v, want %v", got, epoch.Add(3*time.Second))
	}
}

func TestFakeAfterFiresAtDeadline(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)
	channel := c.After(time.Second)

	c.Advance(999 * time.Millisecond)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	c.Advance(time.Millisecond)
	select {
	case fired := <-channel:
		if !fired.Equal(epoch.Add(time.Second)) {
			t.Errorf("fired at %v, want %v", fired, epoch.Add(time.Second))
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeAfterNonPositiveIsImmediate(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) was not ready immediately")
	}
}

func TestFakeTickerDropsExcessTicks(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)
	ticker := c.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	c.Advance(350 * time.Millisecond)
	<-ticker.C
	select {
	case <-ticker.C:
		t.Fatal("ticker queued more than one tick")
	default:
	}

	c.Advance(50 * time.Millisecond)
	select {
	case fired := <-ticker.C:
		if !fired.Equal(epoch.Add(400 * time.Millisecond)) {
			t.Errorf("tick at %v, want %v", fired, epoch.Add(400*time.Millisecond))
		}
	default:
		t.Fatal("ticker did not fire at 400ms")
	}
}

func TestFakeTickerStop(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)
	ticker := c.NewTicker(time.Second)
	ticker.Stop()
	c.Advance(5 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)
	done := make(chan struct{})
	go func() {
		<-c.After(time.Second)
		close(done)
	}()
	c.WaitForTimers(1)
	c.Advance(time.Second)
	<-done
}
