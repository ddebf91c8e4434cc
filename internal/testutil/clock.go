// Package testutil provides the fakes the engine tests drive the
// capability interfaces with.
package testutil

import (
	"sort"
	"time"

	"github.com/dodorz/dockyard/internal/surface"
)

// FakeClock is a manually advanced clock. Timers fire synchronously inside
// Advance, in chronological order, so tests control exactly when delayed
// work runs.
type FakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

// NewFakeClock starts at a fixed, arbitrary instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the clock's current instant.
func (c *FakeClock) Now() time.Time { return c.now }

// AfterFunc schedules fn to run when the clock is advanced past d.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) surface.Timer {
	t := &fakeTimer{when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward, firing every due timer in order.
// Callbacks may schedule further timers; those fire too if they fall
// within the same advance.
func (c *FakeClock) Advance(d time.Duration) {
	deadline := c.now.Add(d)
	for {
		next := c.nextDue(deadline)
		if next == nil {
			break
		}
		c.now = next.when
		next.fired = true
		next.fn()
	}
	c.now = deadline
}

func (c *FakeClock) nextDue(deadline time.Time) *fakeTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].when.Before(c.timers[j].when)
	})
	if len(c.timers) == 0 || c.timers[0].when.After(deadline) {
		return nil
	}
	return c.timers[0]
}

// PendingTimers reports how many timers are armed.
func (c *FakeClock) PendingTimers() int {
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

type fakeTimer struct {
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
