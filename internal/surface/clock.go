package surface

import (
	"sync"
	"time"
)

// StepClock is a wall clock whose timer callbacks do not run when their
// deadline passes; they queue up and run on the next Flush, in expiry
// order, on the flushing goroutine. A single-threaded host schedules with
// AfterFunc as usual and flushes from its own loop, so gesture activation
// and handshake polls never touch its state from another goroutine.
type StepClock struct {
	mu  sync.Mutex
	due []*stepTimer
}

// NewStepClock returns an empty clock.
func NewStepClock() *StepClock { return &StepClock{} }

// Now returns the current wall time.
func (c *StepClock) Now() time.Time { return time.Now() }

// AfterFunc schedules fn to become due after d.
func (c *StepClock) AfterFunc(d time.Duration, fn func()) Timer {
	st := &stepTimer{clock: c, fn: fn}
	st.inner = time.AfterFunc(d, func() {
		c.mu.Lock()
		if !st.stopped {
			c.due = append(c.due, st)
		}
		c.mu.Unlock()
	})
	return st
}

// Pending returns the number of expired callbacks waiting for a Flush.
func (c *StepClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.due)
}

// Flush runs every callback that has come due. Callbacks may schedule new
// timers; those wait for their own deadline and a later Flush.
func (c *StepClock) Flush() {
	c.mu.Lock()
	due := c.due
	c.due = nil
	c.mu.Unlock()

	for _, st := range due {
		c.mu.Lock()
		run := !st.stopped
		st.done = run
		c.mu.Unlock()
		if run {
			st.fn()
		}
	}
}

type stepTimer struct {
	clock   *StepClock
	inner   *time.Timer
	fn      func()
	stopped bool
	done    bool
}

// Stop cancels the callback whether it is still counting down or already
// queued. Reports whether the call prevented it from running.
func (t *stepTimer) Stop() bool {
	t.inner.Stop()
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.done {
		return false
	}
	t.stopped = true
	return true
}
