// Package clock implements the monotonic game clock and its deferred single-shot callbacks.
package clock

import (
	"container/heap"
	"time"
)

// Clock is a manually advanced game clock. Callbacks registered with After run
// from inside Advance, on the caller's goroutine, in due-time order.
type Clock struct {
	now     time.Duration
	seq     uint64
	pending timerQueue
}

// New returns a clock at time zero.
func New() *Clock { return &Clock{} }

// Now returns game time elapsed since the clock started.
func (c *Clock) Now() time.Duration { return c.now }

// After schedules fn to run once d from now. There is no cancellation;
// callbacks must re-check whatever state they depend on.
func (c *Clock) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	c.seq++
	heap.Push(&c.pending, &timer{at: c.now + d, seq: c.seq, fn: fn})
}

// Advance moves the clock forward by d and fires every callback that falls due,
// including callbacks scheduled by other callbacks within the window.
func (c *Clock) Advance(d time.Duration) {
	target := c.now + d
	for c.pending.Len() > 0 && c.pending[0].at <= target {
		t := heap.Pop(&c.pending).(*timer)
		if t.at > c.now {
			c.now = t.at
		}
		t.fn()
	}
	c.now = target
}

// Pending returns the number of callbacks not yet fired.
func (c *Clock) Pending() int { return c.pending.Len() }

// Reset drops all pending callbacks and rewinds to zero.
func (c *Clock) Reset() {
	c.now = 0
	c.pending = nil
}

type timer struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*timer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
