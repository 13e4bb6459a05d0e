// counter.go
//
// Frame-wide outstanding-work counter. A single atomic integer counts the
// counted jobs that have been published but not yet completed; the pool
// driver reads zero to learn the frame has drained and the arena may be
// reset.

package jobqueue

import "sync/atomic"

// Counter tracks outstanding counted jobs for one frame. The word sits on
// its own cache line: it is the single most contended location in the
// system once subdivision fans out.
type Counter struct {
	remaining atomic.Int64
	_         [56]byte // keep neighbours off the counter's line
}

// Add raises the outstanding total by n. Called with the initial job count
// before the first push, and by Spawn before each child is published.
//
//go:nosplit
//go:inline
func (c *Counter) Add(n int) {
	c.remaining.Add(int64(n))
}

// Done retires one counted job. The atomic decrement is the release edge
// that makes the job's side effects visible to whoever observes the
// counter hit zero. Underflow means the workload double-counted a
// completion — a design-invariant violation, so it panics rather than
// letting the frame "drain" twice.
//
//go:nosplit
//go:inline
func (c *Counter) Done() {
	if c.remaining.Add(-1) < 0 {
		panic("jobqueue: counter underflow — completion counted twice")
	}
}

// Drained reports whether every counted job has completed. The acquire
// load pairs with the release decrements in Done: an observer that sees
// zero also sees every retired job's writes.
//
//go:nosplit
//go:inline
func (c *Counter) Drained() bool {
	return c.remaining.Load() == 0
}

// Remaining returns the current outstanding total, for diagnostics.
//
//go:nosplit
//go:inline
func (c *Counter) Remaining() int64 {
	return c.remaining.Load()
}
