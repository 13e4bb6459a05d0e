// deque.go
//
// Bounded Chase–Lev work-stealing deque of job records. One end is private
// to the owning worker (LIFO push/pop at tail), the other is contended by
// thieves (FIFO steal via CAS on head). head and tail are monotonically
// increasing positions; slots are addressed with (pos & mask), so capacity
// must be a power of two. The indices live on separate cache lines to
// keep owner pops from bouncing the thieves' line and vice versa.
//
// Each slot carries a sequence stamp so reuse is race-free without locks:
// a slot is writable at position p only while its stamp reads p. The owner
// publishes a pushed job via the tail store; a thief first wins the CAS on
// head — claiming the slot exclusively — then copies the job and releases
// the slot for its next lap by stamping p+capacity. A thief that loses the
// CAS never touches the job, so no stale read ever races the owner
// rewriting the slot.

package jobqueue

import (
	"errors"
	"sync/atomic"
)

// ErrFull reports a push onto a deque whose target slot has not been
// reclaimed — the deque holds capacity jobs, or a thief is still
// completing its claim on the slot's previous lap. Silent overflow would
// drop work and hang the frame, so the condition is surfaced loudly; the
// fixed capacity was undersized for the workload.
var ErrFull = errors.New("jobqueue: deque full")

// slot couples a job record with its sequence stamp. The stamp reads p
// when the slot is free for position p; advancing head past p moves the
// stamp to p+capacity.
type slot struct {
	seq atomic.Uint64
	job Job
}

// Deque is a fixed-capacity single-producer multi-consumer work deque.
// The zero value is unusable; construct with New.
type Deque struct {
	_    [64]byte      // keep head off the allocator's header line
	head atomic.Uint64 // thief end: next position to steal
	_    [56]byte      // head and tail on different cache lines
	tail atomic.Uint64 // owner end: next position to push
	_    [56]byte      // isolate tail from the cold fields below
	mask  uint64
	slots []slot
}

// New allocates a deque whose capacity must be a power of two >= 2;
// otherwise it panics so the bit-masking arithmetic stays valid.
func New(capacity int) *Deque {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		panic("jobqueue: capacity must be >=2 and a power of two")
	}
	d := &Deque{
		mask:  uint64(capacity - 1),
		slots: make([]slot, capacity),
	}
	for i := range d.slots {
		d.slots[i].seq.Store(uint64(i))
	}
	return d
}

// Capacity returns the fixed slot count.
//
//go:inline
//go:nosplit
func (d *Deque) Capacity() int { return len(d.slots) }

// Len returns a racy snapshot of the current job count, for diagnostics
// and telemetry only.
//
//go:inline
//go:nosplit
func (d *Deque) Len() int {
	t := d.tail.Load()
	h := d.head.Load()
	if t < h {
		return 0
	}
	return int(t - h)
}

// Push appends j at the owner end. Owner-thread only.
//
// The slot write is published by the store to tail: a thief that observes
// the new tail also observes the completed slot, including every write
// that built the payload before the push.
//
//go:nosplit
func (d *Deque) Push(j Job) error {
	t := d.tail.Load()
	s := &d.slots[t&d.mask]
	if s.seq.Load() != t {
		return ErrFull // slot still on its previous lap
	}
	s.job = j
	d.tail.Store(t + 1) // release: slot visible before position advances
	return nil
}

// PopLocal removes the most recently pushed job (LIFO). Owner-thread only.
//
// The owner claims slot t-1 by publishing the decremented tail first, then
// re-examines head: if thieves have consumed everything, the claim is
// rolled back; if exactly one job remains, owner and thieves race for it
// with a CAS on head and the loser walks away empty. A pop that does not
// advance head leaves the slot stamped for tail-side reuse at the same
// position.
//
//go:nosplit
func (d *Deque) PopLocal() (Job, bool) {
	t := d.tail.Load()
	h := d.head.Load()
	if t == h {
		return Job{}, false // empty: nothing was ever contested
	}
	t--
	d.tail.Store(t) // speculative claim of slot t

	h = d.head.Load()
	if h > t {
		// Thieves drained the deque while the claim was in flight.
		d.tail.Store(h)
		return Job{}, false
	}

	s := &d.slots[t&d.mask]
	j := s.job
	if h == t {
		// Last element: resolve the owner-vs-thief race on head.
		if !d.head.CompareAndSwap(h, h+1) {
			d.tail.Store(t + 1) // lost; restore empty state
			return Job{}, false
		}
		d.tail.Store(t + 1) // won; head==tail leaves the deque empty
		// Head moved past t, so the slot starts its next lap here.
		s.seq.Store(t + uint64(len(d.slots)))
	}
	return j, true
}

// Steal removes the oldest job (FIFO). Any thread except the owner.
//
// Claim-then-copy: winning the CAS on head grants exclusive ownership of
// the slot, the job is copied out, and the sequence store releases the
// slot to the owner for its next lap. A CAS failure means another thief
// (or the owner, on the last element) claimed the slot first; the caller
// should move on to another victim rather than retry here.
//
//go:nosplit
func (d *Deque) Steal() (Job, bool) {
	h := d.head.Load()
	t := d.tail.Load()
	if h >= t {
		return Job{}, false // empty
	}
	if !d.head.CompareAndSwap(h, h+1) {
		return Job{}, false
	}
	s := &d.slots[h&d.mask]
	j := s.job
	s.seq.Store(h + uint64(len(d.slots))) // release the slot to the owner
	return j, true
}
