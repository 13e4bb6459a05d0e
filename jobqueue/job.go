// job.go
//
// The job record is the unit of scheduled work: a raw function pointer plus
// an opaque payload, normally cut from the frame arena. Records are plain
// values — no owning handles, no finalizers — so they can be copied into
// and out of deque slots freely and die with the slot.

package jobqueue

import (
	"unsafe"

	"jobsys/arena"
)

// Fn is a job entry point. Any per-job state lives behind the single
// opaque payload pointer. The context identifies the worker the job is
// RUNNING on, so subdivision lands children on a deque the current
// thread owns — a stolen job must not push into its spawner's deque.
type Fn func(ctx *Context, data unsafe.Pointer)

// Job describes one schedulable unit. Immutable once published to a
// deque slot.
type Job struct {
	Fn      Fn             // entry point
	Data    unsafe.Pointer // opaque payload, typically into the frame arena
	Counter *Counter       // outstanding-work counter, nil for uncounted jobs
	Ctx     *Context       // per-worker context captured at spawn time
	Leaf    bool           // counted unit of work: decrements Counter on completion
}

// Execute runs the job on the calling thread. running is the executing
// worker's context; pass nil outside a worker loop (driver thread,
// tests), which falls back to the context captured at spawn time — the
// two coincide exactly when the job was not stolen.
//
// Counting rule: every counted (Leaf) job decrements exactly once when its
// function returns. A job that subdivides converts itself into its
// children by Spawn-ing them — the counter is raised before each child is
// published, so the frame total never dips to zero early.
func (j *Job) Execute(running *Context) {
	ctx := running
	if ctx == nil {
		ctx = j.Ctx
	}
	j.Fn(ctx, j.Data)
	if j.Leaf && j.Counter != nil {
		j.Counter.Done()
	}
}

// Context is the read-only per-worker view a running job receives:
// the shared frame arena plus the deque its children should land on.
// Built once at pool setup; never mutated afterwards.
type Context struct {
	Arena *arena.Arena // shared frame arena for child payloads
	Queue *Deque       // the owning worker's deque
	ID    uint32       // worker identity, [0, workers)
}

// Spawn publishes one child job onto the context's own deque. The counter
// is raised BEFORE the push so no observer can see the frame drain while
// the child is in flight.
//
// ⚠️ Owner-thread only: Spawn pushes to the deque's private end, so it may
// be called only by the job currently running on this context's worker.
//
// A full deque is unrecoverable mid-frame — the counter has already been
// raised and cannot be safely unwound once siblings may have completed.
// Callers treat ErrFull as fatal.
func (c *Context) Spawn(counter *Counter, fn Fn, data unsafe.Pointer) error {
	counter.Add(1)
	return c.Queue.Push(Job{
		Fn:      fn,
		Data:    data,
		Counter: counter,
		Ctx:     c,
		Leaf:    true,
	})
}
