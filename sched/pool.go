// pool.go
//
// Scheduler driver. Owns the worker set for a frame-based workload:
// construct once, submit a frame's initial jobs, Run to drain, repeat.
// The calling thread is worker 0 — the driver does not sit idle while
// W-1 spawned threads do the work, it takes the first deque itself.
//
// Frame lifecycle contract with the arena: Run resets the arena after —
// and only after — the completion counter is observed drained, so every
// payload pointer handed out during the frame is dead before its bytes
// can be recycled.

package sched

import (
	"errors"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"jobsys/arena"
	"jobsys/constants"
	"jobsys/control"
	"jobsys/framestats"
	"jobsys/jobqueue"
)

// ErrNotDrained reports a frame whose counter was non-zero after every
// worker exited. With no stop request in flight this is a counting bug in
// the workload and the arena MUST NOT be reset; after a deliberate
// Shutdown it marks the frame as abandoned.
var ErrNotDrained = errors.New("sched: frame not drained")

// config collects pool construction options.
type config struct {
	dequeCapacity int
	recorder      *framestats.Recorder
}

// Option customises pool construction.
type Option func(*config)

// WithRecorder attaches a telemetry recorder; worker tallies are folded
// into it after each frame joins.
func WithRecorder(r *framestats.Recorder) Option {
	return func(c *config) { c.recorder = r }
}

// WithDequeCapacity overrides the per-worker deque size. Must be a power
// of two >= 2; jobqueue.New enforces that at construction.
func WithDequeCapacity(n int) Option {
	return func(c *config) { c.dequeCapacity = n }
}

// Pool is a fixed set of workers sharing one frame arena.
type Pool struct {
	workers []*Worker
	arena   *arena.Arena
	rec     *framestats.Recorder
}

// New builds a pool of the given size over the shared frame arena.
// workers <= 0 selects max(1, NumCPU-1): one core is left for the OS and
// whatever produced the frame. The count is clamped to MaxWorkers.
func New(workers int, ar *arena.Arena, opts ...Option) *Pool {
	cfg := config{dequeCapacity: constants.DequeCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	if workers <= 0 {
		workers = runtime.NumCPU() - 1
	}
	if workers < 1 {
		workers = 1
	}
	if workers > constants.MaxWorkers {
		workers = constants.MaxWorkers
	}

	p := &Pool{
		workers: make([]*Worker, workers),
		arena:   ar,
		rec:     cfg.recorder,
	}
	for i := range p.workers {
		q := jobqueue.New(cfg.dequeCapacity)
		p.workers[i] = &Worker{
			ID: uint32(i),
			Q:  q,
			Ctx: &jobqueue.Context{
				Arena: ar,
				Queue: q,
				ID:    uint32(i),
			},
		}
	}
	return p
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return len(p.workers) }

// Primary returns worker 0, the push target for a frame's initial jobs.
// Only the thread that will call Run may push to it.
func (p *Pool) Primary() *Worker { return p.workers[0] }

// Worker returns the i-th worker, for diagnostics and tests.
func (p *Pool) Worker(i int) *Worker { return p.workers[i] }

// Submit publishes one counted initial job onto worker 0's deque, raising
// the counter before the push. Must be called from the thread that will
// call Run, before Run — that thread is worker 0's owner.
//
// Unlike a mid-frame Spawn, a refused submit is unwound: no worker is
// running yet, so the counter can be lowered without racing a sibling's
// retirement, and the caller may shrink the frame and try again.
func (p *Pool) Submit(c *jobqueue.Counter, fn jobqueue.Fn, data unsafe.Pointer) error {
	primary := p.workers[0]
	c.Add(1)
	err := primary.Q.Push(jobqueue.Job{
		Fn:      fn,
		Data:    data,
		Counter: c,
		Ctx:     primary.Ctx,
		Leaf:    true,
	})
	if err != nil {
		c.Add(-1)
		return err
	}
	control.SignalActivity()
	return nil
}

// Run drains one frame: W-1 locked, pinned OS threads plus the calling
// thread (worker 0) execute the worker loop until the counter drains.
// On a drained frame the arena is reset and telemetry folded; otherwise
// the arena is left intact for post-mortem and ErrNotDrained returned.
func (p *Pool) Run(c *jobqueue.Counter) error {
	start := time.Now()
	for _, w := range p.workers {
		w.resetTallies()
	}
	control.SignalActivity()

	var wg sync.WaitGroup
	for i := 1; i < len(p.workers); i++ {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			runtime.LockOSThread()
			setAffinity(int(w.ID)) // stub on non-Linux
			defer runtime.UnlockOSThread()
			w.run(p.workers, c)
		}(p.workers[i])
	}

	p.workers[0].run(p.workers, c)
	wg.Wait()

	if !c.Drained() {
		return ErrNotDrained
	}

	used := p.arena.Used()
	p.arena.Reset()

	if p.rec != nil {
		for _, w := range p.workers {
			p.rec.AddJobs(w.executed)
			p.rec.AddSteals(w.steals)
			p.rec.AddStealMisses(w.stealMisses)
		}
		p.rec.FrameDone(used, time.Since(start))
	}
	return nil
}
