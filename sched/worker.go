// worker.go
//
// One worker = one OS thread + one owned deque. The loop runs jobs from
// the private end, steals from victims when local work dries up, and exits
// when the frame's completion counter drains (or a global stop lands).
//
//   • Stays in **hot-spin** (tight loop, no cpuRelax) while the pool's
//     hot flag says a frame is in flight.
//   • Once the pool cools down it drops to the **cold-spin** path:
//     cpuRelax every miss and a thread yield after SpinBudget misses.
//   • A job already popped always runs to completion; stop is only
//     honoured between jobs.
//
// Tallies are plain words: only the owning thread writes them during a
// frame, and the pool folds them into the telemetry recorder after join.

package sched

import (
	"runtime"
	"sync/atomic"

	"jobsys/constants"
	"jobsys/control"
	"jobsys/jobqueue"
)

// Worker couples an identity with an owned deque and the context its jobs
// receive. Exclusive owner of the deque's tail end.
type Worker struct {
	// CACHE LINE 1: Identity and wiring, immutable after pool setup
	ID  uint32            // 4B - worker index, [0, workers)
	_   [4]byte           // 4B - alignment
	Q   *jobqueue.Deque   // 8B - owned deque
	Ctx *jobqueue.Context // 8B - context handed to every job this worker runs
	_   [40]byte          // 40B - pad to 64B

	// CACHE LINE 2: Frame-local tallies, owner-written, folded after join
	executed    uint64   // 8B - jobs run on this worker
	steals      uint64   // 8B - successful steals from victims
	stealMisses uint64   // 8B - victim probes that found nothing
	_           [40]byte // 40B - pad to 64B
}

// run drains work until the counter reports the frame complete or a
// global stop is requested. Workers 1..W-1 call it on a locked,
// affinity-pinned thread; worker 0 runs it on the thread that called Run.
func (w *Worker) run(victims []*Worker, c *jobqueue.Counter) {
	stopFlag, hotFlag := control.Flags()
	miss := 0

	for {
		// Fast path: private LIFO end. Hot payloads are the ones this
		// worker touched most recently.
		if j, ok := w.Q.PopLocal(); ok {
			j.Execute(w.Ctx)
			w.executed++
			miss = 0
			continue
		}

		// Local deque dry: probe the other workers' FIFO ends,
		// round-robin from our right-hand neighbour so thieves fan out
		// instead of converging on worker 0.
		stolen := false
		n := len(victims)
		for k := 1; k < n; k++ {
			v := victims[(int(w.ID)+k)%n]
			if j, ok := v.Q.Steal(); ok {
				j.Execute(w.Ctx)
				w.executed++
				w.steals++
				stolen = true
				break
			}
			w.stealMisses++
		}
		if stolen {
			miss = 0
			continue
		}

		// Nothing local, nothing stealable. Frame drained?
		// The acquire load pairs with every job's release decrement, so
		// observing zero also observes all their side effects.
		if c.Drained() {
			return
		}

		// Stop requests are honoured only between jobs.
		if atomic.LoadUint32(stopFlag) != 0 {
			return
		}

		// ---------- choose spin mode ------------------
		control.PollCooldown()
		if atomic.LoadUint32(hotFlag) != 0 {
			// tight loop: work is in flight somewhere, stay ready
			continue
		}
		if miss++; miss >= constants.SpinBudget {
			miss = 0
			runtime.Gosched()
			continue
		}
		cpuRelax()
	}
}

// resetTallies clears the frame-local counters before a run.
func (w *Worker) resetTallies() {
	w.executed = 0
	w.steals = 0
	w.stealMisses = 0
}
