// ════════════════════════════════════════════════════════════════════════════════════════════════
// Frame-Arena Job Scheduler - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Frame-Arena Fork/Join Job Scheduler
// Component: Main Entry Point & Demo Orchestration
//
// Description:
//   Demo driver with phased orchestration and clean separation of concerns.
//   Setup → Independent leaf frames → Recursive subdivision frame → Telemetry flush
//
// Architecture:
//   - Phase 0: Arena, pool, and telemetry construction; signal wiring
//   - Phase 1: Two independent array-sum leaf jobs on one frame
//   - Phase 2: Recursive range-sum with fork/join subdivision
//   - Phase 3: Telemetry export (JSON) and persistence (SQLite)
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"unsafe"

	"jobsys/arena"
	"jobsys/constants"
	"jobsys/control"
	"jobsys/debug"
	"jobsys/framestats"
	"jobsys/jobqueue"
	"jobsys/sched"
	"jobsys/utils"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// FRAME PAYLOADS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// sumTask is the independent-sum payload: a view over arena-resident
// inputs plus a private result slot.
type sumTask struct {
	values []int64 // inputs, cut from the frame arena
	result *int64  // result slot, cut from the frame arena
}

// rangeTask subdivides [begin, begin+count) until the span is at or under
// the threshold, then folds its partial sum into the shared result.
type rangeTask struct {
	values  []int64           // shared input view
	begin   uint32            // first index of this span
	count   uint32            // span length
	result  *int64            // shared result, atomically accumulated
	counter *jobqueue.Counter // frame counter, needed to spawn children
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// JOB ENTRY POINTS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// sumJob computes one independent array sum. Pure leaf: never spawns.
func sumJob(_ *jobqueue.Context, p unsafe.Pointer) {
	t := (*sumTask)(p)
	var s int64
	for _, v := range t.values {
		s += v
	}
	*t.result = s
}

// rangeSumJob is the fork/join worker: small spans compute serially,
// large spans convert themselves into two children cut from the shared
// arena and spawned through the context of the worker they are RUNNING on.
func rangeSumJob(ctx *jobqueue.Context, p unsafe.Pointer) {
	t := (*rangeTask)(p)
	if t.count <= constants.SubdivideThreshold {
		var s int64
		for _, v := range t.values[t.begin : t.begin+t.count] {
			s += v
		}
		atomic.AddInt64(t.result, s)
		return
	}

	half := t.count / 2 // split point: begin + count/2
	left, err := arena.Alloc[rangeTask](ctx.Arena)
	if err != nil {
		debug.DropError("ARENA", err)
		panic("frame cannot complete: arena exhausted mid-subdivision")
	}
	right, err := arena.Alloc[rangeTask](ctx.Arena)
	if err != nil {
		debug.DropError("ARENA", err)
		panic("frame cannot complete: arena exhausted mid-subdivision")
	}
	*left = rangeTask{values: t.values, begin: t.begin, count: half, result: t.result, counter: t.counter}
	*right = rangeTask{values: t.values, begin: t.begin + half, count: t.count - half, result: t.result, counter: t.counter}

	if err := ctx.Spawn(t.counter, rangeSumJob, unsafe.Pointer(left)); err != nil {
		debug.DropError("SPAWN", err)
		panic("frame cannot complete: deque overflow")
	}
	if err := ctx.Spawn(t.counter, rangeSumJob, unsafe.Pointer(right)); err != nil {
		debug.DropError("SPAWN", err)
		panic("frame cannot complete: deque overflow")
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// main orchestrates the demo lifecycle in distinct phases.
func main() {
	runtime.LockOSThread() // the driver thread doubles as worker 0

	// PHASE 0: Construction and signal wiring
	debug.DropMessage("INIT", "constructing frame arena and worker pool")

	ar, err := arena.New(constants.DefaultArenaBytes)
	if err != nil {
		debug.DropError("INIT", err)
		os.Exit(1)
	}
	defer ar.Release()

	var rec framestats.Recorder
	pool := sched.New(0, ar, sched.WithRecorder(&rec))
	debug.DropStat("WORKERS", pool.Workers())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		debug.DropMessage("SIGNAL", "shutdown requested")
		control.Shutdown()
	}()

	// PHASE 1: Two independent array sums on one frame
	a := mustSumTask(ar, 1, 2, 3)
	b := mustSumTask(ar, 4, 5, 6)
	r1, r2 := a.result, b.result

	var frame1 jobqueue.Counter
	mustSubmit(pool.Submit(&frame1, sumJob, unsafe.Pointer(a)))
	mustSubmit(pool.Submit(&frame1, sumJob, unsafe.Pointer(b)))
	if err := pool.Run(&frame1); err != nil {
		debug.DropError("FRAME1", err)
		os.Exit(1)
	}
	debug.DropMessage("FRAME1", "sums "+utils.Itoa(int(*r1))+" and "+utils.Itoa(int(*r2)))

	// PHASE 2: Recursive range sum over [0, 1024)
	vs, err := arena.AllocSlice[int64](ar, 1024)
	if err != nil {
		debug.DropError("FRAME2", err)
		os.Exit(1)
	}
	for i := range vs {
		vs[i] = int64(i + 1)
	}
	res, err := arena.Alloc[int64](ar)
	if err != nil {
		debug.DropError("FRAME2", err)
		os.Exit(1)
	}
	root, err := arena.Alloc[rangeTask](ar)
	if err != nil {
		debug.DropError("FRAME2", err)
		os.Exit(1)
	}

	var frame2 jobqueue.Counter
	*root = rangeTask{values: vs, begin: 0, count: 1024, result: res, counter: &frame2}
	mustSubmit(pool.Submit(&frame2, rangeSumJob, unsafe.Pointer(root)))
	if err := pool.Run(&frame2); err != nil {
		debug.DropError("FRAME2", err)
		os.Exit(1)
	}
	debug.DropMessage("FRAME2", "range sum "+utils.Itoa(int(*res)))

	// PHASE 3: Telemetry export and persistence
	if data, err := rec.ExportJSON(); err == nil {
		debug.DropMessage("STATS", utils.B2s(data))
	} else {
		debug.DropError("STATS", err)
	}

	store, err := framestats.OpenStore(constants.StatsDBPath)
	if err != nil {
		debug.DropError("STATS", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.Persist(rec.Snapshot()); err != nil {
		debug.DropError("STATS", err)
		os.Exit(1)
	}
	if totals, err := store.Totals(); err == nil {
		debug.DropStat("LIFETIME_FRAMES", int(totals.Frames))
		debug.DropStat("LIFETIME_JOBS", int(totals.Jobs))
	}

	debug.DropMessage("DONE", "all frames drained")
}

// mustSumTask cuts one independent-sum payload from the arena. Setup-time
// exhaustion is fatal before any worker has started.
func mustSumTask(ar *arena.Arena, values ...int64) *sumTask {
	task, err := arena.Alloc[sumTask](ar)
	if err == nil {
		var vs []int64
		if vs, err = arena.AllocSlice[int64](ar, len(values)); err == nil {
			copy(vs, values)
			var res *int64
			if res, err = arena.Alloc[int64](ar); err == nil {
				task.values = vs
				task.result = res
				return task
			}
		}
	}
	debug.DropError("SETUP", err)
	os.Exit(1)
	return nil
}

// mustSubmit aborts on a failed initial push; a frame that cannot even
// publish its roots has no recovery path.
func mustSubmit(err error) {
	if err != nil {
		debug.DropError("SUBMIT", err)
		os.Exit(1)
	}
}
