// ════════════════════════════════════════════════════════════════════════════════════════════════
// Frame Telemetry Recorder
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Frame-Arena Job Scheduler
// Component: Scheduler Counters & Snapshot Export
//
// Description:
//   Cold-path telemetry for the worker pool. Workers fold their private tallies into the
//   recorder once per frame, after join — the hot loop never touches these atomics. Snapshots
//   serialize to JSON for operator tooling and persist into SQLite for cross-run history.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package framestats

import (
	"sync/atomic"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// Recorder accumulates scheduler totals across frames. All methods are
// safe from any thread; contention is negligible because the pool calls
// them once per frame, not per job.
type Recorder struct {
	// CACHE LINE 1: Monotonic totals, folded in at frame boundaries
	frames      atomic.Uint64 // 8B - Completed (drained) frames
	jobs        atomic.Uint64 // 8B - Jobs executed across all workers
	steals      atomic.Uint64 // 8B - Successful steals
	stealMisses atomic.Uint64 // 8B - Victim probes that came back empty
	_           [32]byte      // 32B - Padding to fill cache line

	// CACHE LINE 2: Per-frame gauges
	arenaHighWater atomic.Uint64 // 8B - Max bytes any frame cut from the arena
	lastFrameNs    atomic.Int64  // 8B - Wall time of the most recent frame
	_              [48]byte      // 48B - Padding to fill cache line
}

// Snapshot is a plain-value copy of the recorder totals, shaped for JSON
// export and SQLite persistence.
type Snapshot struct {
	Frames         uint64 `json:"frames"`
	Jobs           uint64 `json:"jobs"`
	Steals         uint64 `json:"steals"`
	StealMisses    uint64 `json:"steal_misses"`
	ArenaHighWater uint64 `json:"arena_high_water"`
	LastFrameNs    int64  `json:"last_frame_ns"`
}

// AddJobs folds a worker's executed-job tally into the totals.
func (r *Recorder) AddJobs(n uint64) { r.jobs.Add(n) }

// AddSteals folds a worker's successful-steal tally into the totals.
func (r *Recorder) AddSteals(n uint64) { r.steals.Add(n) }

// AddStealMisses folds a worker's empty-probe tally into the totals.
func (r *Recorder) AddStealMisses(n uint64) { r.stealMisses.Add(n) }

// FrameDone records one drained frame: arena consumption for the
// high-water gauge and the frame's wall time.
func (r *Recorder) FrameDone(arenaUsed uint64, elapsed time.Duration) {
	r.frames.Add(1)
	r.lastFrameNs.Store(int64(elapsed))
	for {
		cur := r.arenaHighWater.Load()
		if arenaUsed <= cur {
			return
		}
		if r.arenaHighWater.CompareAndSwap(cur, arenaUsed) {
			return
		}
	}
}

// Snapshot copies the current totals. The copy is not atomic across
// fields; callers take snapshots between frames where the recorder is
// quiescent.
func (r *Recorder) Snapshot() Snapshot {
	return Snapshot{
		Frames:         r.frames.Load(),
		Jobs:           r.jobs.Load(),
		Steals:         r.steals.Load(),
		StealMisses:    r.stealMisses.Load(),
		ArenaHighWater: r.arenaHighWater.Load(),
		LastFrameNs:    r.lastFrameNs.Load(),
	}
}

// ExportJSON serializes the current totals for operator tooling.
func (r *Recorder) ExportJSON() ([]byte, error) {
	return sonnet.Marshal(r.Snapshot())
}

// ParseSnapshot decodes a snapshot previously produced by ExportJSON,
// e.g. a stored baseline the driver compares a fresh run against.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := sonnet.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
