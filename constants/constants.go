// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Global frame-scheduler tunables
//
// Purpose:
//   - Defines system-wide constants for arena sizing, deque capacity,
//     worker spin behaviour, and telemetry output.
//
// Notes:
//   - Deque capacity and arena alignment are powers of two so index and
//     offset arithmetic stay branch-free bit masks.
//   - Values are over-provisioned for safety margins under recursive
//     subdivision bursts.
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Worker Deques ──────────────────────────────

const (
	// DequeCapacity is the per-worker job deque size. 64 slots covers the
	// deepest subdivision fan-out the demo workloads produce while keeping
	// the whole slot array inside a handful of cache lines. Must be a
	// power of two: Push/Pop/Steal index with (pos & (capacity-1)).
	DequeCapacity = 64

	// MaxWorkers bounds the worker pool. Matches the single-word CPU
	// affinity mask used for thread pinning, so workers beyond logical
	// CPU 63 would silently lose their pin anyway.
	MaxWorkers = 64
)

// ───────────────────────────── Frame Arena ────────────────────────────────

const (
	// DefaultArenaBytes sizes the per-frame scratch region for the demo
	// driver. 1 MiB holds every payload the example frames cut, with
	// generous headroom for subdivision-time child payloads.
	DefaultArenaBytes = 1 << 20

	// ArenaAlign is the arena's own alignment: the largest alignment a
	// caller may request. One cache line satisfies every Go type and
	// keeps hot payloads from straddling lines.
	ArenaAlign = 64
)

// ───────────────────────────── Worker Spin ────────────────────────────────

const (
	// SpinBudget is the number of failed pop+steal rounds a cold worker
	// tolerates between cpuRelax pauses before yielding the thread.
	SpinBudget = 256

	// CooldownNs is how long the pool stays hot-spinning after the last
	// signalled activity before workers drop to the cold path.
	CooldownNs = 1_000_000_000 // 1 second
)

// ───────────────────────────── Subdivision ────────────────────────────────

const (
	// SubdivideThreshold is the range length at or below which a range
	// job computes serially instead of splitting. 64 elements amortises the
	// spawn cost (counter add + deque push) over enough real work.
	SubdivideThreshold = 64
)

// ───────────────────────────── Telemetry ──────────────────────────────────

const (
	// StatsDBPath is the default SQLite database the demo driver persists
	// per-run frame telemetry into.
	StatsDBPath = "frame_stats.db"
)
