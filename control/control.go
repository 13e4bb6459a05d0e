// control.go — Global control flags and activity management for pinned workers
// ============================================================================
// SYSTEM CONTROL ORCHESTRATION
// ============================================================================
//
// Control package provides lightweight global signaling infrastructure for
// coordinating activity states and graceful shutdown across pinned worker
// threads with nanosecond-precision timing and zero-allocation operations.
//
// Architecture overview:
//   • Global hot/stop flags for lock-free inter-thread communication
//   • Nanosecond-precision activity tracking with automatic cooldown
//   • Zero-allocation flag access for hot path performance
//   • Graceful shutdown coordination across all worker cores
//
// Threading model:
//   • The pool driver signals activity via SignalActivity() when a frame
//     of jobs is published
//   • Worker threads poll flags via Flags() inside their search loops
//   • Automatic cooldown prevents unnecessary hot spinning once a frame
//     has gone quiet
//   • Shutdown() ensures workers stop searching between jobs
//
// Safety guarantees:
//   • Race-free flag access with proper memory ordering
//   • Bounded cooldown periods prevent infinite hot spinning
//   • Deterministic shutdown behavior across all cores

package control

import (
	"sync/atomic"
	"time"

	"jobsys/constants"
)

// ============================================================================
// GLOBAL STATE MANAGEMENT
// ============================================================================

var (
	// Global coordination flags - polled by every worker thread
	hot  uint32 // Activity indicator: 1 = frame in flight, 0 = idle
	stop uint32 // Shutdown signal: 1 = stop searching for work, 0 = running

	// Activity timing for automatic cooldown management
	lastHot    int64                         // Nanosecond timestamp of last published work
	cooldownNs = int64(constants.CooldownNs) // Idle period before hot clears
)

// ============================================================================
// ACTIVITY SIGNALING (POOL INTEGRATION)
// ============================================================================

// SignalActivity marks the system as active and records precise timing
// for automatic cooldown management. Called by the pool driver when a
// frame's initial jobs are pushed, and safe to call from any worker that
// publishes subdivision children.
//
//go:nosplit
//go:inline
func SignalActivity() {
	atomic.StoreInt64(&lastHot, time.Now().UnixNano())
	atomic.StoreUint32(&hot, 1)
}

// ============================================================================
// COOLDOWN MANAGEMENT (AUTOMATIC EFFICIENCY)
// ============================================================================

// PollCooldown clears the hot flag once the configured idle period has
// elapsed since the last published work. Integrates into worker search
// loops so quiet pools stop burning cores.
//
//go:nosplit
//go:inline
func PollCooldown() {
	if atomic.LoadUint32(&hot) == 1 &&
		time.Now().UnixNano()-atomic.LoadInt64(&lastHot) > cooldownNs {
		atomic.StoreUint32(&hot, 0)
	}
}

// ============================================================================
// SYSTEM SHUTDOWN (GRACEFUL TERMINATION)
// ============================================================================

// Shutdown initiates graceful termination by setting the global stop
// flag. Workers observe it between jobs: a job already popped runs to
// completion, the search loop exits afterwards.
//
//go:nosplit
//go:inline
func Shutdown() {
	atomic.StoreUint32(&stop, 1)
}

// Resume clears the stop flag so a pool can run further frames after a
// deliberate stop (used by tests and multi-run drivers).
//
//go:nosplit
//go:inline
func Resume() {
	atomic.StoreUint32(&stop, 0)
}

// Stopped reports whether shutdown has been requested.
//
//go:nosplit
//go:inline
func Stopped() bool {
	return atomic.LoadUint32(&stop) != 0
}

// ============================================================================
// FLAG ACCESS (WORKER INTEGRATION)
// ============================================================================

// Flags returns direct pointers to the global coordination flags for
// zero-allocation polling by pinned worker threads.
//
// Return values: (*stop_flag, *hot_flag)
// Memory safety: Returned pointers remain valid for application lifetime
//
//go:nosplit
//go:inline
func Flags() (*uint32, *uint32) {
	return &stop, &hot
}
