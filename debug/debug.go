// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — Cold-path diagnostic logging (fmt-free)
//
// Purpose:
//   - Logs infrequent scheduler events without introducing heap pressure.
//   - Used only in cold paths: frame boundaries, drain failures, telemetry
//     flush errors, shutdown notices.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Writes directly to stderr through utils.PrintWarning; no interfaces,
//     no log package, no locks.
//
// ⚠️ Never invoke in the worker hot loop — use only between frames or on
//    failure diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "jobsys/utils"

// DropError logs an error with a custom alloc-free print strategy.
// A nil err prints just the prefix, which keeps frame-boundary traces
// on the same call path as real failures.
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		msg := prefix + ": " + err.Error() + "\n"
		utils.PrintWarning(msg)
	} else {
		msg := prefix + "\n"
		utils.PrintWarning(msg)
	}
}

// DropMessage logs a tagged message for cold-path diagnostics: pool
// construction, frame completion, telemetry flushes, shutdown.
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	msg := prefix + ": " + message + "\n"
	utils.PrintWarning(msg)
}

// DropStat logs a tagged integer without going through fmt.
// Convenience wrapper for frame counters and byte totals.
//
//go:nosplit
//go:inline
func DropStat(prefix string, value int) {
	msg := prefix + ": " + utils.Itoa(value) + "\n"
	utils.PrintWarning(msg)
}
