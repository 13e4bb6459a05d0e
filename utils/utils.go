// utils.go — low-level helpers shared by the scheduler, telemetry & logging.
package utils

import (
	"syscall"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities — Zero-Alloc Casts
///////////////////////////////////////////////////////////////////////////////

// B2s converts a []byte to a string **without** allocation.
// ⚠️ Caller must ensure the input slice remains valid and unchanged.
// Used for human-readable print paths.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

///////////////////////////////////////////////////////////////////////////////
// Integer Formatting — Stack-Buffer Decimal Rendering
///////////////////////////////////////////////////////////////////////////////

// Utoa renders an unsigned integer in decimal into a fixed stack buffer
// and returns the populated tail as a string. The returned string is a
// fresh allocation only because it crosses the function boundary; no
// intermediate garbage is produced.
//
//go:nosplit
//go:inline
func Utoa(v uint64) string {
	var buf [20]byte // ceil(log10(2^64)) digits
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return string(buf[i:])
}

// Itoa renders a signed integer in decimal. Negative values get a leading
// minus; the digit loop is shared with Utoa.
//
//go:nosplit
//go:inline
func Itoa(v int) string {
	if v < 0 {
		return "-" + Utoa(uint64(-v))
	}
	return Utoa(uint64(v))
}

///////////////////////////////////////////////////////////////////////////////
// Raw Output — Direct fd Writes, No log Package
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg straight to stderr (file descriptor 2),
// bypassing the log package, its mutex, and its timestamp formatting.
// Partial writes and errors are ignored: diagnostics must never become
// a failure source of their own.
//
//go:nosplit
func PrintWarning(msg string) {
	b := unsafe.Slice(unsafe.StringData(msg), len(msg))
	_, _ = syscall.Write(2, b)
}
