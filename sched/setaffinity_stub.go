//go:build !linux || tinygo

// setaffinity_stub.go
//
// Portable no-op pin for platforms without sched_setaffinity(2). Workers
// still lock their OS thread; only the CPU placement is left to the
// kernel scheduler.

package sched

// setAffinity is a no-op on unsupported targets.
func setAffinity(cpu int) {}
