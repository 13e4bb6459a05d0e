// typed.go
//
// Typed allocation helpers layered over Arena.Allocate. They compute the
// size and alignment of T, zero the storage (the region is not zeroed on
// Reset, so recycled bytes are dirty), and cast. Nothing is registered for
// teardown: a T whose cleanup has side effects beyond freeing memory must
// be finalized explicitly by its owner before the frame resets.
//
// ⚠️ GC caveat: the region is byte-backed, so the collector does not scan
// it. A value stored in the arena must never hold the only reference to a
// separately heap-allocated object. Pointers into the same arena are fine —
// the Arena keeps its backing alive.

package arena

import "unsafe"

// Alloc carves one zeroed T out of the arena.
func Alloc[T any](a *Arena) (*T, error) {
	var zero T
	p, err := a.Allocate(uint64(unsafe.Sizeof(zero)), uint64(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	t := (*T)(p)
	*t = zero
	return t, nil
}

// AllocSlice carves a zeroed []T of length n out of the arena. The slice
// header lives on the caller's stack; only the elements live in the arena.
func AllocSlice[T any](a *Arena, n int) ([]T, error) {
	if n < 0 {
		panic("arena: negative slice length")
	}
	var zero T
	size := uint64(unsafe.Sizeof(zero)) * uint64(n)
	p, err := a.Allocate(size, uint64(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	s := unsafe.Slice((*T)(p), n)
	for i := range s {
		s[i] = zero
	}
	return s, nil
}
