// -------------------------
// File: arena_test.go
// -------------------------
package arena

import (
	"testing"
	"unsafe"
)

func TestNewZeroCapacity(t *testing.T) {
	if _, err := New(0); err != ErrAllocFailed {
		t.Fatalf("New(0) err = %v, want ErrAllocFailed", err)
	}
}

func TestAlignmentSweep(t *testing.T) {
	a, err := New(4096)
	if err != nil {
		t.Fatal(err)
	}
	for _, align := range []uint64{1, 2, 4, 8, 16, 32, 64} {
		p, err := a.Allocate(3, align) // odd size forces realignment next round
		if err != nil {
			t.Fatalf("Allocate(3, %d): %v", align, err)
		}
		if uintptr(p)%uintptr(align) != 0 {
			t.Fatalf("pointer %#x not %d-aligned", uintptr(p), align)
		}
	}
}

func TestBadAlignmentPanics(t *testing.T) {
	a, _ := New(64)
	for _, align := range []uint64{0, 3, 12, 128} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("Allocate with align %d did not panic", align)
				}
			}()
			_, _ = a.Allocate(8, align)
		}()
	}
}

func TestNoOverlap(t *testing.T) {
	a, _ := New(1024)
	type span struct{ lo, hi uintptr }
	var spans []span
	sizes := []uint64{1, 7, 8, 16, 3, 64, 24, 5}
	for _, sz := range sizes {
		p, err := a.Allocate(sz, 8)
		if err != nil {
			t.Fatalf("Allocate(%d): %v", sz, err)
		}
		spans = append(spans, span{uintptr(p), uintptr(p) + uintptr(sz)})
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].lo < spans[j].hi && spans[j].lo < spans[i].hi {
				t.Fatalf("spans %d and %d overlap: %+v %+v", i, j, spans[i], spans[j])
			}
		}
	}
}

// TestExhaustion walks the scenario: a 16-byte arena hands out two 8-byte
// blocks, refuses the third, and leaves the offset untouched by the failed
// attempt.
func TestExhaustion(t *testing.T) {
	a, _ := New(16)
	for i := 0; i < 2; i++ {
		if _, err := a.Allocate(8, 8); err != nil {
			t.Fatalf("allocation %d failed: %v", i+1, err)
		}
	}
	if _, err := a.Allocate(8, 8); err != ErrExhausted {
		t.Fatalf("third allocation err = %v, want ErrExhausted", err)
	}
	if got := a.Used(); got != 16 {
		t.Fatalf("offset after failed allocation = %d, want 16", got)
	}
}

func TestResetRewindsAndIsIdempotent(t *testing.T) {
	a, _ := New(64)
	first, _ := a.Allocate(32, 8)
	a.Reset()
	if a.Used() != 0 {
		t.Fatalf("offset after Reset = %d, want 0", a.Used())
	}
	a.Reset() // second reset is a no-op
	if a.Used() != 0 {
		t.Fatalf("offset after double Reset = %d, want 0", a.Used())
	}
	again, _ := a.Allocate(32, 8)
	if uintptr(first) != uintptr(again) {
		t.Fatalf("post-reset allocation at %#x, want reuse of %#x", uintptr(again), uintptr(first))
	}
}

func TestAccounting(t *testing.T) {
	a, _ := New(128)
	if a.Capacity() != 128 || a.Used() != 0 || a.Remaining() != 128 {
		t.Fatal("fresh arena accounting wrong")
	}
	_, _ = a.Allocate(10, 1)
	if a.Used() != 10 || a.Remaining() != 118 {
		t.Fatalf("accounting after alloc: used=%d remaining=%d", a.Used(), a.Remaining())
	}
}

func TestReleasePanics(t *testing.T) {
	a, _ := New(64)
	a.Release()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("double Release did not panic")
			}
		}()
		a.Release()
	}()

	b, _ := New(64)
	b.Release()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("Allocate after Release did not panic")
			}
		}()
		_, _ = b.Allocate(8, 8)
	}()
}

func TestAllocTyped(t *testing.T) {
	type payload struct {
		Begin, Count uint32
		Result       int64
	}
	a, _ := New(256)
	p, err := Alloc[payload](a)
	if err != nil {
		t.Fatal(err)
	}
	if p.Begin != 0 || p.Count != 0 || p.Result != 0 {
		t.Fatalf("typed allocation not zeroed: %+v", *p)
	}
	if uintptr(unsafe.Pointer(p))%unsafe.Alignof(*p) != 0 {
		t.Fatal("typed allocation misaligned")
	}
	p.Result = 42
	q, _ := Alloc[payload](a)
	if q == p {
		t.Fatal("distinct typed allocations aliased")
	}
}

func TestAllocSlice(t *testing.T) {
	a, _ := New(1 << 12)
	s, err := AllocSlice[int64](a, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 100 {
		t.Fatalf("slice length %d, want 100", len(s))
	}
	for i := range s {
		if s[i] != 0 {
			t.Fatalf("element %d not zeroed", i)
		}
		s[i] = int64(i)
	}
	// A second slice must not alias the first.
	s2, err := AllocSlice[int64](a, 100)
	if err != nil {
		t.Fatal(err)
	}
	for i := range s2 {
		if s2[i] != 0 {
			t.Fatalf("second slice element %d dirty: aliasing", i)
		}
	}
}

func TestAllocSliceExhaustion(t *testing.T) {
	a, _ := New(64)
	if _, err := AllocSlice[int64](a, 9); err != ErrExhausted {
		t.Fatalf("oversized slice err = %v, want ErrExhausted", err)
	}
	if a.Used() != 0 {
		t.Fatalf("failed slice allocation moved offset to %d", a.Used())
	}
}
