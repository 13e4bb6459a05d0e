// -------------------------
// File: deque_test.go
// -------------------------
package jobqueue

import (
	"testing"
	"unsafe"
)

// noop is a shared do-nothing entry point for records that only exercise
// deque mechanics.
func noop(*Context, unsafe.Pointer) {}

// record builds a minimal uncounted job whose payload identifies it.
func record(id *int) Job {
	return Job{Fn: noop, Data: unsafe.Pointer(id), Leaf: false}
}

func TestNewPanicsOnBadCapacity(t *testing.T) {
	for _, capSize := range []int{0, 1, 3, 48, -8} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("New(%d) did not panic", capSize)
				}
			}()
			_ = New(capSize)
		}()
	}
}

func TestPopLocalLIFO(t *testing.T) {
	d := New(8)
	ids := []int{10, 20, 30}
	for i := range ids {
		if err := d.Push(record(&ids[i])); err != nil {
			t.Fatal(err)
		}
	}
	for want := len(ids) - 1; want >= 0; want-- {
		j, ok := d.PopLocal()
		if !ok {
			t.Fatalf("PopLocal empty with %d jobs outstanding", want+1)
		}
		if got := *(*int)(j.Data); got != ids[want] {
			t.Fatalf("PopLocal order: got %d, want %d", got, ids[want])
		}
	}
	if _, ok := d.PopLocal(); ok {
		t.Fatal("PopLocal returned a job from an empty deque")
	}
}

func TestStealFIFO(t *testing.T) {
	d := New(8)
	ids := []int{1, 2, 3, 4}
	for i := range ids {
		if err := d.Push(record(&ids[i])); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range ids {
		j, ok := d.Steal()
		if !ok {
			t.Fatal("Steal empty with jobs outstanding")
		}
		if got := *(*int)(j.Data); got != want {
			t.Fatalf("Steal order: got %d, want %d", got, want)
		}
	}
	if _, ok := d.Steal(); ok {
		t.Fatal("Steal returned a job from an empty deque")
	}
}

// TestPushOverflow fills an 8-slot deque and verifies the ninth push is
// refused loudly rather than silently dropping work.
func TestPushOverflow(t *testing.T) {
	d := New(8)
	ids := make([]int, 9)
	for i := 0; i < 8; i++ {
		if err := d.Push(record(&ids[i])); err != nil {
			t.Fatalf("push %d: %v", i+1, err)
		}
	}
	if err := d.Push(record(&ids[8])); err != ErrFull {
		t.Fatalf("ninth push err = %v, want ErrFull", err)
	}
	if d.Len() != 8 {
		t.Fatalf("Len after refused push = %d, want 8", d.Len())
	}
}

// TestPushAfterWraparound drives the positions past the capacity several
// times so the mask arithmetic sees non-trivial high bits.
func TestPushAfterWraparound(t *testing.T) {
	d := New(4)
	id := 0
	for round := 0; round < 33; round++ {
		for i := 0; i < 4; i++ {
			if err := d.Push(record(&id)); err != nil {
				t.Fatalf("round %d push %d: %v", round, i, err)
			}
		}
		for i := 0; i < 4; i++ {
			if _, ok := d.PopLocal(); !ok {
				t.Fatalf("round %d pop %d: empty", round, i)
			}
		}
	}
	if d.Len() != 0 {
		t.Fatalf("Len after balanced rounds = %d", d.Len())
	}
}

// TestMixedEnds interleaves owner pops and steals against a known fill and
// checks no record is produced twice and none is lost.
func TestMixedEnds(t *testing.T) {
	d := New(16)
	ids := make([]int, 10)
	for i := range ids {
		ids[i] = i
		if err := d.Push(record(&ids[i])); err != nil {
			t.Fatal(err)
		}
	}
	seen := make(map[int]bool)
	take := func(j Job, ok bool) {
		if !ok {
			t.Fatal("takeout from non-empty deque failed")
		}
		id := *(*int)(j.Data)
		if seen[id] {
			t.Fatalf("record %d produced twice", id)
		}
		seen[id] = true
	}
	take(d.Steal())    // 0
	take(d.PopLocal()) // 9
	take(d.Steal())    // 1
	take(d.PopLocal()) // 8
	for i := 0; i < 6; i++ {
		take(d.PopLocal())
	}
	if len(seen) != 10 {
		t.Fatalf("drained %d records, want 10", len(seen))
	}
	if _, ok := d.PopLocal(); ok {
		t.Fatal("deque not empty after draining")
	}
}

func TestCapacityAccessor(t *testing.T) {
	if got := New(64).Capacity(); got != 64 {
		t.Fatalf("Capacity = %d, want 64", got)
	}
}
