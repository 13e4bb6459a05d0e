// -------------------------
// File: counter_test.go
// -------------------------
package jobqueue

import (
	"sync"
	"testing"
	"unsafe"
)

func TestCounterArithmetic(t *testing.T) {
	var c Counter
	if !c.Drained() {
		t.Fatal("fresh counter not drained")
	}
	c.Add(2) // two initial jobs
	if c.Remaining() != 2 {
		t.Fatalf("Remaining = %d, want 2", c.Remaining())
	}
	c.Add(4) // one of them converts into four children
	if c.Remaining() != 6 {
		t.Fatalf("Remaining after spawn = %d, want 6", c.Remaining())
	}
	for i := 0; i < 6; i++ {
		if c.Drained() {
			t.Fatalf("drained with %d completions outstanding", 6-i)
		}
		c.Done()
	}
	if !c.Drained() {
		t.Fatal("not drained after all completions")
	}
}

func TestCounterUnderflowPanics(t *testing.T) {
	var c Counter
	c.Add(1)
	c.Done()
	defer func() {
		if recover() == nil {
			t.Fatal("underflow did not panic")
		}
	}()
	c.Done()
}

// TestCounterConcurrentRetire retires a large batch from many goroutines
// and checks the total lands exactly on zero.
func TestCounterConcurrentRetire(t *testing.T) {
	const total = 100000
	const goroutines = 10

	var c Counter
	c.Add(total)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < total/goroutines; i++ {
				c.Done()
			}
		}()
	}
	wg.Wait()

	if !c.Drained() {
		t.Fatalf("Remaining = %d after full retirement", c.Remaining())
	}
}

// TestExecuteDecrementsOnlyCountedJobs pins down the counting rule: Leaf
// jobs retire a unit, helper jobs do not, and a nil counter is tolerated.
func TestExecuteDecrementsOnlyCountedJobs(t *testing.T) {
	var c Counter
	c.Add(1)

	ran := 0
	bump := func(*Context, unsafe.Pointer) { ran++ }

	helper := Job{Fn: bump, Leaf: false, Counter: &c}
	helper.Execute(nil)
	if c.Remaining() != 1 {
		t.Fatalf("helper job touched the counter: %d", c.Remaining())
	}

	leaf := Job{Fn: bump, Leaf: true, Counter: &c}
	leaf.Execute(nil)
	if !c.Drained() {
		t.Fatalf("leaf job did not retire: %d", c.Remaining())
	}

	orphan := Job{Fn: bump, Leaf: true, Counter: nil}
	orphan.Execute(nil) // must not panic

	if ran != 3 {
		t.Fatalf("ran %d jobs, want 3", ran)
	}
}
