// cell_test.go: unit tests for AtomicCell / NullableAtomicCell.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arcmap

import (
	"sync"
	"testing"
)

func TestAtomicCell_StoreThenLoad(t *testing.T) {
	c := NewAtomicCell(NewHandle(10))
	defer c.Drop()

	h := c.Load()
	if got := h.Get(); got != 10 {
		t.Fatalf("Load().Get() = %d, want 10", got)
	}
	h.Drop()
}

func TestAtomicCell_Store(t *testing.T) {
	c := NewAtomicCell(NewHandle(1))
	defer c.Drop()

	c.Store(NewHandle(2))

	h := c.Load()
	if got := h.Get(); got != 2 {
		t.Fatalf("after Store(2), Load().Get() = %d, want 2", got)
	}
	h.Drop()
}

func TestAtomicCell_Swap(t *testing.T) {
	c := NewAtomicCell(NewHandle(1))
	defer c.Drop()

	old := c.Swap(NewHandle(2))
	if got := old.Get(); got != 1 {
		t.Fatalf("Swap returned %d, want 1", got)
	}
	old.Drop()

	h := c.Load()
	if got := h.Get(); got != 2 {
		t.Fatalf("after Swap, Load().Get() = %d, want 2", got)
	}
	h.Drop()
}

func TestAtomicCell_CompareAndSwap_Success(t *testing.T) {
	c := NewAtomicCell(NewHandle(1))
	defer c.Drop()

	current := c.Load()
	if !c.CompareAndSwap(current, NewHandle(2)) {
		t.Fatal("CompareAndSwap should succeed when current matches")
	}
	current.Drop()

	h := c.Load()
	if got := h.Get(); got != 2 {
		t.Fatalf("after successful CompareAndSwap, Load().Get() = %d, want 2", got)
	}
	h.Drop()
}

// TestAtomicCell_CompareAndSwap_Failure mirrors spec.md's
// compare_exchange(C, &current=H, new=H') scenario: H does not match what
// the cell currently holds, so the exchange fails, the cell is left
// unchanged, and the offered replacement handle is consumed (released)
// by CompareAndSwap itself, so the test does not drop it again.
func TestAtomicCell_CompareAndSwap_Failure(t *testing.T) {
	c := NewAtomicCell(NewHandle(1))
	defer c.Drop()

	stale := NewHandle(1) // distinct from whatever c currently holds
	replacement := NewHandle(2)

	if c.CompareAndSwap(stale, replacement) {
		t.Fatal("CompareAndSwap should fail when current does not match the cell's contents")
	}
	stale.Drop()

	h := c.Load()
	if got := h.Get(); got != 1 {
		t.Fatalf("failed CompareAndSwap should leave the cell unchanged, got %d", got)
	}
	h.Drop()
}

func TestAtomicCell_ConcurrentLoadStore(t *testing.T) {
	c := NewAtomicCell(NewHandle(0))
	defer c.Drop()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n * 2)

	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			c.Store(NewHandle(i))
		}(i)
	}
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			h := c.Load()
			_ = h.Get()
			h.Drop()
		}()
	}
	wg.Wait()
}

func TestNullableAtomicCell_StartsEmpty(t *testing.T) {
	c := NewNullableAtomicCell[int]()
	defer c.Drop()

	_, ok := c.Load()
	if ok {
		t.Fatal("a fresh NullableAtomicCell should start empty")
	}
}

// fooResource models a value that owns an external resource and must run
// its destructor exactly once when its last reference is released.
type fooResource struct {
	id    int
	fired *int32Counter
}

func (f fooResource) Release() {
	f.fired.inc()
}

func TestNullableAtomicCell_DestructorRunsExactlyOnce(t *testing.T) {
	c := NewNullableAtomicCell[fooResource]()
	defer c.Drop()

	fired4 := &int32Counter{}
	fired5 := &int32Counter{}

	c.Store(NewHandle(fooResource{id: 4, fired: fired4}), true)
	if fired4.get() != 0 {
		t.Fatalf("Foo(4) released too early: %d", fired4.get())
	}

	// Replacing the stored value should release Foo(4) exactly once.
	c.Store(NewHandle(fooResource{id: 5, fired: fired5}), true)
	if fired4.get() != 1 {
		t.Fatalf("Foo(4) should have been released exactly once after replacement, got %d", fired4.get())
	}
	if fired5.get() != 0 {
		t.Fatalf("Foo(5) released too early: %d", fired5.get())
	}

	// Clearing the cell should release Foo(5) exactly once.
	c.Store(Handle[fooResource]{}, false)
	if fired5.get() != 1 {
		t.Fatalf("Foo(5) should have been released exactly once after clearing, got %d", fired5.get())
	}
}

func TestNullableAtomicCell_TryStore_SucceedsOnMatch(t *testing.T) {
	c := NewNullableAtomicCell[int]()
	defer c.Drop()

	if !c.TryStore(Handle[int]{}, false, NewHandle(1), true) {
		t.Fatal("TryStore should succeed when the cell is empty and current=empty is expected")
	}

	h, ok := c.Load()
	if !ok || h.Get() != 1 {
		t.Fatalf("after successful TryStore, Load() = (%v, %v), want (1, true)", h, ok)
	}
	h.Drop()
}

func TestNullableAtomicCell_TryStore_FailsOnMismatch(t *testing.T) {
	c := NewNullableAtomicCell[int]()
	defer c.Drop()

	c.Store(NewHandle(1), true)

	offered := NewHandle(99)
	if c.TryStore(Handle[int]{}, false, offered, true) {
		t.Fatal("TryStore should fail: cell is non-empty but current=empty was expected")
	}

	h, ok := c.Load()
	if !ok || h.Get() != 1 {
		t.Fatalf("failed TryStore should leave the cell unchanged, got (%v, %v)", h, ok)
	}
	h.Drop()
}

func TestNullableAtomicCell_TryStore_OnlyOneWinnerUnderRace(t *testing.T) {
	c := NewNullableAtomicCell[int]()
	defer c.Drop()

	const n = 50
	var wins int32Counter
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if c.TryStore(Handle[int]{}, false, NewHandle(i), true) {
				wins.inc()
			}
		}(i)
	}
	wg.Wait()

	if got := wins.get(); got != 1 {
		t.Fatalf("exactly one TryStore should win the race from empty, got %d", got)
	}
}
