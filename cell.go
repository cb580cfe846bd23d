// cell.go: atomically-swappable cells holding a Handle[T].
//
// Ported from original_source/src/atomic_arc/mod.rs (AtomicArc /
// NullableAtomicArc). The reference design packs a compressed pointer and
// a transient "outer" load count into one 64-bit word so Load never
// touches Inner's counts — only a Store/Swap/CompareAndSwap settles the
// accumulated debt, crediting it back onto the basic count in one shot.
//
// This port keeps the same debt-settlement scheme but splits the packed
// word into two real atomic fields (see SPEC_FULL.md, "Go memory model
// adaptation") because a Go value stored only as an integer is invisible
// to the garbage collector.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arcmap

import "sync/atomic"

// rawCell holds the pointer and outer-count fields shared by AtomicCell
// and NullableAtomicCell. ptr may be nil only for the nullable variant.
type rawCell[T any] struct {
	ptr   atomic.Pointer[inner[T]]
	outer atomic.Uint32
}

// load reads the current inner and reserves a debt slot for it, without
// touching inner's own counts.
func (c *rawCell[T]) load() *inner[T] {
	in := c.ptr.Load()
	old := c.outer.Add(1) - 1
	if old == outerCountMax {
		abort(ErrCodeOuterCountOverflow, msgOuterCountOverflow, map[string]interface{}{
			"old_outer_count": old,
		})
	}
	return in
}

// releaseHeld settles this cell's own bookkeeping for an inner it used to
// hold: basic is credited by outerCount (the accumulated Load debt) and
// strong is decremented by one (the cell's own stake, acquired when the
// inner was first stored via acquireForCell).
func releaseHeld[T any](in *inner[T], outerCount uint32) {
	if in == nil {
		return
	}
	in.release(-int32(outerCount), 1)
}

// storeAndRelease swaps in newIn and releases whatever was previously
// held, crediting any Loads that landed while it was current.
func (c *rawCell[T]) storeAndRelease(newIn *inner[T]) {
	old := c.ptr.Swap(newIn)
	count := c.outer.Swap(0)
	releaseHeld(old, count)
}

// swapAndRelease is like storeAndRelease, but the caller wants the
// previous inner back as a live reference rather than merely releasing
// it — so the accumulated debt is credited as outerCount+1, reserving one
// extra basic credit for the handle about to be handed back (the
// reference design calls this "the same effect as cloning the returned
// Arc before releasing").
func (c *rawCell[T]) swapAndRelease(newIn *inner[T]) *inner[T] {
	old := c.ptr.Swap(newIn)
	if old == nil {
		c.outer.Store(0)
		return nil
	}
	count := c.outer.Swap(0)
	releaseHeld(old, count+1)
	return old
}

// compareAndSwap replaces current with newIn if the cell still holds
// current, settling the accumulated debt on success. It does not undo
// any stake the caller already committed to newIn on failure — see
// AtomicCell.CompareAndSwap for that half of the protocol.
func (c *rawCell[T]) compareAndSwap(current, newIn *inner[T]) bool {
	if !c.ptr.CompareAndSwap(current, newIn) {
		return false
	}
	count := c.outer.Swap(0)
	releaseHeld(current, count)
	return true
}

// AtomicCell holds a non-nullable, atomically swappable Handle[T].
type AtomicCell[T any] struct {
	raw rawCell[T]
}

// NewAtomicCell creates a cell initially holding h.
func NewAtomicCell[T any](h Handle[T]) *AtomicCell[T] {
	c := &AtomicCell[T]{}
	c.raw.ptr.Store(acquireForCell(h))
	return c
}

// Load atomically loads the current Handle.
func (c *AtomicCell[T]) Load() Handle[T] {
	return Handle[T]{in: c.raw.load()}
}

// Store atomically replaces the current Handle with h, consuming h.
func (c *AtomicCell[T]) Store(h Handle[T]) {
	c.raw.storeAndRelease(acquireForCell(h))
}

// Swap atomically replaces the current Handle with h, consuming h, and
// returns the previous Handle.
func (c *AtomicCell[T]) Swap(h Handle[T]) Handle[T] {
	return Handle[T]{in: c.raw.swapAndRelease(acquireForCell(h))}
}

// CompareAndSwap replaces the current Handle with newH if it is currently
// current, consuming newH either way (matching the reference design,
// where the owned new-value parameter is acquired before the comparison
// and dropped at scope exit regardless of outcome). Returns whether the
// exchange happened.
func (c *AtomicCell[T]) CompareAndSwap(current, newH Handle[T]) bool {
	newIn := acquireForCell(newH)
	if c.raw.compareAndSwap(current.in, newIn) {
		return true
	}
	if newIn != nil {
		// Undo only the strong stake: the basic decrement from
		// acquireForCell stands, matching newH's implicit drop in the
		// reference design's failure path.
		newIn.release(0, 1)
	}
	return false
}

// Drop releases this cell's own stake in whatever it currently holds.
// Call this when a cell is being discarded (e.g. a bucket slot being
// torn down) and will never be stored to or loaded from again.
func (c *AtomicCell[T]) Drop() {
	c.raw.storeAndRelease(nil)
}

// NullableAtomicCell is an AtomicCell whose contents may be absent.
type NullableAtomicCell[T any] struct {
	raw rawCell[T]
}

// NewNullableAtomicCell creates an empty nullable cell.
func NewNullableAtomicCell[T any]() *NullableAtomicCell[T] {
	return &NullableAtomicCell[T]{}
}

// Load atomically loads the current Handle, if any.
func (c *NullableAtomicCell[T]) Load() (Handle[T], bool) {
	in := c.raw.load()
	if in == nil {
		return Handle[T]{}, false
	}
	return Handle[T]{in: in}, true
}

// Store atomically replaces the current contents. Pass ok=false to store
// an empty value.
func (c *NullableAtomicCell[T]) Store(h Handle[T], ok bool) {
	var in *inner[T]
	if ok {
		in = acquireForCell(h)
	}
	c.raw.storeAndRelease(in)
}

// TryStore replaces the current contents with (newH, newOK) only if the
// cell currently holds exactly (current, currentOK), consuming newH on
// either outcome. Returns whether the exchange happened. Named after
// original_source's Buckets/Resizer call sites (`try_store`), which use
// this to install a freshly allocated Resizer exactly once.
func (c *NullableAtomicCell[T]) TryStore(current Handle[T], currentOK bool, newH Handle[T], newOK bool) bool {
	var currentIn *inner[T]
	if currentOK {
		currentIn = current.in
	}
	var newIn *inner[T]
	if newOK {
		newIn = acquireForCell(newH)
	}
	if c.raw.compareAndSwap(currentIn, newIn) {
		return true
	}
	if newIn != nil {
		newIn.release(0, 1)
	}
	return false
}

// Drop releases this cell's own stake in whatever it currently holds.
func (c *NullableAtomicCell[T]) Drop() {
	c.raw.storeAndRelease(nil)
}
