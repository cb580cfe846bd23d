// arc.go: differential reference counting for shared-ownership values.
//
// Ported from original_source/src/atomic_arc/inner.rs. Inner packs a
// basic count (outstanding Handles) and a strong count (outstanding
// AtomicCells) into one 64-bit word so a release can decrement both in a
// single atomic RMW — the same trick the reference design uses, and safe
// here because inner is always reached through a real *inner[T] pointer,
// never smuggled through a bare integer (contrast with AtomicCell's ptr
// field in cell.go, which the Go port keeps separate from the outer
// count for exactly that reason; see SPEC_FULL.md).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arcmap

import "sync/atomic"

const (
	maxBasicCount  = int32(1<<31 - 1)
	minBasicCount  = -int32(1<<31 - 1) - 1
	maxStrongCount = uint32(1<<32 - 1)
)

// inner is the heap allocation shared by every Handle[T] and AtomicCell[T]
// referencing a given value.
type inner[T any] struct {
	// counts packs: bits 63-32 = basic (signed, i32), bits 31-0 = strong
	// (unsigned, u32).
	counts atomic.Uint64
	value  T
}

func newInner[T any](value T) *inner[T] {
	in := &inner[T]{value: value}
	in.counts.Store(1 << 32) // basic = 1, strong = 0
	return in
}

// basicAcquire increments the basic count by one, as Handle.Duplicate
// (Arc::clone) does.
func (in *inner[T]) basicAcquire() {
	old := in.counts.Add(1 << 32)
	oldBasic := int32((old - (1 << 32)) >> 32)
	if oldBasic == maxBasicCount {
		abort(ErrCodeBasicCountOverflow, msgBasicCountOverflow, map[string]interface{}{
			"old_basic_count": oldBasic,
		})
	}
}

// strongAcquire increments the strong count by one, as an AtomicCell
// taking ownership of this inner does.
func (in *inner[T]) strongAcquire() {
	old := in.counts.Add(1)
	oldStrong := uint32(old - 1)
	if oldStrong == maxStrongCount {
		abort(ErrCodeStrongCountOverflow, msgStrongCountOverflow, map[string]interface{}{
			"old_strong_count": oldStrong,
		})
	}
}

// release subtracts basic from the basic count and strong from the
// strong count in a single atomic RMW, firing the wrapped value's
// Release hook (if any) the moment both fields reach exactly zero.
// basic may be negative: a cell crediting back accumulated Loads (see
// cell.go) adds to basic by passing a negative value here.
func (in *inner[T]) release(basic int32, strong uint32) {
	delta := uint64(strong) | (uint64(uint32(basic)) << 32)
	newCounts := in.counts.Add(-delta)
	oldCounts := newCounts + delta
	oldBasic := int32(oldCounts >> 32)
	oldStrong := uint32(oldCounts)

	switch {
	case oldBasic > maxBasicCount+min(basic, 0):
		abort(ErrCodeBasicCountOverflow, msgBasicCountOverflow, map[string]interface{}{
			"old_basic_count": oldBasic, "delta": basic,
		})
	case oldBasic < minBasicCount+max(basic, 0):
		abort(ErrCodeBasicCountOverflow, msgBasicCountOverflow, map[string]interface{}{
			"old_basic_count": oldBasic, "delta": basic,
		})
	case oldBasic == basic && oldStrong == strong:
		if rel, ok := any(in.value).(Releasable); ok {
			rel.Release()
		}
	}
}

// Releasable is an optional interface a value type may implement to run
// cleanup when the last Handle/AtomicCell referencing it is released —
// the closest Go analogue to Rust's Drop for the wrapped value. Most
// values (plain data) don't need this; it exists for values that own an
// external resource (a file descriptor, a connection) that must be
// closed deterministically rather than left to the garbage collector.
type Releasable interface {
	Release()
}

// Handle is a shared-ownership reference to a T, analogous to Rust's
// Arc<T>. The zero value is invalid; construct one with NewHandle.
//
// A Handle is not itself safe for concurrent use by multiple goroutines
// calling Drop — exactly one goroutine owns a given Handle value at a
// time, matching Rust move semantics. Read Get concurrently all you
// like; just don't double-Drop the same Handle.
type Handle[T any] struct {
	in *inner[T]
}

// NewHandle creates a new Handle owning value.
func NewHandle[T any](value T) Handle[T] {
	return Handle[T]{in: newInner(value)}
}

// IsValid reports whether h refers to a live allocation. The zero
// Handle[T]{} is invalid.
func (h Handle[T]) IsValid() bool {
	return h.in != nil
}

// Get returns the shared value.
func (h Handle[T]) Get() T {
	return h.in.value
}

// ref returns a pointer directly into the shared allocation, valid for as
// long as h (or any Handle/AtomicCell derived from it) is alive. Internal
// use only — map.go uses this to mutate through a Handle[bucketTable]/
// Handle[resizer] without an extra copy of the (large, atomics-bearing)
// value.
func (h Handle[T]) ref() *T {
	return &h.in.value
}

// Duplicate returns a new Handle sharing the same underlying value,
// incrementing the basic count (the Go analogue of Arc::clone — Go has
// no implicit Clone, so duplication is always this explicit call).
func (h Handle[T]) Duplicate() Handle[T] {
	h.in.basicAcquire()
	return Handle[T]{in: h.in}
}

// Drop releases this handle's ownership stake. h must not be used again
// after Drop; Go has no borrow checker to enforce this for you.
func (h Handle[T]) Drop() {
	h.in.release(1, 0)
}

// acquireForCell consumes h and returns its inner, leaving the net
// reference count unchanged: the cell acquires its own strong stake on
// inner, and h's basic stake is released immediately — together this
// mirrors Rust's AtomicArc::new/store/swap taking an owned Arc<T> by
// value (bumping strong via a borrow, then implicitly dropping the
// now-unused owned parameter at scope exit, which decrements basic).
func acquireForCell[T any](h Handle[T]) *inner[T] {
	if h.in == nil {
		return nil
	}
	h.in.strongAcquire()
	h.in.release(1, 0)
	return h.in
}
