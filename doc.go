// Package arcmap provides a lock-free, concurrent in-memory associative
// container built on a custom atomically-swappable reference-counted
// smart pointer.
//
// # Overview
//
// Two pieces make up the package:
//
//   - Handle / AtomicCell: a shared-ownership handle to an immutable value
//     (Handle[T], analogous to Rust's Arc<T>) and a cell that holds one
//     atomically (AtomicCell[T] / NullableAtomicCell[T]), supporting
//     atomic load/store/swap/compare-and-swap without double-word
//     atomics.
//   - Map[K, V]: a concurrent mapping from keys to shared-ownership
//     values, with concurrent Insert/Remove/Get and cooperative
//     incremental resizing triggered by load factor.
//
// # Differential reference counting
//
// Each value lives in an inner record holding a packed 64-bit word of
// two counts: a "basic" count of outstanding Handles, and a "strong"
// count of outstanding AtomicCells that reference it. A cell's Load does
// not touch the inner record's counts at all — it reserves a slot in a
// transient, per-cell "outer count" instead, deferring the bookkeeping
// until the cell is next written. This lets Load complete as a single
// atomic operation while Store/Swap settle the accumulated debt in one
// release. See SPEC_FULL.md and DESIGN.md for the full rationale, and
// for how this Go port departs from the reference design's raw pointer
// packing (which is unsafe under a tracing garbage collector).
//
// # Quick start
//
//	m := arcmap.NewMap[string, int]()
//	m.Insert("a", 1)
//	if v, ok := m.Get("a"); ok {
//	    fmt.Println(v) // 1
//	}
//	m.Remove("a")
//
// # Non-goals
//
// No blocking APIs, no iteration, no weak references, no hazard-pointer
// or epoch-based reclamation, no shrinking, no strict (only amortized)
// load-factor bound, no 32-bit or non-little-endian targets.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arcmap
