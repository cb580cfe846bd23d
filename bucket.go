// bucket.go: virtual buckets — fixed-width open-addressed slot groups
// with a linked overflow chain.
//
// Ported from original_source/src/hash_map/virtual_bucket.rs. A
// virtual bucket holds n open-addressed (hash, entry) slots; once all
// n are occupied by non-matching entries, a single-linked next bucket
// extends the chain. Entries are never physically removed — Remove
// stores a null value into the entry's value cell, a tombstone that
// the next resize's copy drops.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arcmap

import "sync/atomic"

// entry pairs a key with a nullable cell holding its current value. A
// tombstoned entry is one whose value cell is empty.
type entry[K comparable, V any] struct {
	key   K
	value *NullableAtomicCell[V]
}

// virtualBucket is a fixed-size open-addressed slot group plus an
// overflow chain. hashes[j]==0 means slot j is empty; the pairing of
// hashes[j] and entries[j] transitions from empty to occupied in two
// steps (claim the hash, then install the entry), never the reverse.
type virtualBucket[K comparable, V any] struct {
	hashes  [n]atomic.Uint64
	entries [n]atomic.Pointer[entry[K, V]]
	next    atomic.Pointer[virtualBucket[K, V]]
}

// insertOutcome reports what insert did, mirroring the reference
// design's {inserted, replaced, resize-needed} three-way result.
type insertOutcome int

const (
	insertOutcomeInserted insertOutcome = iota
	insertOutcomeReplaced
	insertOutcomeResizeNeeded
)

// findHash scans hashes[start:n] for a slot matching hash, returning
// its index. Used by remove and get to visit every same-hash slot in
// order, not just the first.
func (b *virtualBucket[K, V]) findHash(hash uint64, start int) (int, bool) {
	for j := start; j < n; j++ {
		if b.hashes[j].Load() == hash {
			return j, true
		}
	}
	return 0, false
}

// insert walks this bucket's n slots, then recurses into the overflow
// chain, growing it if needed. value is consumed: on any path that
// stores it (new slot or in-place replace) ownership transfers to the
// entry's cell; on a path that doesn't use it (a losing race, or
// falling through to the next slot/bucket) it is handed on unchanged
// to the next attempt, and the caller never reclaims it itself.
func (b *virtualBucket[K, V]) insert(hash uint64, key K, value Handle[V], isNewItem bool, loadFactor float64, depth int) insertOutcome {
	for j := 0; j < n; j++ {
		e := b.entries[j].Load()
		if e == nil {
			if !b.hashes[j].CompareAndSwap(0, hash) && b.hashes[j].Load() != hash {
				continue
			}

			candidate := &entry[K, V]{key: key, value: NewNullableAtomicCell[V]()}
			candidate.value.Store(value, true)

			if b.entries[j].CompareAndSwap(nil, candidate) {
				return insertOutcomeInserted
			}

			// Lost the race for this slot: recover our value back out of
			// the abandoned candidate (net reference-count change zero —
			// see arc.go/cell.go) so it can be tried against whichever
			// entry actually won, or carried to the next slot.
			recovered, _ := candidate.value.Load()
			candidate.value.Drop()
			value = recovered
			e = b.entries[j].Load()
		}

		if b.hashes[j].Load() != hash || e.key != key {
			continue
		}
		if !isNewItem {
			// Copy-path replay against an entry that already exists at the
			// destination: value is not stored, and — matching the
			// reference design's implicit Drop of an unmoved owned Arc
			// parameter — its stake is released here rather than left
			// dangling.
			value.Drop()
			return insertOutcomeReplaced
		}
		e.value.Store(value, true)
		return insertOutcomeReplaced
	}

	if loadFactor >= minLoadFactorForResize && depth >= depthThreshold {
		// Bucket and chain are full and growing further isn't worth it:
		// value is handed back up via an explicit release, mirroring the
		// reference design's implicit Drop of the unmoved owned parameter.
		value.Drop()
		return insertOutcomeResizeNeeded
	}

	next := b.next.Load()
	if next == nil {
		candidate := &virtualBucket[K, V]{}
		if b.next.CompareAndSwap(nil, candidate) {
			next = candidate
		} else {
			next = b.next.Load()
		}
	}
	return next.insert(hash, key, value, isNewItem, loadFactor, depth+1)
}

// remove scans this bucket's slots for (hash, key) and tombstones the
// first match (storing an empty value into its cell), then stops.
// Reports whether a live entry was found and tombstoned.
func (b *virtualBucket[K, V]) remove(hash uint64, key K) bool {
	start := 0
	for {
		pos, found := b.findHash(hash, start)
		if !found {
			break
		}
		if e := b.entries[pos].Load(); e != nil && e.key == key {
			if _, ok := e.value.Load(); ok {
				e.value.Store(Handle[V]{}, false)
				return true
			}
			return false
		}
		start = pos + 1
	}

	if next := b.next.Load(); next != nil {
		return next.remove(hash, key)
	}
	return false
}

// get scans this bucket's slots for (hash, key), returning the stored
// value handle (absent for a tombstoned entry) or recursing into the
// overflow chain on a full miss.
func (b *virtualBucket[K, V]) get(hash uint64, key K) (Handle[V], bool) {
	start := 0
	for {
		pos, found := b.findHash(hash, start)
		if !found {
			break
		}
		if e := b.entries[pos].Load(); e != nil && e.key == key {
			return e.value.Load()
		}
		start = pos + 1
	}

	if next := b.next.Load(); next != nil {
		return next.get(hash, key)
	}
	return Handle[V]{}, false
}

// copyTo migrates every live entry in this bucket (but not its
// overflow chain — the caller visits chain links as separate buckets,
// see bucketTable.copyChunkTo) into dst, returning the number of
// tombstones it skipped so the caller can credit them back against the
// map's live-item hint.
func (b *virtualBucket[K, V]) copyTo(dst *resizer[K, V]) uint64 {
	var removed uint64
	for j := 0; j < n; j++ {
		e := b.entries[j].Load()
		if e == nil {
			continue
		}
		value, ok := e.value.Load()
		if !ok {
			removed++
			continue
		}
		hash := b.hashes[j].Load()
		dst.bucketFor(hash).insert(hash, e.key, value, false, 0, 1)
	}
	return removed
}
