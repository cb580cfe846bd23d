// map.go: the top-level concurrent map and its cooperative-resize
// pending-update path.
//
// Ported from original_source/src/hash_map/mod.rs (HashMap/Buckets).
// The table itself lives in an AtomicCell so a finished resize can be
// installed with a single compare-and-swap; while a resize is
// in-flight, every writer replays its own update into the resizer's
// destination table (the "pending update" path) so the new table is
// never missing a write that landed after the resize started, and also
// chips away at copying the old table one marker-claimed chunk at a
// time.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arcmap

import (
	"hash/maphash"
	"sync/atomic"
)

// bucketTable is the current array of virtual buckets plus an optional
// in-progress resizer. Once installed, a table's own buckets array
// never changes size — growing replaces the whole bucketTable via
// Map.table's AtomicCell.
type bucketTable[K comparable, V any] struct {
	buckets []virtualBucket[K, V]
	resizer *NullableAtomicCell[resizer[K, V]]
}

func newBucketTable[K comparable, V any](size int) bucketTable[K, V] {
	return bucketTable[K, V]{
		buckets: make([]virtualBucket[K, V], size),
		resizer: NewNullableAtomicCell[resizer[K, V]](),
	}
}

func (t *bucketTable[K, V]) bucketFor(hash uint64) *virtualBucket[K, V] {
	return &t.buckets[hash&uint64(len(t.buckets)-1)]
}

// copyChunkTo copies every bucket at each index in chunk chunk's
// range into dst, returning the number of tombstones skipped. copyTo
// handles one bucket's own n slots, so this walks each root bucket's
// overflow chain and calls copyTo on every link.
func (t *bucketTable[K, V]) copyChunkTo(chunk int, dst *resizer[K, V]) uint64 {
	var removed uint64
	lower := chunk * chunkSize
	upper := lower + chunkSize
	if upper > len(t.buckets) {
		upper = len(t.buckets)
	}
	for j := lower; j < upper; j++ {
		for b := &t.buckets[j]; b != nil; b = b.next.Load() {
			removed += b.copyTo(dst)
		}
	}
	return removed
}

// Map is a concurrent, lock-free associative container from keys K to
// shared-ownership values V, with cooperative incremental resizing.
// The zero value is not usable; construct one with NewMap or
// NewMapWithConfig.
type Map[K comparable, V any] struct {
	table  *AtomicCell[bucketTable[K, V]]
	items  atomic.Int64
	config Config
}

// NewMap creates an empty map with default configuration.
func NewMap[K comparable, V any]() *Map[K, V] {
	m, err := NewMapWithConfig[K, V](DefaultConfig())
	if err != nil {
		// DefaultConfig always validates; a failure here means
		// DefaultConfig itself was broken, which is a programming error
		// in this package, not a caller mistake.
		panic(err)
	}
	return m
}

// NewMapWithConfig creates an empty map using cfg, which is validated
// (and defaulted) in place before use.
func NewMapWithConfig[K comparable, V any](cfg Config) (*Map[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Map[K, V]{
		table:  NewAtomicCell(NewHandle(newBucketTable[K, V](cfg.InitialBuckets))),
		config: cfg,
	}
	return m, nil
}

// hash computes the bucket hash for key, remapping the reserved
// empty-slot sentinel 0 to 1, the same substitution the reference
// design performs.
func (m *Map[K, V]) hash(key K) uint64 {
	h := maphash.Comparable(m.config.HashSeed, key)
	if h == 0 {
		return 1
	}
	return h
}

// Insert associates key with value, replacing any existing value for
// key. Safe for concurrent use with other Insert/Remove/Get calls.
func (m *Map[K, V]) Insert(key K, value V) {
	start := m.config.TimeProvider.Now()

	tableHandle := m.table.Load()
	table := tableHandle.ref()
	hash := m.hash(key)

	valueHandle := NewHandle(value)
	loadFactor := float64(m.items.Load()) / float64(len(table.buckets)*n)

	firstOutcome := table.bucketFor(hash).insert(hash, key, valueHandle.Duplicate(), true, loadFactor, 1)

	var newTable *bucketTable[K, V]
	var inserted bool

	if firstOutcome == insertOutcomeResizeNeeded {
		oldSize := len(table.buckets)
		newSize := oldSize * 2
		candidate := NewHandle(*newResizer[K, V](newSize, oldSize))
		if table.resizer.TryStore(Handle[resizer[K, V]]{}, false, candidate, true) {
			m.config.MetricsCollector.RecordResizeStarted(oldSize, newSize)
			m.config.Logger.Info("arcmap: resize started", "old_buckets", oldSize, "new_buckets", newSize)
		}

		rh, _ := table.resizer.Load()
		newTable, inserted = m.applyPendingInsert(table, rh, hash, key, valueHandle)
		rh.Drop()
	} else {
		inserted = firstOutcome == insertOutcomeInserted
		if rh, ok := table.resizer.Load(); ok {
			newTable = m.applyPendingReinsert(table, rh, hash, key, valueHandle)
			rh.Drop()
		} else {
			valueHandle.Drop()
		}
	}

	if inserted {
		m.items.Add(1)
	}

	if newTable != nil {
		m.table.CompareAndSwap(tableHandle, NewHandle(*newTable))
	}

	tableHandle.Drop()
	m.config.MetricsCollector.RecordInsert(m.config.TimeProvider.Now()-start, inserted)
}

// Remove deletes key's entry, if present. Safe for concurrent use.
// items is not decremented here — see Len and spec.md §3:
// it is a best-effort load-factor hint, credited back only as tombstones
// are dropped during a resize's chunk copy.
func (m *Map[K, V]) Remove(key K) {
	start := m.config.TimeProvider.Now()

	tableHandle := m.table.Load()
	table := tableHandle.ref()
	hash := m.hash(key)

	removed := table.bucketFor(hash).remove(hash, key)

	var newTable *bucketTable[K, V]
	if rh, ok := table.resizer.Load(); ok {
		newTable = m.applyPendingRemove(table, rh, hash, key)
		rh.Drop()
	}

	if newTable != nil {
		m.table.CompareAndSwap(tableHandle, NewHandle(*newTable))
	}

	tableHandle.Drop()
	m.config.MetricsCollector.RecordRemove(m.config.TimeProvider.Now()-start, removed)
}

// GetHandle returns the shared Handle currently stored for key,
// without copying V. Prefer this over Get when V is large or itself
// reference-counted (e.g. holds a Releasable resource) and the caller
// wants to share ownership rather than copy.
func (m *Map[K, V]) GetHandle(key K) (Handle[V], bool) {
	start := m.config.TimeProvider.Now()

	tableHandle := m.table.Load()
	table := tableHandle.ref()
	hash := m.hash(key)

	valueHandle, ok := table.bucketFor(hash).get(hash, key)
	tableHandle.Drop()

	m.config.MetricsCollector.RecordGet(m.config.TimeProvider.Now()-start, ok)
	return valueHandle, ok
}

// Get returns a copy of the value currently stored for key. Safe for
// concurrent use with Insert/Remove.
func (m *Map[K, V]) Get(key K) (V, bool) {
	h, ok := m.GetHandle(key)
	if !ok {
		var zero V
		return zero, false
	}
	v := h.Get()
	h.Drop()
	return v, true
}

// Has reports whether key currently has an entry.
func (m *Map[K, V]) Has(key K) bool {
	h, ok := m.GetHandle(key)
	if ok {
		h.Drop()
	}
	return ok
}

// Len returns a best-effort count of live entries. It is a hint, not a
// linearizable size: concurrent inserts/removes and in-flight resize
// chunk copies may make it momentarily inexact, matching spec.md §3's
// characterization of items as "a load-factor hint."
func (m *Map[K, V]) Len() int {
	return int(m.items.Load())
}

// applyPendingInsert applies a brand-new key/value pair to the
// resizer's destination table (for the ResizeNeeded path, where the
// key never made it into the current table at all), then advances the
// chunked copy. Returns the finished table, if this call completed it,
// and whether the destination considered this a new key.
func (m *Map[K, V]) applyPendingInsert(old *bucketTable[K, V], rh Handle[resizer[K, V]], hash uint64, key K, value Handle[V]) (*bucketTable[K, V], bool) {
	r := rh.ref()
	outcome := r.bucketFor(hash).insert(hash, key, value, true, 0, 1)
	if outcome == insertOutcomeResizeNeeded {
		abort(ErrCodeResizeInvariant, msgResizeInvariant, map[string]interface{}{"hash": hash})
	}
	return m.finishResizeChunks(old, r), outcome == insertOutcomeInserted
}

// applyPendingReinsert replays a key/value pair that was already
// inserted into the current (live) table against the resizer's
// destination, so the new table observes every write made while the
// resize was in flight.
func (m *Map[K, V]) applyPendingReinsert(old *bucketTable[K, V], rh Handle[resizer[K, V]], hash uint64, key K, value Handle[V]) *bucketTable[K, V] {
	r := rh.ref()
	outcome := r.bucketFor(hash).insert(hash, key, value, true, 0, 1)
	if outcome == insertOutcomeResizeNeeded {
		abort(ErrCodeResizeInvariant, msgResizeInvariant, map[string]interface{}{"hash": hash})
	}
	return m.finishResizeChunks(old, r)
}

// applyPendingRemove tombstones key in the resizer's destination
// table, mirroring a Remove that happened while the resize is in
// flight.
func (m *Map[K, V]) applyPendingRemove(old *bucketTable[K, V], rh Handle[resizer[K, V]], hash uint64, key K) *bucketTable[K, V] {
	r := rh.ref()
	r.bucketFor(hash).remove(hash, key)
	return m.finishResizeChunks(old, r)
}

// finishResizeChunks claims and copies whatever chunks of old are
// still unclaimed in r, then — if every chunk is now done — returns a
// fresh bucketTable wrapping r's destination array with no resizer of
// its own. Multiple concurrent callers may all observe completion and
// each return a non-nil table; only one CompareAndSwap against
// Map.table will actually win, which is harmless (see
// Insert/Remove/DESIGN.md).
func (m *Map[K, V]) finishResizeChunks(old *bucketTable[K, V], r *resizer[K, V]) *bucketTable[K, V] {
	for chunk := range r.markers {
		if r.markers[chunk].CompareAndSwap(chunkUnclaimed, chunkInProgress) {
			removed := old.copyChunkTo(chunk, r)
			if removed > 0 {
				m.items.Add(-int64(removed))
			}
			m.config.MetricsCollector.RecordResizeChunkCopied()
			r.markers[chunk].Store(chunkDone)
		}
	}

	for i := range r.markers {
		if r.markers[i].Load() != chunkDone {
			return nil
		}
	}

	m.config.MetricsCollector.RecordResizeCompleted()
	finished := bucketTable[K, V]{
		buckets: r.buckets,
		resizer: NewNullableAtomicCell[resizer[K, V]](),
	}
	return &finished
}
