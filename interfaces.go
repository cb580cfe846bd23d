// interfaces.go: public interfaces for arcmap
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arcmap

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MetricsCollector collects operation metrics for a Map: latencies for
// Insert/Remove/Get, and lifecycle events for the cooperative resize
// protocol. Implementations must be safe for concurrent use; the Map
// calls these synchronously on every hot-path operation, so a slow
// collector is a slow map.
type MetricsCollector interface {
	// RecordInsert records an Insert operation. inserted is false when
	// the key already existed and its value was replaced in place.
	RecordInsert(latencyNs int64, inserted bool)

	// RecordRemove records a Remove operation. removed is false when
	// the key was not present.
	RecordRemove(latencyNs int64, removed bool)

	// RecordGet records a Get operation. hit is true when the key was
	// found.
	RecordGet(latencyNs int64, hit bool)

	// RecordResizeStarted records the start of a new cooperative resize,
	// growing from oldBuckets to newBuckets.
	RecordResizeStarted(oldBuckets, newBuckets int)

	// RecordResizeChunkCopied records one resizer chunk (see resizer.go)
	// being copied by whichever goroutine's Insert/Remove claimed it.
	RecordResizeChunkCopied()

	// RecordResizeCompleted records a resize finishing and the old table
	// being retired.
	RecordResizeCompleted()
}

// NoOpMetricsCollector is a MetricsCollector that does nothing. Used as
// default so Map never has to nil-check its collector.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordInsert(latencyNs int64, inserted bool) {}
func (NoOpMetricsCollector) RecordRemove(latencyNs int64, removed bool)  {}
func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool)         {}
func (NoOpMetricsCollector) RecordResizeStarted(oldBuckets, newBuckets int) {}
func (NoOpMetricsCollector) RecordResizeChunkCopied()                    {}
func (NoOpMetricsCollector) RecordResizeCompleted()                     {}
