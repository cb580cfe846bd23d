// config.go: configuration for arcmap
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arcmap

import (
	"hash/maphash"

	"github.com/agilira/go-timecache"
)

// DefaultInitialBuckets is the bucket count a zero-value Config resolves
// to: a single virtual bucket, matching the reference HashMap::new().
const DefaultInitialBuckets = 1

// Config holds configuration parameters for a Map.
type Config struct {
	// InitialBuckets is the number of virtual buckets the table starts
	// with. Must be a power of two >= 1. Default: DefaultInitialBuckets.
	//
	// This cannot be changed after construction — see HotConfig for
	// which knobs can be live-reloaded.
	InitialBuckets int

	// HashSeed seeds the key hasher (hash/maphash.Comparable). Two Maps
	// with the same HashSeed hash equal keys identically; leave at zero
	// to have Validate pick a fresh random seed, which is the right choice unless
	// you need reproducible bucket placement across runs (e.g. tests).
	HashSeed maphash.Seed

	// Logger is used for resize lifecycle events. Abort diagnostics go
	// to the logger installed with SetAbortLogger, not this one.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides the current time used to measure the
	// Insert/Remove/Get latencies passed to MetricsCollector. If nil, a
	// default implementation backed by go-timecache is used.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics
	// (latencies, resize lifecycle). If nil, NoOpMetricsCollector is
	// used (zero overhead). Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate checks configuration parameters and applies sensible defaults.
// Returns an error only for values that cannot be silently normalized
// (a malformed InitialBuckets); everything else is defaulted the way the
// teacher's Config.Validate normalizes rather than rejects.
//
// This method is called automatically by NewMapWithConfig, so you
// typically don't need to call it manually. It's exposed so callers can
// inspect the normalized configuration ahead of time.
func (c *Config) Validate() error {
	if c.InitialBuckets == 0 {
		c.InitialBuckets = DefaultInitialBuckets
	}
	if c.InitialBuckets < 1 || c.InitialBuckets&(c.InitialBuckets-1) != 0 {
		return NewErrInvalidInitialBuckets(c.InitialBuckets)
	}

	if c.HashSeed == (maphash.Seed{}) {
		c.HashSeed = maphash.MakeSeed()
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults: a single
// starting bucket, a random hash seed, and no-op observability.
func DefaultConfig() Config {
	return Config{
		InitialBuckets:   DefaultInitialBuckets,
		HashSeed:         maphash.MakeSeed(),
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides fast time access compared to time.Now() with zero
// allocations, used here for operation-latency measurements rather than
// any TTL (arcmap entries never expire).
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
