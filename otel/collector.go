// Package otel provides OpenTelemetry integration for arcmap metrics.
//
// This package implements the arcmap.MetricsCollector interface using
// OpenTelemetry, enabling percentile calculation (p50, p95, p99) on
// Insert/Remove/Get latencies and counters for the cooperative resize
// lifecycle.
//
// # Usage
//
//	import (
//	    "github.com/agilira/arcmap"
//	    arcmapotel "github.com/agilira/arcmap/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, _ := arcmapotel.NewOTelMetricsCollector(provider)
//
//	cfg := arcmap.DefaultConfig()
//	cfg.MetricsCollector = collector
//	m, _ := arcmap.NewMapWithConfig[string, int](cfg)
//
// # Metrics Exposed
//
//   - arcmap_insert_latency_ns / arcmap_remove_latency_ns / arcmap_get_latency_ns
//   - arcmap_get_hits_total / arcmap_get_misses_total
//   - arcmap_inserts_total / arcmap_replaces_total / arcmap_removes_total
//   - arcmap_resizes_started_total / arcmap_resize_chunks_copied_total / arcmap_resizes_completed_total
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/arcmap"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements arcmap.MetricsCollector using
// OpenTelemetry.
//
// Thread-safety: safe for concurrent use by multiple goroutines. The
// underlying OTEL instruments are thread-safe and lock-free.
type OTelMetricsCollector struct {
	insertLatency metric.Int64Histogram
	removeLatency metric.Int64Histogram
	getLatency    metric.Int64Histogram

	hits     metric.Int64Counter
	misses   metric.Int64Counter
	inserts  metric.Int64Counter
	replaces metric.Int64Counter
	removes  metric.Int64Counter

	resizesStarted   metric.Int64Counter
	resizeChunks     metric.Int64Counter
	resizesCompleted metric.Int64Counter
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/arcmap"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name. Useful for distinguishing
// metrics from multiple Map instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
// provider must not be nil.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/arcmap"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	c := &OTelMetricsCollector{}

	var err error
	if c.insertLatency, err = meter.Int64Histogram("arcmap_insert_latency_ns",
		metric.WithDescription("Latency of Insert operations in nanoseconds"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.removeLatency, err = meter.Int64Histogram("arcmap_remove_latency_ns",
		metric.WithDescription("Latency of Remove operations in nanoseconds"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.getLatency, err = meter.Int64Histogram("arcmap_get_latency_ns",
		metric.WithDescription("Latency of Get operations in nanoseconds"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.hits, err = meter.Int64Counter("arcmap_get_hits_total",
		metric.WithDescription("Total number of Get hits")); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter("arcmap_get_misses_total",
		metric.WithDescription("Total number of Get misses")); err != nil {
		return nil, err
	}
	if c.inserts, err = meter.Int64Counter("arcmap_inserts_total",
		metric.WithDescription("Total number of Insert calls that added a new key")); err != nil {
		return nil, err
	}
	if c.replaces, err = meter.Int64Counter("arcmap_replaces_total",
		metric.WithDescription("Total number of Insert calls that replaced an existing key's value")); err != nil {
		return nil, err
	}
	if c.removes, err = meter.Int64Counter("arcmap_removes_total",
		metric.WithDescription("Total number of Remove calls that removed an existing key")); err != nil {
		return nil, err
	}
	if c.resizesStarted, err = meter.Int64Counter("arcmap_resizes_started_total",
		metric.WithDescription("Total number of cooperative resizes started")); err != nil {
		return nil, err
	}
	if c.resizeChunks, err = meter.Int64Counter("arcmap_resize_chunks_copied_total",
		metric.WithDescription("Total number of resize chunks copied")); err != nil {
		return nil, err
	}
	if c.resizesCompleted, err = meter.Int64Counter("arcmap_resizes_completed_total",
		metric.WithDescription("Total number of cooperative resizes completed")); err != nil {
		return nil, err
	}

	return c, nil
}

// RecordInsert records an Insert operation's latency and whether it added
// a new key versus replacing an existing one.
func (c *OTelMetricsCollector) RecordInsert(latencyNs int64, inserted bool) {
	ctx := context.Background()
	c.insertLatency.Record(ctx, latencyNs)
	if inserted {
		c.inserts.Add(ctx, 1)
	} else {
		c.replaces.Add(ctx, 1)
	}
}

// RecordRemove records a Remove operation's latency and outcome.
func (c *OTelMetricsCollector) RecordRemove(latencyNs int64, removed bool) {
	ctx := context.Background()
	c.removeLatency.Record(ctx, latencyNs)
	if removed {
		c.removes.Add(ctx, 1)
	}
}

// RecordGet records a Get operation's latency and hit/miss outcome.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordResizeStarted records a new cooperative resize beginning.
func (c *OTelMetricsCollector) RecordResizeStarted(oldBuckets, newBuckets int) {
	c.resizesStarted.Add(context.Background(), 1)
}

// RecordResizeChunkCopied records one resizer chunk being copied.
func (c *OTelMetricsCollector) RecordResizeChunkCopied() {
	c.resizeChunks.Add(context.Background(), 1)
}

// RecordResizeCompleted records a resize finishing.
func (c *OTelMetricsCollector) RecordResizeCompleted() {
	c.resizesCompleted.Add(context.Background(), 1)
}

// Compile-time interface check
var _ arcmap.MetricsCollector = (*OTelMetricsCollector)(nil)
