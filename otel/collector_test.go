// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"testing"

	"github.com/agilira/arcmap"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestOTelMetricsCollector_Interface verifies OTelMetricsCollector implements arcmap.MetricsCollector
func TestOTelMetricsCollector_Interface(t *testing.T) {
	var _ arcmap.MetricsCollector = (*OTelMetricsCollector)(nil)
}

func TestNewOTelMetricsCollector(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Errorf("failed to shutdown provider: %v", err)
		}
	}()

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}
	if collector == nil {
		t.Fatal("NewOTelMetricsCollector() returned nil")
	}
}

func TestNewOTelMetricsCollector_NilProvider(t *testing.T) {
	collector, err := NewOTelMetricsCollector(nil)
	if err == nil {
		t.Fatal("NewOTelMetricsCollector(nil) should return an error")
	}
	if collector != nil {
		t.Fatal("NewOTelMetricsCollector(nil) should return a nil collector")
	}
}

func TestOTelMetricsCollector_RecordInsertRemoveGet(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordInsert(1000, true)
	collector.RecordInsert(500, false)
	collector.RecordRemove(750, true)
	collector.RecordGet(1200, true)
	collector.RecordGet(900, false)
	collector.RecordResizeStarted(1, 2)
	collector.RecordResizeChunkCopied()
	collector.RecordResizeCompleted()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("no scope metrics recorded")
	}

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}

	for _, want := range []string{
		"arcmap_insert_latency_ns",
		"arcmap_remove_latency_ns",
		"arcmap_get_latency_ns",
		"arcmap_get_hits_total",
		"arcmap_get_misses_total",
		"arcmap_inserts_total",
		"arcmap_replaces_total",
		"arcmap_removes_total",
		"arcmap_resizes_started_total",
		"arcmap_resize_chunks_copied_total",
		"arcmap_resizes_completed_total",
	} {
		if !names[want] {
			t.Errorf("expected metric %q to be recorded", want)
		}
	}
}

func TestOTelMetricsCollector_WithMeterName(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider, WithMeterName("custom/meter"))
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}
	if collector == nil {
		t.Fatal("expected a non-nil collector")
	}
}
