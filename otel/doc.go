// Package otel provides OpenTelemetry integration for arcmap metrics.
//
// # Overview
//
// This package implements the arcmap.MetricsCollector interface using
// OpenTelemetry, enabling percentile calculation and multi-backend
// export (Prometheus, Jaeger, DataDog, Grafana) for Map operation
// latencies and resize lifecycle counters.
//
// The package is separate from the core module to keep arcmap itself
// free of OTEL dependencies: applications that don't need metrics don't
// pay for them.
//
// # Quick Start
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := arcmapotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := arcmap.DefaultConfig()
//	cfg.MetricsCollector = collector
//	m, _ := arcmap.NewMapWithConfig[string, User](cfg)
//
//	m.Insert("key", value)
//	m.Get("key")
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Metrics Exposed
//
// Histograms (with automatic percentiles):
//   - arcmap_insert_latency_ns
//   - arcmap_remove_latency_ns
//   - arcmap_get_latency_ns
//
// Counters:
//   - arcmap_get_hits_total / arcmap_get_misses_total
//   - arcmap_inserts_total / arcmap_replaces_total / arcmap_removes_total
//   - arcmap_resizes_started_total / arcmap_resize_chunks_copied_total / arcmap_resizes_completed_total
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│       arcmap.Map (core module)       │
//	│  • No OTEL dependencies              │
//	│  • MetricsCollector interface        │
//	│  • NoOpMetricsCollector (default)    │
//	└──────────────┬───────────────────────┘
//	               │ implements
//	               ▼
//	┌─────────────────────────────────────┐
//	│      arcmap/otel (this package)      │
//	│  • OTelMetricsCollector              │
//	│  • OTEL SDK dependencies             │
//	└──────────────┬───────────────────────┘
//	               │ exports to
//	               ▼
//	        Prometheus / Jaeger / DataDog
//
// # Thread Safety
//
// All methods are safe for concurrent use; the underlying OTEL
// instruments are lock-free.
package otel
