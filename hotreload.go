// hotreload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arcmap

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// HotConfig provides dynamic reload of the subset of a Map's runtime
// knobs that can change without invalidating an in-flight resize or the
// table's bucket layout: log verbosity and whether metrics are recorded.
// InitialBuckets and HashSeed are fixed at construction (see Config) and
// are not reloadable, for the same reason the teacher's own NewHotConfig
// doc comment gives for MaxSize: changing them means rebuilding the
// table, not patching a running one.
type HotConfig struct {
	watcher *argus.Watcher
	mu      sync.RWMutex
	level   logLevel

	baseLogger  Logger
	baseMetrics MetricsCollector
	logger      atomic.Pointer[Logger]
	metrics     atomic.Pointer[MetricsCollector]

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldLevel, newLevel logLevel)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// BaseLogger is the logger wrapped by the reloadable level filter.
	// If nil, NoOpLogger is used.
	BaseLogger Logger

	// BaseMetrics is the collector toggled on/off by the reloadable
	// metrics_enabled key. If nil, NoOpMetricsCollector is used.
	BaseMetrics MetricsCollector

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldLevel, newLevel logLevel)
}

type logLevel int

const (
	logLevelDebug logLevel = iota
	logLevelInfo
	logLevelWarn
	logLevelError
	logLevelSilent
)

func parseLogLevel(s string) (logLevel, bool) {
	switch s {
	case "debug":
		return logLevelDebug, true
	case "info":
		return logLevelInfo, true
	case "warn":
		return logLevelWarn, true
	case "error":
		return logLevelError, true
	case "silent":
		return logLevelSilent, true
	default:
		return 0, false
	}
}

// leveledLogger filters calls to an underlying Logger by minimum severity.
type leveledLogger struct {
	min  logLevel
	next Logger
}

func (l leveledLogger) Debug(msg string, keyvals ...interface{}) {
	if l.min <= logLevelDebug {
		l.next.Debug(msg, keyvals...)
	}
}
func (l leveledLogger) Info(msg string, keyvals ...interface{}) {
	if l.min <= logLevelInfo {
		l.next.Info(msg, keyvals...)
	}
}
func (l leveledLogger) Warn(msg string, keyvals ...interface{}) {
	if l.min <= logLevelWarn {
		l.next.Warn(msg, keyvals...)
	}
}
func (l leveledLogger) Error(msg string, keyvals ...interface{}) {
	if l.min <= logLevelError {
		l.next.Error(msg, keyvals...)
	}
}

// NewHotConfig creates a hot-reloadable logger/metrics pair and starts
// watching the configuration file immediately.
//
// Supported configuration keys (optionally nested under "arcmap"):
//   - log_level (string): one of debug, info, warn, error, silent
//   - metrics_enabled (bool): whether RecordInsert/RecordRemove/RecordGet/
//     resize-lifecycle calls reach BaseMetrics or a no-op
func NewHotConfig(opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.BaseLogger == nil {
		opts.BaseLogger = NoOpLogger{}
	}
	if opts.BaseMetrics == nil {
		opts.BaseMetrics = NoOpMetricsCollector{}
	}

	hc := &HotConfig{
		OnReload:    opts.OnReload,
		level:       logLevelInfo,
		baseLogger:  opts.BaseLogger,
		baseMetrics: opts.BaseMetrics,
	}
	initial := Logger(leveledLogger{min: logLevelInfo, next: opts.BaseLogger})
	hc.logger.Store(&initial)
	metrics := opts.BaseMetrics
	hc.metrics.Store(&metrics)

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// Logger returns the logger for the currently loaded level. The returned
// value does not change when the file is reloaded: a Map built with it in
// Config.Logger keeps that level. To follow later reloads, call Logger on
// every use from a thin wrapper.
func (hc *HotConfig) Logger() Logger {
	return *hc.logger.Load()
}

// Metrics returns the current reloadable metrics collector.
func (hc *HotConfig) Metrics() MetricsCollector {
	return *hc.metrics.Load()
}

func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldLevel := hc.level
	newLevel, metricsEnabled := hc.parseConfig(configData)
	hc.level = newLevel
	hc.mu.Unlock()

	newLogger := Logger(leveledLogger{min: newLevel, next: hc.baseLogger})
	hc.logger.Store(&newLogger)

	var newMetrics MetricsCollector = NoOpMetricsCollector{}
	if metricsEnabled {
		newMetrics = hc.baseMetrics
	}
	hc.metrics.Store(&newMetrics)

	if hc.OnReload != nil {
		hc.OnReload(oldLevel, newLevel)
	}
}

// parseConfig extracts the reloadable knobs from Argus config data,
// defaulting to info level with metrics enabled when keys are absent.
func (hc *HotConfig) parseConfig(data map[string]interface{}) (logLevel, bool) {
	section, ok := data["arcmap"].(map[string]interface{})
	if !ok {
		section = data
	}

	level := logLevelInfo
	if s, ok := section["log_level"].(string); ok {
		if parsed, ok := parseLogLevel(s); ok {
			level = parsed
		}
	}

	enabled := true
	if b, ok := section["metrics_enabled"].(bool); ok {
		enabled = b
	}

	return level, enabled
}
