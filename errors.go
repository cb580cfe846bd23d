// errors.go: structured error handling for arcmap configuration, plus the
// process-abort helper backing the count-overflow invariants.
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arcmap

import (
	goerrors "errors"
	"fmt"
	"sync/atomic"

	"github.com/agilira/go-errors"
)

// Error codes for arcmap operations
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig         errors.ErrorCode = "ARCMAP_INVALID_CONFIG"
	ErrCodeInvalidInitialBuckets errors.ErrorCode = "ARCMAP_INVALID_INITIAL_BUCKETS"
	ErrCodeInvalidHashSeed       errors.ErrorCode = "ARCMAP_INVALID_HASH_SEED"

	// Invariant violations (5xxx). These back a panic, not a returned
	// error: per spec.md §7, count overflow is unreachable in
	// well-behaved programs and aborts the process. Go has no
	// std::process::abort; an unrecovered panic is the closest
	// analogue, and still carries a coded, structured error value for
	// whatever crash reporting wraps it.
	ErrCodeBasicCountOverflow  errors.ErrorCode = "ARCMAP_BASIC_COUNT_OVERFLOW"
	ErrCodeStrongCountOverflow errors.ErrorCode = "ARCMAP_STRONG_COUNT_OVERFLOW"
	ErrCodeOuterCountOverflow  errors.ErrorCode = "ARCMAP_OUTER_COUNT_OVERFLOW"
	ErrCodeResizeInvariant     errors.ErrorCode = "ARCMAP_RESIZE_INVARIANT_VIOLATED"
	ErrCodePanicRecovered      errors.ErrorCode = "ARCMAP_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidInitialBuckets = "invalid initial bucket count: must be a power of two >= 1"
	msgInvalidHashSeed       = "invalid hash seed"
	msgBasicCountOverflow    = "handle basic count overflow"
	msgStrongCountOverflow   = "cell strong count overflow"
	msgOuterCountOverflow    = "cell outer (load) count overflow"
	msgResizeInvariant       = "resize invariant violated"
	msgPanicRecovered        = "panic recovered in arcmap operation"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidInitialBuckets creates an error for a non-power-of-two or
// non-positive InitialBuckets configuration value.
func NewErrInvalidInitialBuckets(value int) error {
	return errors.NewWithContext(ErrCodeInvalidInitialBuckets, msgInvalidInitialBuckets, map[string]interface{}{
		"provided_value": value,
	})
}

// NewErrInvalidHashSeed creates an error for a malformed HashSeed.
func NewErrInvalidHashSeed(reason string) error {
	return errors.NewWithField(ErrCodeInvalidHashSeed, msgInvalidHashSeed, "reason", reason)
}

// =============================================================================
// INTERNAL / INVARIANT ERRORS
// =============================================================================

// NewErrPanicRecovered creates an error when a panic is recovered at an API
// boundary (used by tests exercising abort()).
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsConfigError checks if error is a configuration error.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidInitialBuckets || code == ErrCodeInvalidHashSeed
	}
	return false
}

// IsInvariantViolation checks if error represents a count-overflow or
// resize-invariant abort condition.
func IsInvariantViolation(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeBasicCountOverflow || code == ErrCodeStrongCountOverflow ||
			code == ErrCodeOuterCountOverflow || code == ErrCodeResizeInvariant
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var arcmapErr *errors.Error
	if goerrors.As(err, &arcmapErr) {
		return arcmapErr.Context
	}
	return nil
}

// =============================================================================
// PROCESS ABORT
// =============================================================================

// abortLoggerBox works around atomic.Value requiring a consistently typed
// value across Store calls when the stored type is an interface.
type abortLoggerBox struct {
	Logger
}

var abortLoggerValue atomic.Value

func init() {
	abortLoggerValue.Store(abortLoggerBox{Logger: NoOpLogger{}})
}

// SetAbortLogger installs the logger used to record diagnostics immediately
// before a count-overflow panic. These conditions should never occur in a
// correctly used program (spec.md §7: they imply billions of leaked
// Handles or AtomicCells); the hook exists so a long-running service can
// at least emit a structured log line before the process unwinds. Passing
// nil restores the no-op logger.
func SetAbortLogger(l Logger) {
	if l == nil {
		l = NoOpLogger{}
	}
	abortLoggerValue.Store(abortLoggerBox{Logger: l})
}

func currentAbortLogger() Logger {
	return abortLoggerValue.Load().(abortLoggerBox).Logger
}

// abort logs a structured diagnostic and panics with a coded error. It
// backs every count-overflow invariant in arc.go and cell.go.
func abort(code errors.ErrorCode, msg string, context map[string]interface{}) {
	currentAbortLogger().Error(msg, flattenContext(context)...)
	panic(errors.NewWithContext(code, msg, context))
}

func flattenContext(context map[string]interface{}) []interface{} {
	kv := make([]interface{}, 0, len(context)*2)
	for k, v := range context {
		kv = append(kv, k, fmt.Sprintf("%v", v))
	}
	return kv
}
