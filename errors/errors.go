// Package errors provides the error taxonomy for the audio-processing core.
// It implements structured error types with error codes and retryable
// detection, plus the session-level errors the orchestrator reports.
package errors

import (
	"errors"
	"fmt"
)

// ServiceError is a classified error from an external analysis service.
// It carries the HTTP-like status code and classification needed by the
// retry policy to decide whether another attempt is worthwhile.
type ServiceError struct {
	// Service names the originating service ("transcription" or "diarization").
	Service string `json:"service"`
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int `json:"status_code,omitempty"`
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Service, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Service, e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *ServiceError) Unwrap() error { return e.Cause }

// TranscriptionError is the fatal session error: transcription produced no
// usable transcript, so the session has nothing to deliver.
type TranscriptionError struct {
	SessionID string
	Cause     error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed for session %s: %v", e.SessionID, e.Cause)
}

func (e *TranscriptionError) Unwrap() error { return e.Cause }

// DiarizationError is the recoverable session error: speaker attribution is
// unavailable but the transcript itself is still usable.
type DiarizationError struct {
	SessionID string
	Cause     error
}

func (e *DiarizationError) Error() string {
	return fmt.Sprintf("diarization failed for session %s: %v", e.SessionID, e.Cause)
}

func (e *DiarizationError) Unwrap() error { return e.Cause }

// ParallelProcessingError wraps the causes of a total failure where both
// analysis calls failed for the same session.
type ParallelProcessingError struct {
	SessionID        string
	TranscriptionErr error
	DiarizationErr   error
}

func (e *ParallelProcessingError) Error() string {
	return fmt.Sprintf("parallel processing failed for session %s: transcription: %v; diarization: %v",
		e.SessionID, e.TranscriptionErr, e.DiarizationErr)
}

// Unwrap returns both causes so errors.Is/As can match either branch.
func (e *ParallelProcessingError) Unwrap() []error {
	return []error{e.TranscriptionErr, e.DiarizationErr}
}

// CircuitOpenError is returned when the circuit breaker rejects a call
// because the guarded service is considered unhealthy.
type CircuitOpenError struct {
	Service  string
	Failures int
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker open for %s after %d consecutive failures", e.Service, e.Failures)
}

// RetryExhaustedError is the terminal form of a retryable error after all
// attempts have been consumed.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error { return e.LastErr }

// IsRetryable reports whether err (or any error in its chain) is a
// transient failure worth retrying. Unclassified errors are treated as
// retryable so genuinely transient transport failures are not dropped
// after a single attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Retryable
	}
	var co *CircuitOpenError
	if errors.As(err, &co) {
		return false
	}
	var re *RetryExhaustedError
	if errors.As(err, &re) {
		return false
	}
	return true
}

// CodeOf extracts the most specific error code from err's chain, falling
// back to ErrCodeInternal for unclassified errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var pe *ParallelProcessingError
	if errors.As(err, &pe) {
		return ErrCodeParallelProcessingFailed
	}
	var te *TranscriptionError
	if errors.As(err, &te) {
		return ErrCodeTranscriptionFailed
	}
	var de *DiarizationError
	if errors.As(err, &de) {
		return ErrCodeDiarizationFailed
	}
	var co *CircuitOpenError
	if errors.As(err, &co) {
		return ErrCodeCircuitOpen
	}
	var re *RetryExhaustedError
	if errors.As(err, &re) {
		return ErrCodeRetryExhausted
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
