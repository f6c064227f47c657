// Package errors defines the error taxonomy shared across the
// audio-processing core.
//
// Errors fall into three layers:
//
//   - ServiceError: a classified transport-level failure from one of the
//     external analysis services, carrying the status code and a
//     retryable/non-retryable classification for the retry policy.
//   - CircuitOpenError and RetryExhaustedError: terminal forms produced by
//     the resilience layer when a call is rejected or gives up.
//   - TranscriptionError, DiarizationError and ParallelProcessingError:
//     session-level errors the orchestrator reports to its caller.
//
// Only these named kinds cross the proxy boundary into the orchestrator;
// raw transport errors never leak past classification.
package errors
