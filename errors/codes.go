package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Transport-level errors from the analysis services (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionReset indicates the connection was reset or refused.
	ErrCodeConnectionReset ErrorCode = "CONNECTION_RESET"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Input errors (non-retryable)
const (
	// ErrCodeInvalidAudio indicates the audio payload is malformed.
	ErrCodeInvalidAudio ErrorCode = "INVALID_AUDIO"
	// ErrCodeUnsupportedFormat indicates the audio format is not supported.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeUnauthorized indicates the service rejected the credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeNotFound indicates the referenced audio was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Session-level terminal errors
const (
	// ErrCodeTranscriptionFailed indicates transcription failed with no usable transcript.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeDiarizationFailed indicates diarization failed; the transcript is still usable.
	ErrCodeDiarizationFailed ErrorCode = "DIARIZATION_FAILED"
	// ErrCodeParallelProcessingFailed indicates both analysis calls failed.
	ErrCodeParallelProcessingFailed ErrorCode = "PARALLEL_PROCESSING_FAILED"
	// ErrCodeCircuitOpen indicates the circuit breaker rejected the call.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
	// ErrCodeRetryExhausted indicates a retryable error persisted through all attempts.
	ErrCodeRetryExhausted ErrorCode = "RETRY_EXHAUSTED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionReset:    true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeInvalidAudio:       false,
	ErrCodeUnsupportedFormat:  false,
	ErrCodeUnauthorized:       false,
	ErrCodeNotFound:           false,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
