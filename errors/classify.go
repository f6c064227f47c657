package errors

import (
	"net/http"
	"strings"
)

// Message signatures used when no usable status code is present. The
// analysis sidecars are not fully consistent about status codes, so the
// classifier also inspects the error text.
var (
	retryableSignatures = map[ErrorCode][]string{
		ErrCodeRateLimited:        {"rate limit", "too many requests", "quota exceeded"},
		ErrCodeServiceUnavailable: {"service unavailable", "temporarily unavailable", "overloaded", "bad gateway"},
		ErrCodeTimeout:            {"timeout", "timed out", "deadline exceeded"},
		ErrCodeConnectionReset:    {"connection reset", "connection refused", "broken pipe", "eof"},
	}
	nonRetryableSignatures = map[ErrorCode][]string{
		ErrCodeInvalidAudio:      {"invalid audio", "malformed", "corrupt", "empty audio"},
		ErrCodeUnauthorized:      {"unauthorized", "invalid api key", "authentication", "forbidden"},
		ErrCodeUnsupportedFormat: {"unsupported format", "unsupported media", "unknown codec"},
	}
)

// Classify builds a ServiceError from an HTTP-like status code and message.
// Status code takes precedence; message signatures are the fallback for
// connection-level failures where no status is available. Unrecognized
// errors are classified retryable so a transient blip is not fatal.
func Classify(service string, statusCode int, message string, cause error) *ServiceError {
	code := classifyStatus(statusCode)
	if code == "" {
		code = classifyMessage(message)
	}
	if code == "" {
		code = ErrCodeServiceUnavailable
	}
	return &ServiceError{
		Service:    service,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Retryable:  IsRetryableCode(code),
		Cause:      cause,
	}
}

func classifyStatus(statusCode int) ErrorCode {
	switch {
	case statusCode == 0:
		return ""
	case statusCode == http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		return ErrCodeTimeout
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrCodeUnauthorized
	case statusCode == http.StatusNotFound:
		return ErrCodeNotFound
	case statusCode == http.StatusUnsupportedMediaType:
		return ErrCodeUnsupportedFormat
	case statusCode >= 400 && statusCode < 500:
		return ErrCodeInvalidAudio
	case statusCode >= 500:
		return ErrCodeServiceUnavailable
	default:
		return ""
	}
}

func classifyMessage(message string) ErrorCode {
	lower := strings.ToLower(message)
	for code, signatures := range nonRetryableSignatures {
		for _, sig := range signatures {
			if strings.Contains(lower, sig) {
				return code
			}
		}
	}
	for code, signatures := range retryableSignatures {
		for _, sig := range signatures {
			if strings.Contains(lower, sig) {
				return code
			}
		}
	}
	return ""
}
