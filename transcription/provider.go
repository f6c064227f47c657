// Package transcription defines the speech-to-text service interface and
// common types for the audio-processing core.
package transcription

import "context"

// Service is the interface transcription backends must implement.
type Service interface {
	// Name returns the backend's unique name.
	Name() string
	// IsAvailable checks if the backend is ready to handle requests.
	IsAvailable(ctx context.Context) bool
	// Transcribe sends audio for transcription and returns the result.
	// Failures are returned as classified *errors.ServiceError values.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
