// Package diarization defines the speaker-diarization service interface
// and common types for the audio-processing core.
package diarization

import "context"

// Service is the interface diarization backends must implement.
type Service interface {
	// Name returns the backend's unique name.
	Name() string
	// IsAvailable checks if the backend is ready to handle requests.
	IsAvailable(ctx context.Context) bool
	// Diarize sends audio for speaker diarization and returns the result.
	// Failures are returned as classified *errors.ServiceError values.
	Diarize(ctx context.Context, req Request) (*Response, error)
}
