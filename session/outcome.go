package session

import (
	"time"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/errors"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/roles"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcript"
)

// Status is the terminal state of one processed session.
type Status string

const (
	// StatusSucceeded means both analysis calls completed and the
	// transcript carries resolved speaker roles.
	StatusSucceeded Status = "succeeded"
	// StatusDegraded means the transcript was produced but speaker
	// attribution is unavailable; every segment is labeled unknown.
	StatusDegraded Status = "degraded_succeeded"
	// StatusFailed means no usable transcript was produced.
	StatusFailed Status = "failed"
)

// DiarizationStatus records what happened to the diarization branch.
type DiarizationStatus string

const (
	// DiarizationComplete means diarization succeeded and its result was used.
	DiarizationComplete DiarizationStatus = "complete"
	// DiarizationFailed means diarization failed after exhausting resilience.
	DiarizationFailed DiarizationStatus = "failed"
	// DiarizationSkipped means diarization succeeded but its result was
	// discarded because transcription failed.
	DiarizationSkipped DiarizationStatus = "skipped"
)

// Outcome is the complete record of one session's processing run. It is
// produced for every session, including failed ones, and handed to the
// outcome reporter before Process returns.
type Outcome struct {
	// ID uniquely identifies this processing run.
	ID string `json:"id"`
	// SessionID is the session the audio belongs to.
	SessionID string `json:"session_id"`
	// Status is the terminal state of the run.
	Status Status `json:"status"`
	// Transcript is the speaker-attributed transcript. Empty when failed.
	Transcript []transcript.Segment `json:"transcript,omitempty"`
	// Roles is the role-resolution result. Nil unless fully succeeded.
	Roles *roles.Result `json:"roles,omitempty"`
	// Diarization records the fate of the diarization branch.
	Diarization DiarizationStatus `json:"diarization"`
	// ErrorCode classifies the failure, if any.
	ErrorCode errors.ErrorCode `json:"error_code,omitempty"`
	// ErrorMessage is the failure description, if any.
	ErrorMessage string `json:"error_message,omitempty"`
	// StartedAt is when processing began.
	StartedAt time.Time `json:"started_at"`
	// CompletedAt is when processing finished.
	CompletedAt time.Time `json:"completed_at"`
}

// Duration returns the end-to-end processing time.
func (o *Outcome) Duration() time.Duration {
	return o.CompletedAt.Sub(o.StartedAt)
}
