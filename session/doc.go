// Package session orchestrates the processing of one therapy session's
// audio: transcription and diarization run in parallel behind circuit
// breakers and retry policies, their results are merged into a
// speaker-attributed transcript with resolved roles, and every run
// produces an Outcome delivered to the configured reporter.
//
// A failed diarization degrades the session instead of failing it: the
// transcript is delivered with unknown speakers. A failed transcription
// fails the session outright.
package session
