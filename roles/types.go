package roles

import (
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcript"
)

// Role is the semantic label assigned to a speaker channel.
type Role string

const (
	// RoleClinician is the clinician side of the session.
	RoleClinician Role = "Clinician"
	// RoleClient is the client side of the session.
	RoleClient Role = "Client"
)

// Method identifies which heuristic decided the assignment.
type Method string

const (
	// MethodFirstSpeaker resolved roles from chronological order.
	MethodFirstSpeaker Method = "first_speaker"
	// MethodSpeakingRatio resolved roles from speaking-time ratios.
	MethodSpeakingRatio Method = "speaking_ratio"
	// MethodCombined means both heuristics agreed.
	MethodCombined Method = "combined"
)

// Assignment is the resolved role for one speaker channel.
type Assignment struct {
	// Channel is the raw diarization channel id.
	Channel string `json:"channel"`
	// Role is the assigned semantic role.
	Role Role `json:"role"`
	// Confidence is the assignment confidence in [0, 1].
	Confidence float64 `json:"confidence"`
	// SpeakingTime is the channel's total speaking time in seconds.
	SpeakingTime float64 `json:"speaking_time"`
	// SegmentCount is the number of segments attributed to the channel.
	SegmentCount int `json:"segment_count"`
}

// Result is the outcome of role resolution for one session.
// It is created once per session and immutable thereafter.
type Result struct {
	// Assignments maps channel id to its resolved role.
	Assignments map[string]Assignment `json:"assignments"`
	// Segments is the input segment list with channel ids replaced by
	// role labels; unresolvable segments pass through unchanged.
	Segments []transcript.Segment `json:"segments"`
	// Method is the heuristic that decided the assignment.
	Method Method `json:"method"`
	// Confidence is the overall resolution confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Statistics holds per-channel speaking statistics, derived in a single
// pass over the ordered segment list.
type Statistics struct {
	// Channel is the raw diarization channel id.
	Channel string
	// SpeakingTime is the channel's total speaking time in seconds.
	SpeakingTime float64
	// SegmentCount is the number of segments attributed to the channel.
	SegmentCount int
	// FirstIndex is the index of the channel's first appearance in the
	// segment sequence.
	FirstIndex int
}
