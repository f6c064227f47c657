// Package transcript defines the speaker-attributed transcript segment
// shared by the orchestrator and the role resolver, and the alignment of
// transcription text with diarization speaker turns.
package transcript

import "sort"

// UnknownSpeaker is the label applied to segments whose speaker channel
// could not be determined, including every segment of a degraded session
// where diarization failed.
const UnknownSpeaker = "Unknown Speaker"

// Segment is an immutable speaker-attributed portion of a transcript.
// Speaker holds a raw diarization channel id before role resolution and a
// semantic role afterwards.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Speaker is the channel id or resolved role label.
	Speaker string `json:"speaker"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
}

// Duration returns the speaking time covered by the segment.
func (s Segment) Duration() float64 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// SortByStart orders segments chronologically in place.
func SortByStart(segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
}
