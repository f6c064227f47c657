package diarization

// Request holds parameters for a diarization call.
type Request struct {
	// AudioRef is the path or URI of the audio to diarize.
	AudioRef string `json:"audio_ref"`
	// NumSpeakers is the exact number of speakers (0 = auto-detect).
	NumSpeakers int `json:"num_speakers,omitempty"`
	// MinSpeakers is the minimum expected number of speakers.
	MinSpeakers int `json:"min_speakers,omitempty"`
	// MaxSpeakers is the maximum expected number of speakers.
	MaxSpeakers int `json:"max_speakers,omitempty"`
}

// Response holds the result of a diarization call.
type Response struct {
	// Segments contains speaker-attributed time segments, ordered by start.
	Segments []Segment `json:"segments"`
	// NumSpeakers is the number of speaker channels detected.
	NumSpeakers int `json:"num_speakers"`
}

// Segment represents a speaker-attributed time range. Speaker is an
// anonymous channel identifier (e.g. "SPEAKER_00"), not a semantic role.
type Segment struct {
	// Speaker is the anonymous speaker channel identifier.
	Speaker string `json:"speaker"`
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
}
