package transcript

import (
	"github.com/evolvedtroglodyte/TheraBridge-sub011/diarization"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcription"
)

// Align attributes each transcription text segment to the diarization
// speaker turn it overlaps the most, producing a speaker-labeled
// transcript ordered by start time. Text segments with no overlapping
// turn are labeled UnknownSpeaker.
func Align(text []transcription.Segment, turns []diarization.Segment) []Segment {
	out := make([]Segment, len(text))
	for i, ts := range text {
		out[i] = Segment{
			Start:   ts.Start,
			End:     ts.End,
			Speaker: dominantSpeaker(ts, turns),
			Text:    ts.Text,
		}
	}
	SortByStart(out)
	return out
}

// Unattributed converts transcription segments into transcript segments
// with every speaker labeled UnknownSpeaker. Used for degraded sessions
// where diarization is unavailable.
func Unattributed(text []transcription.Segment) []Segment {
	out := make([]Segment, len(text))
	for i, ts := range text {
		out[i] = Segment{
			Start:   ts.Start,
			End:     ts.End,
			Speaker: UnknownSpeaker,
			Text:    ts.Text,
		}
	}
	SortByStart(out)
	return out
}

// dominantSpeaker returns the speaker of the turn with the largest time
// overlap against the text segment, or UnknownSpeaker when nothing overlaps.
func dominantSpeaker(ts transcription.Segment, turns []diarization.Segment) string {
	best := UnknownSpeaker
	bestOverlap := 0.0
	for _, turn := range turns {
		o := overlap(ts.Start, ts.End, turn.Start, turn.End)
		if o > bestOverlap {
			bestOverlap = o
			best = turn.Speaker
		}
	}
	return best
}

func overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}
