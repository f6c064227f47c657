package roles

import (
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcript"
)

// ComputeStatistics derives per-channel speaking statistics in a single
// pass over the ordered segment list. Segments with an empty or unknown
// speaker label are not attributed to any channel.
func ComputeStatistics(segments []transcript.Segment) map[string]*Statistics {
	stats := make(map[string]*Statistics)
	for i, seg := range segments {
		if seg.Speaker == "" || seg.Speaker == transcript.UnknownSpeaker {
			continue
		}
		st, ok := stats[seg.Speaker]
		if !ok {
			st = &Statistics{Channel: seg.Speaker, FirstIndex: i}
			stats[seg.Speaker] = st
		}
		st.SpeakingTime += seg.Duration()
		st.SegmentCount++
	}
	return stats
}

// totalSpeakingTime sums speaking time across all channels.
func totalSpeakingTime(stats map[string]*Statistics) float64 {
	var total float64
	for _, st := range stats {
		total += st.SpeakingTime
	}
	return total
}
