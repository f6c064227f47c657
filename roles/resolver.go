// Package roles infers semantic speaker roles (clinician/client) from
// anonymous diarization channels using combined speaking-time and
// chronology heuristics.
package roles

import (
	"math"
	"sort"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/logger"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcript"
)

// Config holds the heuristic tuning for role resolution.
type Config struct {
	// RatioLow is the lower bound of the expected clinician speaking share.
	RatioLow float64 `yaml:"ratio_low" mapstructure:"ratio_low" validate:"gte=0,lte=1"`
	// RatioHigh is the upper bound of the expected clinician speaking share.
	RatioHigh float64 `yaml:"ratio_high" mapstructure:"ratio_high" validate:"gte=0,lte=1,gtefield=RatioLow"`
	// RatioMidpoint is the ideal clinician speaking share.
	RatioMidpoint float64 `yaml:"ratio_midpoint" mapstructure:"ratio_midpoint" validate:"gte=0,lte=1"`
}

// DefaultConfig returns the heuristic defaults: clinicians are expected
// to speak 25-45% of the session, ideally 35%.
func DefaultConfig() Config {
	return Config{
		RatioLow:      0.25,
		RatioHigh:     0.45,
		RatioMidpoint: 0.35,
	}
}

// ApplyDefaults fills zero values with the standard heuristic bounds.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.RatioLow == 0 && c.RatioHigh == 0 {
		c.RatioLow = def.RatioLow
		c.RatioHigh = def.RatioHigh
	}
	if c.RatioMidpoint == 0 {
		c.RatioMidpoint = def.RatioMidpoint
	}
}

// Resolver assigns semantic roles to anonymous speaker channels.
// Resolve is a pure function of its input: identical segment lists always
// produce identical results.
type Resolver struct {
	cfg Config
	log *logger.Logger
}

// NewResolver creates a role resolver.
func NewResolver(cfg Config, log *logger.Logger) *Resolver {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Resolver{
		cfg: cfg,
		log: log.WithComponent("roles"),
	}
}

// hypothesis is one heuristic's candidate clinician channel.
type hypothesis struct {
	channel    string
	confidence float64
	ok         bool
}

// Resolve assigns roles to the channels present in segments.
//
// Two-channel sessions combine a first-speaker heuristic (sessions
// conventionally open with the clinician) and a speaking-ratio heuristic
// (clinicians talk less, ideally 25-45% of the session). Sessions with
// three or more channels are resolved over the two most active channels;
// the rest are assigned the client role at low confidence.
func (r *Resolver) Resolve(segments []transcript.Segment) Result {
	stats := ComputeStatistics(segments)

	// Degenerate: no identifiable channels.
	if len(stats) == 0 {
		return Result{
			Assignments: map[string]Assignment{},
			Segments:    rewrite(segments, nil),
			Method:      MethodFirstSpeaker,
			Confidence:  0,
		}
	}

	// Degenerate: a single channel is most likely a self-recorded
	// monologue, so it gets the client role.
	if len(stats) == 1 {
		var only *Statistics
		for _, st := range stats {
			only = st
		}
		assignments := map[string]Assignment{
			only.Channel: {
				Channel:      only.Channel,
				Role:         RoleClient,
				Confidence:   0.7,
				SpeakingTime: only.SpeakingTime,
				SegmentCount: only.SegmentCount,
			},
		}
		return Result{
			Assignments: assignments,
			Segments:    rewrite(segments, assignments),
			Method:      MethodFirstSpeaker,
			Confidence:  0.7,
		}
	}

	primary, secondary, extras := rankChannels(stats)

	first := r.firstSpeakerHypothesis(primary, secondary)
	ratio := r.ratioHypothesis(stats, primary, secondary)

	clinician, method, confidence := r.combine(first, ratio, primary, secondary)

	assignments := make(map[string]Assignment, len(stats))
	for _, st := range []*Statistics{primary, secondary} {
		role := RoleClient
		if st.Channel == clinician {
			role = RoleClinician
		}
		assignments[st.Channel] = Assignment{
			Channel:      st.Channel,
			Role:         role,
			Confidence:   confidence,
			SpeakingTime: st.SpeakingTime,
			SegmentCount: st.SegmentCount,
		}
	}
	// Channels beyond the two most active cannot be the clinician under
	// the two-party heuristics; they are labeled client at low confidence.
	for _, st := range extras {
		assignments[st.Channel] = Assignment{
			Channel:      st.Channel,
			Role:         RoleClient,
			Confidence:   0.3,
			SpeakingTime: st.SpeakingTime,
			SegmentCount: st.SegmentCount,
		}
	}

	r.log.Debug("roles resolved", logger.Fields(
		logger.FieldMethod, string(method),
		logger.FieldConfidence, confidence,
		"channels", len(stats),
	))

	return Result{
		Assignments: assignments,
		Segments:    rewrite(segments, assignments),
		Method:      method,
		Confidence:  confidence,
	}
}

// firstSpeakerHypothesis nominates the chronologically first channel as
// the clinician.
func (r *Resolver) firstSpeakerHypothesis(primary, secondary *Statistics) hypothesis {
	first := primary
	if secondary.FirstIndex < first.FirstIndex {
		first = secondary
	}
	return hypothesis{channel: first.Channel, confidence: 0.7, ok: true}
}

// ratioHypothesis nominates a clinician from speaking-time shares. If
// exactly one of the two channels falls inside the expected clinician
// range it wins, with confidence growing toward the midpoint; otherwise
// the quieter channel wins, with confidence growing with the separation
// between the two shares.
func (r *Resolver) ratioHypothesis(stats map[string]*Statistics, primary, secondary *Statistics) hypothesis {
	total := totalSpeakingTime(stats)
	if total <= 0 {
		return hypothesis{}
	}

	ratioPrimary := primary.SpeakingTime / total
	ratioSecondary := secondary.SpeakingTime / total

	inRangePrimary := r.inRange(ratioPrimary)
	inRangeSecondary := r.inRange(ratioSecondary)

	if inRangePrimary != inRangeSecondary {
		pick, ratio := primary, ratioPrimary
		if inRangeSecondary {
			pick, ratio = secondary, ratioSecondary
		}
		confidence := math.Max(0.5, 1-2*math.Abs(ratio-r.cfg.RatioMidpoint))
		return hypothesis{channel: pick.Channel, confidence: confidence, ok: true}
	}

	// Both or neither in range: the quieter channel is the likelier
	// clinician, with confidence from the separation of the two shares.
	pick := quieter(primary, secondary)
	confidence := math.Min(0.7, 1.5*math.Abs(ratioPrimary-ratioSecondary))
	return hypothesis{channel: pick.Channel, confidence: confidence, ok: true}
}

// combine merges the two hypotheses with an explicit priority order:
// agreement beats a confident ratio, which beats chronology, which beats
// the speaking-time tie-break.
func (r *Resolver) combine(first, ratio hypothesis, primary, secondary *Statistics) (string, Method, float64) {
	switch {
	case first.ok && ratio.ok && first.channel == ratio.channel:
		return first.channel, MethodCombined, math.Min(0.95, 0.8+0.15*ratio.confidence)
	case ratio.ok && ratio.confidence > 0.6:
		return ratio.channel, MethodSpeakingRatio, ratio.confidence
	case first.ok:
		return first.channel, MethodFirstSpeaker, 0.7
	default:
		return quieter(primary, secondary).Channel, MethodSpeakingRatio, 0.5
	}
}

func (r *Resolver) inRange(ratio float64) bool {
	return ratio >= r.cfg.RatioLow && ratio <= r.cfg.RatioHigh
}

// rankChannels orders channels by speaking time (ties broken by first
// appearance, then channel id, keeping resolution deterministic) and
// returns the two most active plus any remainder.
func rankChannels(stats map[string]*Statistics) (primary, secondary *Statistics, extras []*Statistics) {
	ranked := make([]*Statistics, 0, len(stats))
	for _, st := range stats {
		ranked = append(ranked, st)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SpeakingTime != ranked[j].SpeakingTime {
			return ranked[i].SpeakingTime > ranked[j].SpeakingTime
		}
		if ranked[i].FirstIndex != ranked[j].FirstIndex {
			return ranked[i].FirstIndex < ranked[j].FirstIndex
		}
		return ranked[i].Channel < ranked[j].Channel
	})
	return ranked[0], ranked[1], ranked[2:]
}

// quieter returns the channel with less speaking time, breaking ties by
// first appearance then channel id.
func quieter(a, b *Statistics) *Statistics {
	if a.SpeakingTime != b.SpeakingTime {
		if a.SpeakingTime < b.SpeakingTime {
			return a
		}
		return b
	}
	if a.FirstIndex != b.FirstIndex {
		if a.FirstIndex < b.FirstIndex {
			return a
		}
		return b
	}
	if a.Channel < b.Channel {
		return a
	}
	return b
}

// rewrite produces a new segment list with channel ids replaced by their
// resolved role labels; segments without an assignment pass through.
func rewrite(segments []transcript.Segment, assignments map[string]Assignment) []transcript.Segment {
	out := make([]transcript.Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		if a, ok := assignments[seg.Speaker]; ok {
			out[i].Speaker = string(a.Role)
		}
	}
	return out
}
