package session

import (
	"context"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/config"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/diarization/pyannote"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/logger"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/observability"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/resilience"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/roles"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcription/whisper"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/version"
)

// Pipeline is the fully wired processing core: backends, guarded
// proxies, and the orchestrator, built from one configuration.
type Pipeline struct {
	Orchestrator *Orchestrator
	Transcriber  *TranscriptionProxy
	Diarizer     *DiarizationProxy

	name    string
	version string
}

// PipelineOption customizes pipeline construction.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	reporter OutcomeReporter
	metrics  *observability.Metrics
}

// WithReporter sets the outcome reporter. Defaults to logging outcomes.
func WithReporter(r OutcomeReporter) PipelineOption {
	return func(o *pipelineOptions) { o.reporter = r }
}

// WithMetrics sets the metric instruments used across the pipeline.
func WithMetrics(m *observability.Metrics) PipelineOption {
	return func(o *pipelineOptions) { o.metrics = m }
}

// NewPipeline builds the processing core from configuration: whisper and
// pyannote backends behind their resilience proxies, the role resolver,
// and the orchestrator.
func NewPipeline(cfg *config.Config, opts ...PipelineOption) *Pipeline {
	var o pipelineOptions
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.GetGlobalLogger()

	transcriber := NewTranscriptionProxy(
		whisper.NewClient(cfg.Transcription.Whisper),
		proxyConfig("transcription", cfg.Transcription.Resilience),
		log, o.metrics,
	)
	diarizer := NewDiarizationProxy(
		pyannote.NewClient(cfg.Diarization.Pyannote),
		proxyConfig("diarization", cfg.Diarization.Resilience),
		log, o.metrics,
	)
	resolver := roles.NewResolver(cfg.Roles, log)

	ver := cfg.Version
	if ver == "" {
		ver = version.Short()
	}

	return &Pipeline{
		Orchestrator: NewOrchestrator(transcriber, diarizer, resolver, o.reporter, log, o.metrics),
		Transcriber:  transcriber,
		Diarizer:     diarizer,
		name:         cfg.Name,
		version:      ver,
	}
}

// Process runs one session through the pipeline.
func (p *Pipeline) Process(ctx context.Context, sessionID, audioRef string) (*Outcome, error) {
	return p.Orchestrator.Process(ctx, sessionID, audioRef)
}

// Health reports the pipeline's health including both analysis services.
func (p *Pipeline) Health(ctx context.Context) *observability.ServiceHealth {
	health := observability.NewServiceHealth(p.name, p.version)
	health.AddComponent(p.Transcriber.CheckHealth(ctx))
	health.AddComponent(p.Diarizer.CheckHealth(ctx))
	return health
}

// proxyConfig translates resilience settings into a proxy policy.
func proxyConfig(service string, cfg config.ResilienceConfig) ProxyConfig {
	return ProxyConfig{
		Breaker: resilience.CircuitBreakerConfig{
			Service:           service,
			FailureThreshold:  cfg.FailureThreshold,
			OpenTimeout:       cfg.OpenTimeout,
			HalfOpenSuccesses: cfg.HalfOpenSuccesses,
		},
		Retry: resilience.RetryConfig{
			MaxAttempts:    cfg.MaxAttempts,
			InitialBackoff: cfg.InitialBackoff,
			MaxBackoff:     cfg.MaxBackoff,
			BackoffFactor:  cfg.BackoffFactor,
		},
	}
}
