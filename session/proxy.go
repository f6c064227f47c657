package session

import (
	"context"
	"time"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/diarization"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/errors"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/logger"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/observability"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/resilience"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcription"
)

// ProxyConfig holds the resilience policy for one guarded analysis service.
type ProxyConfig struct {
	// Breaker configures the circuit breaker admitting calls.
	Breaker resilience.CircuitBreakerConfig
	// Retry configures the per-call retry policy.
	Retry resilience.RetryConfig
}

// DefaultTranscriptionProxyConfig returns the transcription resilience
// policy. Transcription recovers slowly, so its breaker cools down longer.
func DefaultTranscriptionProxyConfig() ProxyConfig {
	breaker := resilience.DefaultCircuitBreakerConfig("transcription")
	breaker.OpenTimeout = 120 * time.Second
	return ProxyConfig{
		Breaker: breaker,
		Retry:   resilience.DefaultRetryConfig(),
	}
}

// DefaultDiarizationProxyConfig returns the diarization resilience policy.
func DefaultDiarizationProxyConfig() ProxyConfig {
	breaker := resilience.DefaultCircuitBreakerConfig("diarization")
	breaker.OpenTimeout = 60 * time.Second
	return ProxyConfig{
		Breaker: breaker,
		Retry:   resilience.DefaultRetryConfig(),
	}
}

// instrument wires breaker transitions and retry attempts into the
// structured log and the pipeline metrics. The configured hooks are
// preserved and called first.
func instrument(cfg *ProxyConfig, log *logger.Logger, metrics *observability.Metrics) {
	prevState := cfg.Breaker.OnStateChange
	cfg.Breaker.OnStateChange = func(service string, from, to resilience.State) {
		if prevState != nil {
			prevState(service, from, to)
		}
		log.Warn("circuit breaker state change", logger.Fields(
			logger.FieldService, service,
			logger.FieldState, to.String(),
			"previous_state", from.String(),
		))
		if metrics != nil {
			metrics.RecordBreakerTransition(context.Background(), service, from.String(), to.String())
		}
	}

	service := cfg.Breaker.Service
	prevRetry := cfg.Retry.OnRetry
	cfg.Retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		if prevRetry != nil {
			prevRetry(attempt, err, backoff)
		}
		log.Warn("retrying after transient failure", logger.Fields(
			logger.FieldService, service,
			logger.FieldAttempt, attempt,
			logger.FieldBackoff, backoff.Milliseconds(),
			logger.FieldError, err.Error(),
		))
		if metrics != nil {
			metrics.RecordRetry(context.Background(), service)
		}
	}
}

// TranscriptionProxy guards the transcription backend with a circuit
// breaker and retry policy. The breaker persists across sessions; create
// one proxy per process and reuse it.
type TranscriptionProxy struct {
	service transcription.Service
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewTranscriptionProxy creates a guarded transcription proxy.
func NewTranscriptionProxy(svc transcription.Service, cfg ProxyConfig, log *logger.Logger, metrics *observability.Metrics) *TranscriptionProxy {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("transcription-proxy")
	instrument(&cfg, log, metrics)
	return &TranscriptionProxy{
		service: svc,
		breaker: resilience.NewCircuitBreaker(cfg.Breaker),
		retry:   cfg.Retry,
		metrics: metrics,
		log:     log,
	}
}

// Name returns the guarded backend's name.
func (p *TranscriptionProxy) Name() string { return p.service.Name() }

// State returns the current circuit breaker state.
func (p *TranscriptionProxy) State() resilience.State { return p.breaker.State() }

// Transcribe runs one guarded transcription call. The breaker gates
// admission; admitted calls are retried per the retry policy. Every
// failure, including breaker rejection, is returned as a
// *errors.TranscriptionError for the session.
func (p *TranscriptionProxy) Transcribe(ctx context.Context, sessionID string, req transcription.Request) (*transcription.Response, error) {
	if err := p.breaker.Allow(); err != nil {
		p.log.Warn("call rejected by open circuit", logger.Fields(
			logger.FieldSessionID, sessionID,
		))
		p.recordCall(ctx, "rejected", 0)
		return nil, &errors.TranscriptionError{SessionID: sessionID, Cause: err}
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSessionID, sessionID)
	observability.SetSpanAttribute(ctx, observability.AttrService, p.service.Name())

	start := time.Now()
	resp, err := resilience.Retry(ctx, p.retry, func() (*transcription.Response, error) {
		return p.service.Transcribe(ctx, req)
	})
	if err != nil {
		p.breaker.RecordFailure()
		observability.SetSpanError(ctx, err)
		p.recordCall(ctx, "error", time.Since(start))
		return nil, &errors.TranscriptionError{SessionID: sessionID, Cause: err}
	}

	p.breaker.RecordSuccess()
	p.recordCall(ctx, "ok", time.Since(start))
	return resp, nil
}

// CheckHealth reports the proxy's health from the breaker state and the
// backend's availability probe.
func (p *TranscriptionProxy) CheckHealth(ctx context.Context) observability.Health {
	return proxyHealth(ctx, p.service.Name(), p.breaker.State(), p.service.IsAvailable)
}

func (p *TranscriptionProxy) recordCall(ctx context.Context, result string, d time.Duration) {
	if p.metrics != nil {
		p.metrics.RecordProxyCall(ctx, p.service.Name(), result, d)
	}
}

// DiarizationProxy guards the diarization backend with a circuit breaker
// and retry policy, mirroring TranscriptionProxy.
type DiarizationProxy struct {
	service diarization.Service
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewDiarizationProxy creates a guarded diarization proxy.
func NewDiarizationProxy(svc diarization.Service, cfg ProxyConfig, log *logger.Logger, metrics *observability.Metrics) *DiarizationProxy {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("diarization-proxy")
	instrument(&cfg, log, metrics)
	return &DiarizationProxy{
		service: svc,
		breaker: resilience.NewCircuitBreaker(cfg.Breaker),
		retry:   cfg.Retry,
		metrics: metrics,
		log:     log,
	}
}

// Name returns the guarded backend's name.
func (p *DiarizationProxy) Name() string { return p.service.Name() }

// State returns the current circuit breaker state.
func (p *DiarizationProxy) State() resilience.State { return p.breaker.State() }

// Diarize runs one guarded diarization call. Every failure, including
// breaker rejection, is returned as a *errors.DiarizationError.
func (p *DiarizationProxy) Diarize(ctx context.Context, sessionID string, req diarization.Request) (*diarization.Response, error) {
	if err := p.breaker.Allow(); err != nil {
		p.log.Warn("call rejected by open circuit", logger.Fields(
			logger.FieldSessionID, sessionID,
		))
		p.recordCall(ctx, "rejected", 0)
		return nil, &errors.DiarizationError{SessionID: sessionID, Cause: err}
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanDiarize)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSessionID, sessionID)
	observability.SetSpanAttribute(ctx, observability.AttrService, p.service.Name())

	start := time.Now()
	resp, err := resilience.Retry(ctx, p.retry, func() (*diarization.Response, error) {
		return p.service.Diarize(ctx, req)
	})
	if err != nil {
		p.breaker.RecordFailure()
		observability.SetSpanError(ctx, err)
		p.recordCall(ctx, "error", time.Since(start))
		return nil, &errors.DiarizationError{SessionID: sessionID, Cause: err}
	}

	p.breaker.RecordSuccess()
	p.recordCall(ctx, "ok", time.Since(start))
	return resp, nil
}

// CheckHealth reports the proxy's health from the breaker state and the
// backend's availability probe.
func (p *DiarizationProxy) CheckHealth(ctx context.Context) observability.Health {
	return proxyHealth(ctx, p.service.Name(), p.breaker.State(), p.service.IsAvailable)
}

func (p *DiarizationProxy) recordCall(ctx context.Context, result string, d time.Duration) {
	if p.metrics != nil {
		p.metrics.RecordProxyCall(ctx, p.service.Name(), result, d)
	}
}

func proxyHealth(ctx context.Context, name string, state resilience.State, probe func(context.Context) bool) observability.Health {
	switch state {
	case resilience.StateOpen:
		return observability.Health{
			Name:    name,
			Status:  observability.HealthStatusDown,
			Message: "circuit breaker open",
		}
	case resilience.StateHalfOpen:
		return observability.Health{
			Name:    name,
			Status:  observability.HealthStatusDegraded,
			Message: "circuit breaker probing recovery",
		}
	}
	if !probe(ctx) {
		return observability.Health{
			Name:    name,
			Status:  observability.HealthStatusDown,
			Message: "backend unavailable",
		}
	}
	return observability.Health{Name: name, Status: observability.HealthStatusUp}
}
