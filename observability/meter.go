package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the metric instruments for the audio-processing pipeline.
type Metrics struct {
	sessionTotal       metric.Int64Counter
	sessionDuration    metric.Float64Histogram
	proxyCallTotal     metric.Int64Counter
	proxyCallDuration  metric.Float64Histogram
	retryTotal         metric.Int64Counter
	breakerTransitions metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	sessionTotal, err := meter.Int64Counter("session.outcomes",
		metric.WithDescription("Processed sessions by outcome status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session.outcomes counter: %w", err)
	}

	sessionDuration, err := meter.Float64Histogram("session.duration",
		metric.WithDescription("End-to-end session processing duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session.duration histogram: %w", err)
	}

	proxyCallTotal, err := meter.Int64Counter("proxy.calls",
		metric.WithDescription("Analysis service calls by service and result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating proxy.calls counter: %w", err)
	}

	proxyCallDuration, err := meter.Float64Histogram("proxy.call.duration",
		metric.WithDescription("Analysis service call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating proxy.call.duration histogram: %w", err)
	}

	retryTotal, err := meter.Int64Counter("retry.attempts",
		metric.WithDescription("Retry attempts by service"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating retry.attempts counter: %w", err)
	}

	breakerTransitions, err := meter.Int64Counter("circuit_breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions by service"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating circuit_breaker.transitions counter: %w", err)
	}

	return &Metrics{
		sessionTotal:       sessionTotal,
		sessionDuration:    sessionDuration,
		proxyCallTotal:     proxyCallTotal,
		proxyCallDuration:  proxyCallDuration,
		retryTotal:         retryTotal,
		breakerTransitions: breakerTransitions,
	}, nil
}

// RecordOutcome records a completed session with its outcome status.
func (m *Metrics) RecordOutcome(ctx context.Context, status, diarizationStatus string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("diarization_status", diarizationStatus),
	)
	m.sessionTotal.Add(ctx, 1, attrs)
	m.sessionDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordProxyCall records one guarded analysis service call.
func (m *Metrics) RecordProxyCall(ctx context.Context, service, result string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("result", result),
	)
	m.proxyCallTotal.Add(ctx, 1, attrs)
	m.proxyCallDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRetry records one retry attempt against a service.
func (m *Metrics) RecordRetry(ctx context.Context, service string) {
	m.retryTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
	))
}

// RecordBreakerTransition records a circuit breaker state change.
func (m *Metrics) RecordBreakerTransition(ctx context.Context, service, from, to string) {
	m.breakerTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
