// Package observability provides OpenTelemetry tracing and metrics for the
// audio-processing pipeline.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("therabridge"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanSessionProcess)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("therabridge"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("therabridge"))
//	metrics.RecordOutcome(ctx, "succeeded", "complete", duration)
//
// Health:
//
//	health := observability.NewServiceHealth("therabridge", "1.0.0")
//	health.AddComponent(proxy.CheckHealth(ctx))
package observability
