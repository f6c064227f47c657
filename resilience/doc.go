// Package resilience provides the fault-tolerance layer in front of the
// external analysis services.
//
// This package includes:
//   - CircuitBreaker: rejects calls while a service is unhealthy, with
//     closed/open/half-open states and automatic cool-down probing
//   - Retry: retries transient failures with exponential backoff and
//     retryability classification from the errors package
//
// The two compose into a resilient proxy around one external call:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("transcription"))
//	if err := cb.Allow(); err != nil {
//	    return err // circuit open, no retry
//	}
//	resp, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), callService)
//	if err != nil {
//	    cb.RecordFailure()
//	    return err
//	}
//	cb.RecordSuccess()
package resilience
