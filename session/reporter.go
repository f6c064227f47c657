package session

import (
	"context"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/logger"
)

// OutcomeReporter receives every session outcome, successful or not,
// before Process returns. Implementations deliver outcomes to whatever
// consumes them downstream.
type OutcomeReporter interface {
	Report(ctx context.Context, outcome *Outcome) error
}

// LogReporter writes outcomes to the structured log. It is the default
// reporter when no other delivery target is configured.
type LogReporter struct {
	log *logger.Logger
}

// NewLogReporter creates a reporter that logs outcomes.
func NewLogReporter(log *logger.Logger) *LogReporter {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &LogReporter{log: log.WithComponent("outcome-reporter")}
}

// Report logs the outcome at a level matching its status.
func (r *LogReporter) Report(_ context.Context, outcome *Outcome) error {
	fields := logger.Fields(
		logger.FieldSessionID, outcome.SessionID,
		"outcome_id", outcome.ID,
		logger.FieldStatus, string(outcome.Status),
		"diarization_status", string(outcome.Diarization),
		logger.FieldDuration, outcome.Duration().Milliseconds(),
		"segments", len(outcome.Transcript),
	)
	if outcome.ErrorCode != "" {
		fields["error_code"] = string(outcome.ErrorCode)
		fields[logger.FieldError] = outcome.ErrorMessage
	}

	switch outcome.Status {
	case StatusSucceeded:
		r.log.Info("session processed", fields)
	case StatusDegraded:
		r.log.Warn("session processed without speaker attribution", fields)
	default:
		r.log.Error("session processing failed", fields)
	}
	return nil
}

// MultiReporter fans one outcome out to several reporters. The first
// reporter error is returned after all reporters have run.
type MultiReporter []OutcomeReporter

// Report delivers the outcome to every reporter.
func (m MultiReporter) Report(ctx context.Context, outcome *Outcome) error {
	var first error
	for _, r := range m {
		if err := r.Report(ctx, outcome); err != nil && first == nil {
			first = err
		}
	}
	return first
}
