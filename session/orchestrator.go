package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/diarization"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/errors"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/logger"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/observability"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/roles"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcript"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcription"
)

// Orchestrator runs the two analysis calls for a session in parallel and
// decides the outcome from their combined result. It is safe for
// concurrent use; the proxies carry the only shared state.
type Orchestrator struct {
	transcriber *TranscriptionProxy
	diarizer    *DiarizationProxy
	resolver    *roles.Resolver
	reporter    OutcomeReporter
	metrics     *observability.Metrics
	log         *logger.Logger
}

// NewOrchestrator creates a session orchestrator. A nil reporter defaults
// to logging outcomes; a nil resolver uses the default heuristics.
func NewOrchestrator(transcriber *TranscriptionProxy, diarizer *DiarizationProxy, resolver *roles.Resolver, reporter OutcomeReporter, log *logger.Logger, metrics *observability.Metrics) *Orchestrator {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("orchestrator")
	if resolver == nil {
		resolver = roles.NewResolver(roles.DefaultConfig(), log)
	}
	if reporter == nil {
		reporter = NewLogReporter(log)
	}
	return &Orchestrator{
		transcriber: transcriber,
		diarizer:    diarizer,
		resolver:    resolver,
		reporter:    reporter,
		metrics:     metrics,
		log:         log,
	}
}

// Process runs transcription and diarization for one session's audio and
// produces the outcome.
//
// Both calls always run to completion: a failure on one branch never
// cancels the other, because a partial result still has value. The
// outcome is decided from the pair of results:
//
//   - both succeed: the transcript is speaker-attributed from the
//     diarization turns and roles are resolved.
//   - transcription succeeds, diarization fails: the transcript is kept
//     with every segment labeled "Unknown Speaker".
//   - transcription fails: the session fails regardless of diarization;
//     a diarization result without text is unusable and is discarded.
//
// The outcome, including failed ones, is handed to the reporter before
// returning. The error is non-nil exactly when the outcome is failed.
func (o *Orchestrator) Process(ctx context.Context, sessionID, audioRef string) (*Outcome, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSessionProcess)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSessionID, sessionID)
	observability.SetSpanAttribute(ctx, observability.AttrAudioRef, audioRef)

	log := o.log.WithSession(sessionID)
	log.Info("processing session", logger.Fields("audio_ref", audioRef))

	outcome := &Outcome{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		StartedAt: time.Now(),
	}

	var (
		txResp  *transcription.Response
		txErr   error
		diaResp *diarization.Response
		diaErr  error
	)

	done := make(chan struct{}, 2)
	go func() {
		defer func() { done <- struct{}{} }()
		txResp, txErr = o.transcriber.Transcribe(ctx, sessionID, transcription.Request{AudioRef: audioRef})
	}()
	go func() {
		defer func() { done <- struct{}{} }()
		diaResp, diaErr = o.diarizer.Diarize(ctx, sessionID, diarization.Request{AudioRef: audioRef})
	}()
	<-done
	<-done

	err := o.decide(outcome, txResp, txErr, diaResp, diaErr, log)
	outcome.CompletedAt = time.Now()

	observability.SetSpanAttribute(ctx, observability.AttrOutcomeStatus, string(outcome.Status))
	observability.SetSpanAttribute(ctx, observability.AttrDiarizationStatus, string(outcome.Diarization))
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	if o.metrics != nil {
		o.metrics.RecordOutcome(ctx, string(outcome.Status), string(outcome.Diarization), outcome.Duration())
	}

	if repErr := o.reporter.Report(ctx, outcome); repErr != nil {
		log.Error("outcome report failed", logger.Fields(logger.FieldError, repErr.Error()))
	}

	return outcome, err
}

// decide applies the failure matrix to the pair of branch results and
// fills the outcome. The returned error is nil unless the session failed.
func (o *Orchestrator) decide(outcome *Outcome, txResp *transcription.Response, txErr error, diaResp *diarization.Response, diaErr error, log *logger.Logger) error {
	switch {
	case txErr == nil && diaErr == nil:
		o.succeed(outcome, txResp, diaResp, log)
		return nil

	case txErr == nil:
		// Transcript without speakers is still deliverable.
		log.Warn("diarization failed, delivering unattributed transcript", logger.Fields(
			logger.FieldError, diaErr.Error(),
		))
		outcome.Status = StatusDegraded
		outcome.Diarization = DiarizationFailed
		outcome.Transcript = transcript.Unattributed(textSegments(txResp))
		outcome.ErrorCode = errors.CodeOf(diaErr)
		outcome.ErrorMessage = diaErr.Error()
		return nil

	case diaErr == nil:
		// Speakers without text are worthless; drop the diarization result.
		log.Error("transcription failed, discarding diarization result", logger.Fields(
			logger.FieldError, txErr.Error(),
			"diarization_segments", len(diaResp.Segments),
		))
		outcome.Status = StatusFailed
		outcome.Diarization = DiarizationSkipped
		outcome.ErrorCode = errors.CodeOf(txErr)
		outcome.ErrorMessage = txErr.Error()
		return txErr

	default:
		err := &errors.ParallelProcessingError{
			SessionID:        outcome.SessionID,
			TranscriptionErr: txErr,
			DiarizationErr:   diaErr,
		}
		log.Error("both analysis calls failed", logger.Fields(
			"transcription_error", txErr.Error(),
			"diarization_error", diaErr.Error(),
		))
		outcome.Status = StatusFailed
		outcome.Diarization = DiarizationFailed
		outcome.ErrorCode = errors.ErrCodeParallelProcessingFailed
		outcome.ErrorMessage = err.Error()
		return err
	}
}

// succeed attributes the transcript to diarization turns and resolves
// speaker roles.
func (o *Orchestrator) succeed(outcome *Outcome, txResp *transcription.Response, diaResp *diarization.Response, log *logger.Logger) {
	aligned := transcript.Align(textSegments(txResp), diaResp.Segments)
	result := o.resolver.Resolve(aligned)

	log.Info("roles resolved", logger.Fields(
		logger.FieldMethod, string(result.Method),
		logger.FieldConfidence, result.Confidence,
		"speakers", diaResp.NumSpeakers,
	))

	outcome.Status = StatusSucceeded
	outcome.Diarization = DiarizationComplete
	outcome.Transcript = result.Segments
	outcome.Roles = &result
}

// textSegments returns the transcription's time-aligned segments. A
// backend that returns only flat text yields one synthetic segment
// spanning the audio.
func textSegments(resp *transcription.Response) []transcription.Segment {
	if len(resp.Segments) > 0 {
		return resp.Segments
	}
	if resp.Text == "" {
		return nil
	}
	return []transcription.Segment{{Start: 0, End: resp.Duration, Text: resp.Text}}
}
