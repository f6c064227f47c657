package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/diarization"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/errors"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/roles"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcript"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcription"
)

// recordingReporter captures reported outcomes.
type recordingReporter struct {
	outcomes []*Outcome
	err      error
}

func (r *recordingReporter) Report(_ context.Context, outcome *Outcome) error {
	r.outcomes = append(r.outcomes, outcome)
	return r.err
}

func twelveSegments() []transcription.Segment {
	segs := make([]transcription.Segment, 12)
	for i := range segs {
		segs[i] = transcription.Segment{
			Start: float64(i) * 5,
			End:   float64(i+1) * 5,
			Text:  fmt.Sprintf("segment %d", i),
		}
	}
	return segs
}

func okTranscriptionSegments(segs []transcription.Segment) func(int) (*transcription.Response, error) {
	return func(int) (*transcription.Response, error) {
		return &transcription.Response{
			Text:     "full transcript",
			Segments: segs,
			Duration: segs[len(segs)-1].End,
		}, nil
	}
}

func okDiarization() func(int) (*diarization.Response, error) {
	// SPEAKER_00 opens and holds ~33% of the hour, SPEAKER_01 the rest.
	return func(int) (*diarization.Response, error) {
		return &diarization.Response{
			NumSpeakers: 2,
			Segments: []diarization.Segment{
				{Speaker: "SPEAKER_00", Start: 0, End: 10},
				{Speaker: "SPEAKER_01", Start: 10, End: 30},
				{Speaker: "SPEAKER_00", Start: 30, End: 40},
				{Speaker: "SPEAKER_01", Start: 40, End: 60},
			},
		}, nil
	}
}

func newTestOrchestrator(tx *fakeTranscriber, dia *fakeDiarizer, reporter OutcomeReporter) *Orchestrator {
	txProxy := NewTranscriptionProxy(tx, fastProxyConfig("transcription"), nil, nil)
	diaProxy := NewDiarizationProxy(dia, fastProxyConfig("diarization"), nil, nil)
	resolver := roles.NewResolver(roles.DefaultConfig(), nil)
	return NewOrchestrator(txProxy, diaProxy, resolver, reporter, nil, nil)
}

func TestProcess_BothSucceed(t *testing.T) {
	tx := &fakeTranscriber{available: true, respond: okTranscriptionSegments(twelveSegments())}
	dia := &fakeDiarizer{available: true, respond: okDiarization()}
	reporter := &recordingReporter{}
	o := newTestOrchestrator(tx, dia, reporter)

	outcome, err := o.Process(context.Background(), "s1", "a.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusSucceeded {
		t.Errorf("expected %s, got %s", StatusSucceeded, outcome.Status)
	}
	if outcome.Diarization != DiarizationComplete {
		t.Errorf("expected %s, got %s", DiarizationComplete, outcome.Diarization)
	}
	if outcome.Roles == nil {
		t.Fatal("expected role resolution result")
	}
	if len(outcome.Transcript) != 12 {
		t.Errorf("expected 12 transcript segments, got %d", len(outcome.Transcript))
	}
	for i, seg := range outcome.Transcript {
		if seg.Speaker != string(roles.RoleClinician) && seg.Speaker != string(roles.RoleClient) {
			t.Errorf("segment %d: expected role label, got %q", i, seg.Speaker)
		}
	}
	if outcome.ID == "" {
		t.Error("expected outcome id")
	}
	if outcome.ErrorCode != "" {
		t.Errorf("expected no error code, got %s", outcome.ErrorCode)
	}
	if len(reporter.outcomes) != 1 || reporter.outcomes[0] != outcome {
		t.Error("expected outcome delivered to reporter")
	}
}

func TestProcess_DiarizationTimeoutDegrades(t *testing.T) {
	// Transcription succeeds with 12 segments; diarization times out
	// through every retry. The transcript is still delivered, every
	// segment labeled unknown, and no error reaches the caller.
	tx := &fakeTranscriber{available: true, respond: okTranscriptionSegments(twelveSegments())}
	dia := &fakeDiarizer{
		available: true,
		respond: func(int) (*diarization.Response, error) {
			return nil, errors.Classify("diarization", 504, "gateway timeout", nil)
		},
	}
	reporter := &recordingReporter{}
	o := newTestOrchestrator(tx, dia, reporter)

	outcome, err := o.Process(context.Background(), "s1", "a.wav")
	if err != nil {
		t.Fatalf("expected no error for degraded outcome, got %v", err)
	}
	if outcome.Status != StatusDegraded {
		t.Errorf("expected %s, got %s", StatusDegraded, outcome.Status)
	}
	if outcome.Diarization != DiarizationFailed {
		t.Errorf("expected %s, got %s", DiarizationFailed, outcome.Diarization)
	}
	if len(outcome.Transcript) != 12 {
		t.Fatalf("expected 12 transcript segments, got %d", len(outcome.Transcript))
	}
	for i, seg := range outcome.Transcript {
		if seg.Speaker != transcript.UnknownSpeaker {
			t.Errorf("segment %d: expected %q, got %q", i, transcript.UnknownSpeaker, seg.Speaker)
		}
	}
	if dia.callCount() != 3 {
		t.Errorf("expected 3 diarization attempts, got %d", dia.callCount())
	}
	if outcome.ErrorCode == "" {
		t.Error("expected diarization error code on degraded outcome")
	}
	if len(reporter.outcomes) != 1 {
		t.Errorf("expected 1 reported outcome, got %d", len(reporter.outcomes))
	}
}

func TestProcess_TranscriptionAuthFailureFails(t *testing.T) {
	// Transcription fails with a non-retryable auth error on the first
	// attempt; diarization succeeds but its result is discarded.
	tx := &fakeTranscriber{
		available: true,
		respond: func(int) (*transcription.Response, error) {
			return nil, errors.Classify("transcription", 401, "invalid api key", nil)
		},
	}
	dia := &fakeDiarizer{available: true, respond: okDiarization()}
	reporter := &recordingReporter{}
	o := newTestOrchestrator(tx, dia, reporter)

	outcome, err := o.Process(context.Background(), "s1", "a.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	var txErr *errors.TranscriptionError
	if !stderrors.As(err, &txErr) {
		t.Fatalf("expected TranscriptionError, got %T", err)
	}
	if outcome.Status != StatusFailed {
		t.Errorf("expected %s, got %s", StatusFailed, outcome.Status)
	}
	if outcome.Diarization != DiarizationSkipped {
		t.Errorf("expected %s, got %s", DiarizationSkipped, outcome.Diarization)
	}
	if len(outcome.Transcript) != 0 {
		t.Errorf("expected no transcript, got %d segments", len(outcome.Transcript))
	}
	if tx.callCount() != 1 {
		t.Errorf("expected single transcription attempt, got %d", tx.callCount())
	}
	if dia.callCount() != 1 {
		t.Errorf("expected diarization to run to completion, got %d calls", dia.callCount())
	}
	if len(reporter.outcomes) != 1 {
		t.Errorf("expected failed outcome reported, got %d", len(reporter.outcomes))
	}
}

func TestProcess_BothFail(t *testing.T) {
	tx := &fakeTranscriber{
		available: true,
		respond: func(int) (*transcription.Response, error) {
			return nil, errors.Classify("transcription", 401, "invalid api key", nil)
		},
	}
	dia := &fakeDiarizer{
		available: true,
		respond: func(int) (*diarization.Response, error) {
			return nil, errors.Classify("diarization", 415, "unsupported audio format", nil)
		},
	}
	o := newTestOrchestrator(tx, dia, &recordingReporter{})

	outcome, err := o.Process(context.Background(), "s1", "a.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	var parErr *errors.ParallelProcessingError
	if !stderrors.As(err, &parErr) {
		t.Fatalf("expected ParallelProcessingError, got %T", err)
	}
	if parErr.TranscriptionErr == nil || parErr.DiarizationErr == nil {
		t.Error("expected both causes preserved")
	}
	// Both branch errors stay reachable through the chain.
	var txErr *errors.TranscriptionError
	if !stderrors.As(err, &txErr) {
		t.Error("expected transcription cause in chain")
	}
	var diaErr *errors.DiarizationError
	if !stderrors.As(err, &diaErr) {
		t.Error("expected diarization cause in chain")
	}
	if outcome.Status != StatusFailed {
		t.Errorf("expected %s, got %s", StatusFailed, outcome.Status)
	}
	if outcome.Diarization != DiarizationFailed {
		t.Errorf("expected %s, got %s", DiarizationFailed, outcome.Diarization)
	}
	if outcome.ErrorCode != errors.ErrCodeParallelProcessingFailed {
		t.Errorf("expected %s, got %s", errors.ErrCodeParallelProcessingFailed, outcome.ErrorCode)
	}
}

func TestProcess_SlowBranchAlwaysAwaited(t *testing.T) {
	// Diarization fails immediately; transcription takes a while and
	// succeeds. The fast failure must not cancel the slow branch.
	tx := &fakeTranscriber{
		available: true,
		delay:     50 * time.Millisecond,
		respond:   okTranscriptionSegments(twelveSegments()),
	}
	dia := &fakeDiarizer{
		available: true,
		respond: func(int) (*diarization.Response, error) {
			return nil, errors.Classify("diarization", 401, "invalid api key", nil)
		},
	}
	o := newTestOrchestrator(tx, dia, &recordingReporter{})

	outcome, err := o.Process(context.Background(), "s1", "a.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusDegraded {
		t.Errorf("expected %s, got %s", StatusDegraded, outcome.Status)
	}
	if len(outcome.Transcript) != 12 {
		t.Errorf("expected slow transcription branch to complete, got %d segments", len(outcome.Transcript))
	}
	if outcome.Duration() < 50*time.Millisecond {
		t.Errorf("expected processing to wait for the slow branch, took %s", outcome.Duration())
	}
}

func TestProcess_FlatTextTranscription(t *testing.T) {
	// A backend returning only flat text still yields a transcript.
	tx := &fakeTranscriber{
		available: true,
		respond: func(int) (*transcription.Response, error) {
			return &transcription.Response{Text: "hello world", Duration: 60}, nil
		},
	}
	dia := &fakeDiarizer{available: true, respond: okDiarization()}
	o := newTestOrchestrator(tx, dia, &recordingReporter{})

	outcome, err := o.Process(context.Background(), "s1", "a.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcome.Transcript) != 1 {
		t.Fatalf("expected 1 synthetic segment, got %d", len(outcome.Transcript))
	}
	if outcome.Transcript[0].Text != "hello world" {
		t.Errorf("unexpected text %q", outcome.Transcript[0].Text)
	}
	if outcome.Transcript[0].End != 60 {
		t.Errorf("expected synthetic segment to span the audio, got end %f", outcome.Transcript[0].End)
	}
}

func TestProcess_ReporterErrorDoesNotFailSession(t *testing.T) {
	tx := &fakeTranscriber{available: true, respond: okTranscriptionSegments(twelveSegments())}
	dia := &fakeDiarizer{available: true, respond: okDiarization()}
	reporter := &recordingReporter{err: stderrors.New("sink unavailable")}
	o := newTestOrchestrator(tx, dia, reporter)

	outcome, err := o.Process(context.Background(), "s1", "a.wav")
	if err != nil {
		t.Fatalf("reporter error must not fail the session: %v", err)
	}
	if outcome.Status != StatusSucceeded {
		t.Errorf("expected %s, got %s", StatusSucceeded, outcome.Status)
	}
}

func TestProcess_UniqueOutcomeIDs(t *testing.T) {
	tx := &fakeTranscriber{available: true, respond: okTranscriptionSegments(twelveSegments())}
	dia := &fakeDiarizer{available: true, respond: okDiarization()}
	o := newTestOrchestrator(tx, dia, &recordingReporter{})

	first, _ := o.Process(context.Background(), "s1", "a.wav")
	second, _ := o.Process(context.Background(), "s1", "a.wav")
	if first.ID == second.ID {
		t.Error("expected unique outcome ids per run")
	}
}

func TestMultiReporter(t *testing.T) {
	a := &recordingReporter{}
	b := &recordingReporter{err: stderrors.New("b failed")}
	c := &recordingReporter{}
	m := MultiReporter{a, b, c}

	outcome := &Outcome{ID: "o1", SessionID: "s1", Status: StatusSucceeded}
	err := m.Report(context.Background(), outcome)
	if err == nil || err.Error() != "b failed" {
		t.Errorf("expected first reporter error, got %v", err)
	}
	for i, r := range []*recordingReporter{a, b, c} {
		if len(r.outcomes) != 1 {
			t.Errorf("reporter %d: expected delivery despite sibling error", i)
		}
	}
}
