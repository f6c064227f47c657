package session

import (
	"testing"
	"time"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/config"
)

func TestNewPipeline(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	p := NewPipeline(cfg)
	if p.Orchestrator == nil || p.Transcriber == nil || p.Diarizer == nil {
		t.Fatal("expected fully wired pipeline")
	}
	if p.Transcriber.Name() != "transcription" {
		t.Errorf("unexpected transcriber name %s", p.Transcriber.Name())
	}
	if p.Diarizer.Name() != "diarization" {
		t.Errorf("unexpected diarizer name %s", p.Diarizer.Name())
	}
}

func TestProxyConfigTranslation(t *testing.T) {
	rc := config.ResilienceConfig{
		FailureThreshold:  7,
		OpenTimeout:       90 * time.Second,
		HalfOpenSuccesses: 3,
		MaxAttempts:       4,
		InitialBackoff:    time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffFactor:     3.0,
	}
	pc := proxyConfig("transcription", rc)

	if pc.Breaker.Service != "transcription" {
		t.Errorf("unexpected service %s", pc.Breaker.Service)
	}
	if pc.Breaker.FailureThreshold != 7 || pc.Breaker.OpenTimeout != 90*time.Second {
		t.Errorf("breaker settings not carried over: %+v", pc.Breaker)
	}
	if pc.Retry.MaxAttempts != 4 || pc.Retry.BackoffFactor != 3.0 {
		t.Errorf("retry settings not carried over: %+v", pc.Retry)
	}
}
