package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Name != "therabridge" {
		t.Errorf("expected default name, got %s", cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected development, got %s", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug in development")
	}
	if cfg.Transcription.Resilience.OpenTimeout != 120*time.Second {
		t.Errorf("expected 120s transcription cool-down, got %s", cfg.Transcription.Resilience.OpenTimeout)
	}
	if cfg.Diarization.Resilience.OpenTimeout != 60*time.Second {
		t.Errorf("expected 60s diarization cool-down, got %s", cfg.Diarization.Resilience.OpenTimeout)
	}
	if cfg.Transcription.Resilience.FailureThreshold != 5 {
		t.Errorf("expected threshold 5, got %d", cfg.Transcription.Resilience.FailureThreshold)
	}
	if cfg.Transcription.Resilience.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Transcription.Resilience.MaxAttempts)
	}
	if cfg.Roles.RatioLow != 0.25 || cfg.Roles.RatioHigh != 0.45 {
		t.Errorf("expected default ratio range, got [%f, %f]", cfg.Roles.RatioLow, cfg.Roles.RatioHigh)
	}
	if cfg.Observability.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %s", cfg.Observability.Endpoint)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.ApplyDefaults()
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid defaults: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.Environment = "qa" }},
		{"sample rate above one", func(c *Config) { c.Observability.SampleRate = 1.5 }},
		{"ratio high below low", func(c *Config) { c.Roles.RatioLow = 0.5; c.Roles.RatioHigh = 0.3 }},
		{"excessive attempts", func(c *Config) { c.Transcription.Resilience.MaxAttempts = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := []byte(`
name: bridge-test
environment: staging
transcription:
  whisper:
    url: http://whisper:9000
    model: large-v3
  resilience:
    failure_threshold: 7
    open_timeout: 30s
diarization:
  pyannote:
    base_url: http://pyannote:9001
roles:
  ratio_low: 0.2
  ratio_high: 0.5
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	if err := Load(cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.ApplyDefaults()

	if cfg.Name != "bridge-test" {
		t.Errorf("expected bridge-test, got %s", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected staging, got %s", cfg.Environment)
	}
	if cfg.Transcription.Whisper.URL != "http://whisper:9000" {
		t.Errorf("unexpected whisper url: %s", cfg.Transcription.Whisper.URL)
	}
	if cfg.Transcription.Whisper.Model != "large-v3" {
		t.Errorf("unexpected model: %s", cfg.Transcription.Whisper.Model)
	}
	if cfg.Transcription.Resilience.FailureThreshold != 7 {
		t.Errorf("expected threshold 7, got %d", cfg.Transcription.Resilience.FailureThreshold)
	}
	if cfg.Transcription.Resilience.OpenTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.Transcription.Resilience.OpenTimeout)
	}
	if cfg.Roles.RatioLow != 0.2 || cfg.Roles.RatioHigh != 0.5 {
		t.Errorf("unexpected ratio range [%f, %f]", cfg.Roles.RatioLow, cfg.Roles.RatioHigh)
	}
	// Untouched sections still pick up defaults.
	if cfg.Diarization.Resilience.OpenTimeout != 60*time.Second {
		t.Errorf("expected default 60s, got %s", cfg.Diarization.Resilience.OpenTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("transcription:\n  whisper:\n    url: http://from-file:9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TRANSCRIPTION_WHISPER_URL", "http://from-env:9000")
	t.Setenv("TRANSCRIPTION_RESILIENCE_MAX_ATTEMPTS", "5")

	cfg := &Config{}
	if err := Load(cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Transcription.Whisper.URL != "http://from-env:9000" {
		t.Errorf("expected env to win, got %s", cfg.Transcription.Whisper.URL)
	}
	if cfg.Transcription.Resilience.MaxAttempts != 5 {
		t.Errorf("expected 5 attempts from env, got %d", cfg.Transcription.Resilience.MaxAttempts)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("DIARIZATION_PYANNOTE_BASE_URL=http://from-dotenv:9001\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("DIARIZATION_PYANNOTE_BASE_URL") })

	cfg := &Config{}
	if err := Load(cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Diarization.Pyannote.BaseURL != "http://from-dotenv:9001" {
		t.Errorf("expected dotenv value, got %s", cfg.Diarization.Pyannote.BaseURL)
	}
}

func TestLoad_MissingFilesAreFine(t *testing.T) {
	cfg := &Config{}
	if err := Load(cfg, WithConfigFile(""), WithEnvFile("")); err != nil {
		// A stray config.yml in the working directory could load here,
		// but it must not error.
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestKeyVariants(t *testing.T) {
	variants := keyVariants("transcription_resilience_failure_threshold")

	want := "transcription.resilience.failure_threshold"
	for _, v := range variants {
		if v == want {
			return
		}
	}
	t.Errorf("expected variant %q in %v", want, variants)
}
