package config

import (
	"fmt"
	"time"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/diarization/pyannote"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/roles"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/transcription/whisper"
	"github.com/evolvedtroglodyte/TheraBridge-sub011/validation"
)

// Config is the full configuration of the audio-processing pipeline.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Transcription TranscriptionConfig `yaml:"transcription" mapstructure:"transcription"`
	Diarization   DiarizationConfig   `yaml:"diarization" mapstructure:"diarization"`
	Roles         roles.Config        `yaml:"roles" mapstructure:"roles"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// TranscriptionConfig configures the transcription backend and the
// resilience policy guarding it.
type TranscriptionConfig struct {
	Whisper    whisper.Config   `yaml:"whisper" mapstructure:"whisper"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// DiarizationConfig configures the diarization backend and the
// resilience policy guarding it.
type DiarizationConfig struct {
	Pyannote   pyannote.Config  `yaml:"pyannote" mapstructure:"pyannote"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// ResilienceConfig holds circuit breaker and retry tuning for one
// guarded service.
type ResilienceConfig struct {
	FailureThreshold  int           `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"gte=0,lte=100"`
	OpenTimeout       time.Duration `yaml:"open_timeout" mapstructure:"open_timeout"`
	HalfOpenSuccesses int           `yaml:"half_open_successes" mapstructure:"half_open_successes" validate:"gte=0,lte=10"`
	MaxAttempts       int           `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=0,lte=10"`
	InitialBackoff    time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff        time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	BackoffFactor     float64       `yaml:"backoff_factor" mapstructure:"backoff_factor" validate:"gte=0,lte=10"`
}

// ApplyDefaults fills missing resilience fields. The open timeout has no
// universal default; each service section sets its own.
func (c *ResilienceConfig) ApplyDefaults(openTimeout time.Duration) {
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout == 0 {
		c.OpenTimeout = openTimeout
	}
	if c.HalfOpenSuccesses == 0 {
		c.HalfOpenSuccesses = 2
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 2 * time.Second
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 60 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
}

// ObservabilityConfig configures OTLP export of traces and metrics.
type ObservabilityConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills missing observability fields.
func (c *ObservabilityConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// ApplyDefaults fills the whole configuration with working development
// defaults. Transcription recovers slowly, so its breaker cools down for
// 120s against diarization's 60s.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Transcription.Resilience.ApplyDefaults(120 * time.Second)
	c.Diarization.Resilience.ApplyDefaults(60 * time.Second)
	c.Roles.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks the configuration. Call ApplyDefaults first.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadPipelineConfig loads, defaults, and validates the pipeline
// configuration from the standard file locations and environment.
func LoadPipelineConfig(opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := Load(cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
