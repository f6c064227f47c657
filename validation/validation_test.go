package validation

import (
	"errors"
	"strings"
	"testing"
)

type breaker struct {
	FailureThreshold int     `mapstructure:"failure_threshold" validate:"gte=1"`
	OpenSeconds      int     `mapstructure:"open_seconds" validate:"gt=0"`
	Name             string  `mapstructure:"name" validate:"required"`
	Midpoint         float64 `mapstructure:"midpoint" validate:"gte=0,lte=1"`
}

func TestValidate_Passes(t *testing.T) {
	cfg := breaker{FailureThreshold: 5, OpenSeconds: 120, Name: "transcription", Midpoint: 0.35}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	cfg := breaker{FailureThreshold: 0, OpenSeconds: 0, Name: "", Midpoint: 1.5}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %T", err)
	}
	if len(verr.Fields) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(verr.Fields), verr.Fields)
	}
}

func TestValidate_UsesMapstructureNames(t *testing.T) {
	cfg := breaker{FailureThreshold: 5, OpenSeconds: 60, Name: "", Midpoint: 0.35}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "name: is required") {
		t.Errorf("expected mapstructure field name in message, got %q", err.Error())
	}
}
