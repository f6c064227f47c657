// Package validation provides struct-tag validation for configuration
// types, built on go-playground/validator.
//
// # Usage
//
//	type Config struct {
//	    FailureThreshold int `mapstructure:"failure_threshold" validate:"gte=1"`
//	}
//
//	if err := validation.Validate(cfg); err != nil {
//	    return err
//	}
package validation
