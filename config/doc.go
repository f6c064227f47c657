// Package config loads and validates the pipeline configuration from
// YAML files, .env files, and environment variables, in that order of
// precedence.
//
//	cfg, err := config.LoadPipelineConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
