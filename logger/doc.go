// Package logger provides structured logging for the audio-processing core
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component- and session-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("orchestrator").WithSession(sessionID)
//	log.Info("processing started")
package logger
