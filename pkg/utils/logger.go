// Package utils provides shared utilities for logging.
package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger. When debug is true, uses development config
// (human-readable, debug level); otherwise uses production config (JSON, info level).
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewLoggerWithFile returns a logger that also writes to logFile in addition
// to stderr. An empty logFile behaves like NewLogger.
func NewLoggerWithFile(debug bool, logFile string) (*zap.Logger, error) {
	if logFile == "" {
		return NewLogger(debug)
	}
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	return cfg.Build()
}
