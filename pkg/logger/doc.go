// Package logger provides a structured logging interface for the dictionary scraper.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output
// - Optional file output alongside the console
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "signscraper/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{Level: "info"}
//	err := logger.Initialize(cfg)
//
//	// Log with fields
//	logger.WithFields(map[string]interface{}{
//	    "page":  3,
//	    "cards": 80,
//	}).Info("Page processed")
//
// A TestLogger implementation is provided for capturing log output in tests.
package logger
