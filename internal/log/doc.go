// Package log provides the application's logging setup, built on top of
// the standard slog package.
//
// This package extends slog to provide:
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//   - A JSON handler variant for machine-readable output
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("calibration converged",
//	    "iterations", 3,
//	    "log_amplitude", 2.31,
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
