// Package logging provides structured logging for the target platform service.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Tinted text output for development (github.com/lmittmann/tint)
//   - Size-rotated file output (gopkg.in/natefinch/lumberjack.v2)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, file
//	  file:
//	    path: "./logs/targetplatform.log"
//	    max_size: 100    # megabytes
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("device added", "platform", "LinuxNoEditor", "device", "render-01")
//
// # Security
//
// Never log device passwords. The device registry logs names only.
package logging
