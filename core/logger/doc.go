// Package logger builds the zap loggers used across asset-core.
//
// New reads a Config: level debug selects zap's development preset (ISO8601
// timestamps, stack traces on warn), anything else the production preset.
// Format picks json or console encoding.
//
// Request handlers log through WithRayID so every line of one request carries
// the same ray_id field:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Reload failed", zap.Error(err))
//
// CLI commands report failures through NewConsole before any configuration
// is loaded.
package logger
