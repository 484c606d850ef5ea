// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework and the catalog sync engine.
//
// # Context Awareness
//
// WithRayID extracts the RayID from a Fiber context and attaches it to the log entry,
// so all logs for one request can be correlated. WithPass does the same for a sync pass,
// tagging every entry produced while a pass is in flight with its pass_id.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.WithPass(log, result.ID)
//	l.Info("Pass committed", zap.Int("records", result.RecordsProcessed))
package logger
