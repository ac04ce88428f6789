// Package logger provides structured logging for sqlshim applications.
//
// It wraps go.uber.org/zap and exposes a small, uniform call shape:
//
//	log.Info(msg, err, fields...)
//	log.ErrorWithContext(ctx, msg, err, fields...)
//
// where fields is zero or more map[string]interface{} values. Every other sqlshim
// package depends on a local Logger interface with exactly these methods, so any
// implementation (including this one) can be plugged in.
//
// Basic Usage:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "billing",
//		EnableTracing: true,
//	})
//
//	log.Error("Statement failed", err, map[string]interface{}{
//		"sql_state": "23000",
//		"query":     "INSERT INTO users ...",
//	})
//
// Tracing Integration:
//
// When EnableTracing is set, the *WithContext methods add trace_id and span_id
// fields taken from the OpenTelemetry span stored in the context. This correlates
// statement failures with the spans the database package opens around execution.
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Supply(logger.Config{Level: logger.Debug}),
//	)
//
// Configuration:
//
//	ZAP_LOGGER_LEVEL=debug          # Log level (debug, info, warning, error)
//	LOGGER_SERVICE_NAME=billing     # Value of the "service" field
//	LOGGER_ENABLE_TRACING=true      # Enable trace correlation fields
//
// Thread Safety:
//
// All methods on Logger are safe for concurrent use by multiple goroutines.
package logger
