// Package logger provides structured logging utilities built on Go's standard slog package.
//
// It offers a small factory with environment presets and a set of attribute helpers
// used across the adapter so that log records share consistent keys.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/webbridge/core/logger"
//
//	log := logger.New(
//		logger.WithProduction("webbridge"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//
//	log.Info("request handled",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(200),
//		logger.Latency(time.Since(start)),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, which slog drops:
//
//	log.Warn("could not remove staged upload",
//		logger.Upload(u.Field, u.Path),
//		logger.Error(err),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
package logger
