// Package logger builds log/slog loggers with context extraction and
// optional Sentry reporting.
//
// Context extractors run on every log call, so request-scoped values such
// as the request ID or the active locale are attached automatically:
//
//	log := logger.New(logger.Config{Level: "info"}, requestIDExtractor)
//	log.InfoContext(ctx, "page rendered", slog.String("page", "landing"))
//
// When Config.SentryDSN is set, warnings and errors are forwarded to Sentry
// as well; errors create issues. An empty DSN or a failed Sentry init keeps
// stdout-only logging.
package logger
