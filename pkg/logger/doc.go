// Package logger builds log/slog loggers from functional options and keeps
// attribute names consistent across the session packages.
//
// New creates a *slog.Logger with a JSON or text handler, wrapped in a
// LogHandlerDecorator that runs registered ContextExtractor callbacks on
// every record, so request-scoped values such as the request id show up
// without being passed around explicitly.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "session-service"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "session saved",
//	    logger.SessionID(id),
//	    logger.Duration(time.Since(start)),
//	)
//
// NewFromConfig does the same from environment variables (APP_ENV,
// SERVICE_NAME, LOG_LEVEL, LOG_FORMAT).
//
// # Attributes
//
// Error, SessionID and RequestID return an empty slog.Attr for nil or
// empty input, which slog drops, so call sites need no nil checks:
//
//	log.Info("sweep finished", logger.Count(n), logger.Error(err))
package logger
