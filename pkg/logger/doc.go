// Package logger builds the service's *slog.Logger and holds the attribute
// helpers used across packages so keys stay consistent.
//
// New writes JSON at info level unless options say otherwise. Config.Options
// turns APP_ENV, SERVICE_NAME, LOG_LEVEL and LOG_FORMAT into options:
// production and staging log JSON at info, everything else logs text at debug.
//
// Attributes whose key looks like a credential (refresh_token, authorization,
// api_key and the rest of DefaultRedactKeys) are replaced with Redacted before
// they reach the output.
//
// ContextExtractor callbacks add request-scoped values on every record:
//
//	log := logger.New(append(cfg.Log.Options(),
//		logger.WithContextExtractors(requestid.LoggerExtractor()))...)
//	log.InfoContext(r.Context(), "email sent", logger.SessionID(id))
//
// Error, SessionID and the other helpers return an empty Attr for empty
// input, which slog drops, so callers need no nil checks.
package logger
