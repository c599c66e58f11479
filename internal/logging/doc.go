// Package logging provides structured logging utilities for personal-calendar-mcp.
//
// Everything logs through log/slog. This package keeps attribute names
// consistent and makes sure secrets (the web app secret, the caller API key)
// are never written in clear text:
//
//	logger := logging.WithTool(slog.Default(), "google_calendar_create_event")
//	logger.Info("posting event", logging.CalendarID(id))
//	logger.Debug("config loaded", "secret", logging.SanitizeToken(cfg.WebAppSecret))
package logging
