// Package logging builds the slog loggers used across the daemon and
// provides attr helpers plus context-derived structured fields (pipeline id,
// stage, correlation id) so every component logs with consistent keys.
package logging
