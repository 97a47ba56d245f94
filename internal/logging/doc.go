// Package logging assembles the slog loggers used by imgqueue.
//
// The interactive UI owns the terminal, so its logger writes only to the
// log file under the configured log directory. CLI commands log to stderr
// and, when a log directory is configured, to the same file.
package logging
