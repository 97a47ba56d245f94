// Package logtail reads the tail of the imgqueue log file for the UI's log
// pane.
//
// Read keeps a ring buffer of the last maxLines lines, so large files are
// scanned once without being held in memory. LevelOf recognizes the level
// field written by both slog handlers, which the UI uses to color lines and
// to hide debug output.
package logtail
