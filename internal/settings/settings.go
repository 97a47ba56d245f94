// Package settings holds the converter settings and their persistence.
//
// Persisted data is untrusted: every field is validated on its own and falls
// back to its default, so a bad quality never invalidates a good format.
// Loading and saving never fail; storage problems are logged and the session
// carries on with defaults.
package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/five82/imgqueue/internal/imagefile"
)

// StorageKey is the blob key the settings snapshot is stored under.
const StorageKey = "imgqueue.converter.settings"

// Quality bounds.
const (
	MinQuality     = 1
	MaxQuality     = 100
	defaultQuality = 90
)

// Settings is the user-editable converter configuration.
type Settings struct {
	DestinationFolder    string           `json:"destinationFolder"`
	OutputFormat         imagefile.Format `json:"outputFormat"`
	Quality              int              `json:"quality"`
	StripMetadata        bool             `json:"stripMetadata"`
	PreserveTransparency bool             `json:"preserveTransparency"`
}

// Store is a string-keyed blob store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Defaults returns the documented default settings.
func Defaults() Settings {
	return Settings{
		DestinationFolder:    "",
		OutputFormat:         imagefile.PNG,
		Quality:              defaultQuality,
		StripMetadata:        true,
		PreserveTransparency: true,
	}
}

// DestinationSet reports whether a destination folder was chosen.
func (s Settings) DestinationSet() bool {
	return s.DestinationFolder != ""
}

// WithDestination returns s with a new destination folder.
func (s Settings) WithDestination(folder string) Settings {
	s.DestinationFolder = folder
	return s
}

// WithOutputFormat returns s with format, ignoring unknown formats.
func (s Settings) WithOutputFormat(format imagefile.Format) Settings {
	if format.Valid() {
		s.OutputFormat = format
	}
	return s
}

// WithQuality returns s with quality clamped into range.
func (s Settings) WithQuality(quality int) Settings {
	s.Quality = clampQuality(quality)
	return s
}

// WithStripMetadata returns s with the metadata flag set.
func (s Settings) WithStripMetadata(strip bool) Settings {
	s.StripMetadata = strip
	return s
}

// WithPreserveTransparency returns s with the transparency flag set.
func (s Settings) WithPreserveTransparency(preserve bool) Settings {
	s.PreserveTransparency = preserve
	return s
}

// Decode parses a persisted snapshot. It never fails: unreadable input
// yields Defaults, and readable input is coerced field by field.
func Decode(raw []byte) Settings {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Defaults()
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return Defaults()
	}
	return Coerce(fields)
}

// Encode serializes s for persistence.
func Encode(s Settings) ([]byte, error) {
	return json.Marshal(s)
}

// Load reads settings from store. Missing, unreadable or corrupt data yields
// defaults.
func Load(ctx context.Context, store Store, logger *slog.Logger) Settings {
	logger = orDiscard(logger)
	if store == nil {
		return Defaults()
	}
	raw, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		logger.Warn("settings load failed; using defaults", "error", err)
		return Defaults()
	}
	if !ok {
		return Defaults()
	}
	return Decode(raw)
}

// Save persists the full snapshot. Failures are logged and swallowed.
func Save(ctx context.Context, store Store, s Settings, logger *slog.Logger) {
	logger = orDiscard(logger)
	if store == nil {
		return
	}
	raw, err := Encode(s)
	if err != nil {
		logger.Warn("settings encode failed", "error", err)
		return
	}
	if err := store.Set(ctx, StorageKey, raw); err != nil {
		logger.Warn("settings save failed", "error", err)
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
