package settings

import (
	"context"
	"log/slog"
	"strings"
)

// ThemeKey stores the UI theme name alongside the converter settings.
const ThemeKey = "imgqueue.ui.theme"

// LoadTheme returns the stored theme name, or fallback when none is stored.
func LoadTheme(ctx context.Context, store Store, fallback string, logger *slog.Logger) string {
	if store == nil {
		return fallback
	}
	raw, ok, err := store.Get(ctx, ThemeKey)
	if err != nil {
		orDiscard(logger).Warn("theme load failed", "error", err)
		return fallback
	}
	name := strings.TrimSpace(string(raw))
	if !ok || name == "" {
		return fallback
	}
	return name
}

// SaveTheme persists the theme name. Failures are logged and swallowed.
func SaveTheme(ctx context.Context, store Store, name string, logger *slog.Logger) {
	if store == nil {
		return
	}
	if err := store.Set(ctx, ThemeKey, []byte(name)); err != nil {
		orDiscard(logger).Warn("theme save failed", "error", err)
	}
}
