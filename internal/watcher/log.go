package watcher

import (
	"context"
	"log/slog"
	"strings"
)

const (
	changePreview = 70
	outputPreview = 150
)

// logChange logs event at INFO and, at DEBUG, a one-line preview of text.
func logChange(event, text string, limit int) {
	slog.Info(event, "bytes", len(text))

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug("clipboard preview", "text", preview(text, limit))
}

// preview folds newlines and truncates text to limit runes.
func preview(text string, limit int) string {
	s := strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text))
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return s
}
