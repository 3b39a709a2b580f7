package logger

import (
	"io"
	"log/slog"
	"os"
)

// New строит логгер бота: JSON в stdout, в dev — текстовый хендлер и
// debug-уровень, чтобы диалоги было удобно читать глазами.
func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *slog.Logger {
	var h slog.Handler
	if env == "dev" {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(h).With("service", "supply-bot")
}
