package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns the process logger: human-readable text in dev, JSON otherwise.
func New(dev bool) *slog.Logger {
	return NewWithWriter(os.Stdout, dev)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
