package logger

import (
	"log/slog"
	"os"

	multi "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger: a text handler on stderr, fanned out with
// a rotating JSON file when path is non-empty.  Level names follow slog
// ("debug", "info", "warn", "error").
func New(level, path string) *slog.Logger {
	var lv slog.LevelVar
	lv.Set(parseLevel(level))

	opts := &slog.HandlerOptions{Level: &lv}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}

	if path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    16, // megabytes
			MaxBackups: 4,
			MaxAge:     30, // days
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(file, opts))
	}

	return slog.New(multi.Fanout(handlers...))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
