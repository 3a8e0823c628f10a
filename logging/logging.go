package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel parses a level name. "off" and "none" silence everything.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "OFF", "NONE":
		return slog.LevelError + 100, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// New returns the pretty handler when dev is set and a plain text handler
// otherwise.
func New(out io.Writer, level slog.Level, dev bool) *slog.Logger {
	opts := slog.HandlerOptions{Level: level}
	if dev {
		return slog.New(NewPrettyHandler(out, PrettyHandlerOptions{SlogOpts: opts}))
	}
	return slog.New(slog.NewTextHandler(out, &opts))
}
