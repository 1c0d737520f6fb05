package platform

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. With cfg.File set it writes to a
// rotating file; otherwise to fallback. verbose forces debug level.
// The returned closer releases the log file.
func NewLogger(cfg LogConfig, verbose bool, fallback io.Writer) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err == nil {
			level = l
		}
	}
	if verbose {
		level = slog.LevelDebug
	}

	out := fallback
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out, closer = lj, lj
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
