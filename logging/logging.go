package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"github.com/uhppoted/reagents-sheets/config"
)

// New creates a logger for a single run, tagged with a unique 'run' attribute so that the
// log lines of overlapping cron invocations can be told apart. The debug flag overrides
// the configured level.
func New(w io.Writer, cfg config.Log, debug bool) *slog.Logger {
	var handler slog.Handler

	level := cfg.Level
	if debug {
		level = slog.LevelDebug
	}

	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Value.Kind() == slog.KindAny {
					if _, ok := a.Value.Any().(error); ok {
						return tint.Attr(9, a)
					}
				}
				return a
			},
		})
	}

	return slog.New(handler).With("run", uuid.NewString())
}
