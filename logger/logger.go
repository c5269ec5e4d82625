package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// New returns a text logger writing to stdout when path is empty, otherwise
// appending to the file at path. level is one of DEBUG, INFO, WARN, ERROR;
// anything else falls back to INFO and the fallback is logged as a warning.
func New(path string, level string) (*slog.Logger, io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if len(path) > 0 {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "can't open log file %s", path)
		}
		out = f
		closer = f
	}

	lvl, lvlErr := ParseLevel(level)
	l := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
	if lvlErr != nil {
		l.Warn(lvlErr.Error())
	}
	l.Debug("logger initialized", "path", path, "level", lvl.String())
	return l, closer, nil
}

// Discard returns a logger dropping every record (tests).
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts the level name used in the config file.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level %s, using INFO", level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
