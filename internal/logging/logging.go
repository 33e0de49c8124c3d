// Package logging configures the process-wide logrus logger. The terminal is
// owned by tcell while the viewer runs, so log output goes to a file.
package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/vimview/internal/apperr"
	"github.com/sirupsen/logrus"
)

// Logger is the shared logger. It discards output until Setup is called.
var Logger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup points the logger at path (created with parents) and returns a
// closer for the underlying file.
func Setup(path string, debug bool) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	Configure(f, debug)
	return f, nil
}

// Configure sets output and level on the shared logger.
func Configure(out io.Writer, debug bool) {
	Logger.SetOutput(out)
	Logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if debug {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// WithOp returns an entry tagged with the operation name.
func WithOp(op string) *logrus.Entry {
	return Logger.WithField("op", op)
}

// LogError records err with its classification. Rejected user input is
// logged at info level, other recoverable errors at warn level; anything
// unclassified is an error.
func LogError(op string, err error) {
	if err == nil {
		return
	}
	entry := Logger.WithFields(logrus.Fields{
		"op":   op,
		"kind": apperr.KindOf(err).String(),
	})
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Path != "" {
		entry = entry.WithField("path", appErr.Path)
	}
	switch {
	case apperr.IsKind(err, apperr.Validation):
		entry.Info(err.Error())
		return
	case apperr.Recoverable(err):
		entry.Warn(err.Error())
		return
	}
	entry.Error(err.Error())
}
