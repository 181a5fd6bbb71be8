package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	debugEnabled = os.Getenv("PANOS_EOL_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
)

// New creates a text logger writing to out at the given level. The DEBUG and
// PANOS_EOL_DEBUG environment variables force debug level.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if debugEnabled {
		lvl = logrus.DebugLevel
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l, nil
}

// WithRun tags every entry of l with a fresh run_id.
func WithRun(l *logrus.Logger) *logrus.Entry {
	return l.WithField("run_id", uuid.NewString())
}

// Discard returns an entry that drops everything.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
