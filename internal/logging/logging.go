package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a colourised text logger writing to stderr at the given level.
func New(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	lg := logrus.New()
	lg.Out = os.Stderr
	lg.Formatter = &logrus.TextFormatter{ForceColors: true, FullTimestamp: true}
	lg.Level = lvl
	return lg, nil
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *logrus.Logger {
	lg := logrus.New()
	lg.Out = io.Discard
	return lg
}
