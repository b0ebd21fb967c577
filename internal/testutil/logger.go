package testutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger that discards everything.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
