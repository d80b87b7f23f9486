package testutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger returns a logger that swallows output, keeping test logs quiet.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
