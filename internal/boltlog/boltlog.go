// Package boltlog wraps logrus with a single package-level logger that is
// silent until a caller configures it, plus small helpers to derive
// request-scoped entries instead of passing a bare io.Writer around.
package boltlog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Default is the package-level logger, discarding output until a caller
// points it somewhere.
var Default = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetOutput redirects the default logger's output.
func SetOutput(w io.Writer) {
	Default.SetOutput(w)
}

// SetLevel adjusts the default logger's verbosity.
func SetLevel(level logrus.Level) {
	Default.SetLevel(level)
}

// For returns a component-scoped entry. Constructors take a *logrus.Entry
// and fall back to For only when none is supplied, so a caller can supply
// their own logger.
func For(component string) *logrus.Entry {
	return Default.WithField("component", component)
}
