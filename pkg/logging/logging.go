// Package logging builds the logrus loggers used by every component.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	mu   sync.Mutex
	root = newRoot(os.Stderr)
)

func newRoot(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(formatterFor(out))
	if DebugFromEnv() {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// DebugFromEnv reports whether PROJECT_VERSION_DEBUG or DEBUG is "true".
func DebugFromEnv() bool {
	return os.Getenv("PROJECT_VERSION_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}

func formatterFor(out io.Writer) logrus.Formatter {
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return &logrus.TextFormatter{DisableTimestamp: true}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}

// NewLogger returns an entry tagged with the component name.
func NewLogger(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()
	return root.WithField("component", component)
}

// SetVerbose switches the shared logger to debug level. Verbosity can only be
// raised here; the environment switch still applies when verbose is false.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	if verbose || DebugFromEnv() {
		root.SetLevel(logrus.DebugLevel)
		return
	}
	root.SetLevel(logrus.InfoLevel)
}

// SetOutput redirects the shared logger, picking a formatter for the target.
func SetOutput(out io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root.SetOutput(out)
	root.SetFormatter(formatterFor(out))
}

// Discard returns an entry that drops everything. Handy in tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
