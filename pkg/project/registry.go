package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osteele/project-version/pkg/logging"
	"github.com/sirupsen/logrus"
)

// Constructor builds a handler for a directory whose marker file exists.
type Constructor func(dir string, logger *logrus.Entry) Handler

type marker struct {
	file        string
	projectType Type
	newHandler  Constructor
}

// Registry maps marker files to handlers in priority order.
type Registry struct {
	markers []marker
	logger  *logrus.Entry
}

// NewRegistry returns the default registry. When several markers coexist
// the first registered wins: package.json, pyproject.toml, Cargo.toml,
// go.mod, Gemfile.
func NewRegistry() *Registry {
	r := &Registry{logger: logging.NewLogger("project")}

	r.Register("package.json", TypeNode, NewNodeHandler)
	r.Register("pyproject.toml", TypePython, NewPythonHandler)
	r.Register("Cargo.toml", TypeRust, NewRustHandler)
	r.Register("go.mod", TypeGo, NewGoHandler)
	r.Register("Gemfile", TypeRuby, NewRubyHandler)

	return r
}

// WithLogger sets the logger handed to handlers.
func (r *Registry) WithLogger(logger *logrus.Entry) *Registry {
	r.logger = logger
	return r
}

// Register appends a marker with the lowest priority so far.
func (r *Registry) Register(file string, projectType Type, newHandler Constructor) {
	r.markers = append(r.markers, marker{file: file, projectType: projectType, newHandler: newHandler})
}

// Markers lists the marker file names in priority order.
func (r *Registry) Markers() []string {
	files := make([]string, len(r.markers))
	for i, m := range r.markers {
		files[i] = m.file
	}
	return files
}

// Detect returns the project for the highest priority marker present in dir.
func (r *Registry) Detect(dir string) (*Project, error) {
	for _, m := range r.markers {
		if _, err := os.Stat(filepath.Join(dir, m.file)); err != nil {
			continue
		}
		r.logger.WithField("marker", m.file).Debugf("Detected %s project", m.projectType.Label())
		return New(m.newHandler(dir, r.logger)).WithLogger(r.logger), nil
	}
	return nil, fmt.Errorf("%w in %s (looked for %s)", ErrNoProject, dir, strings.Join(r.Markers(), ", "))
}

// Detect uses the default registry.
func Detect(dir string) (*Project, error) {
	return NewRegistry().Detect(dir)
}
