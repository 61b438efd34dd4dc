package project

import (
	"github.com/osteele/project-version/pkg/version"
)

type Type string

const (
	TypeNode   Type = "node"
	TypePython Type = "python"
	TypeRust   Type = "rust"
	TypeGo     Type = "go"
	TypeRuby   Type = "ruby"
)

// Label is the human readable ecosystem name.
func (t Type) Label() string {
	switch t {
	case TypeNode:
		return "Node.js"
	case TypePython:
		return "Python"
	case TypeRust:
		return "Rust"
	case TypeGo:
		return "Go"
	case TypeRuby:
		return "Ruby"
	}
	return string(t)
}

// Handler defines the interface for ecosystem specific version access.
// ReadVersion and Plan must agree on where the version lives.
type Handler interface {
	Type() Type
	Dir() string

	// PrimaryFile is the manifest that identified the project.
	PrimaryFile() string
	// Name is the declared package name, or "" when there is none.
	Name() string

	ReadVersion() (version.Version, error)
	// Plan computes every change needed to move to next. It never writes.
	Plan(next version.Version) (*Plan, error)

	// FilesToCommit lists the primary file plus auxiliary version files.
	FilesToCommit() []string
	// RefreshCommand guesses the lock file refresh command; "" when there
	// is no reasonable guess.
	RefreshCommand() string
}
