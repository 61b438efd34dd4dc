package project

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrNoProject        = errors.New("no supported project found")
	ErrVersionRead      = errors.New("cannot read version")
	ErrVersionParse     = errors.New("invalid version")
	ErrWrite            = errors.New("cannot write version")
	ErrNoPatternMatched = errors.New("no version pattern matched")
)

// FileError reports a failure tied to one file and, when known, the field
// inside it that was being read or written.
type FileError struct {
	Op    string // "reading", "parsing", "writing", "updating"
	Path  string
	Field string
	Kind  error
	Err   error
}

func (e *FileError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" ")
	b.WriteString(e.Path)
	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(e.Kind.Error())
	}
	return b.String()
}

func (e *FileError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func readError(path, field string, err error) error {
	return &FileError{Op: "reading", Path: path, Field: field, Kind: ErrVersionRead, Err: err}
}

func parseError(path, field string, err error) error {
	return &FileError{Op: "parsing", Path: path, Field: field, Kind: ErrVersionParse, Err: err}
}
