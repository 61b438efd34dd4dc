package cmd

import (
	"errors"
	"fmt"

	"github.com/osteele/project-version/pkg/git"
	"github.com/osteele/project-version/pkg/project"
	"github.com/osteele/project-version/pkg/version"
	"github.com/spf13/cobra"
)

// Exit codes returned by the binary.
const (
	ExitOK = iota
	ExitError
	ExitUsage
	ExitNoProject
	ExitVersionRead
	ExitVersionParse
	ExitDowngrade
	ExitWrite
	ExitNoPatternMatched
	ExitCommandFailed
)

// usageError marks bad command-line input.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs wraps an argument validator so its failures count as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	case errors.Is(err, project.ErrNoProject):
		return ExitNoProject
	case errors.Is(err, project.ErrVersionRead):
		return ExitVersionRead
	case errors.Is(err, project.ErrVersionParse),
		errors.Is(err, version.ErrInvalidFormat),
		errors.Is(err, version.ErrUnsupportedSuffix):
		return ExitVersionParse
	case errors.Is(err, version.ErrDowngrade):
		return ExitDowngrade
	case errors.Is(err, project.ErrWrite):
		return ExitWrite
	case errors.Is(err, project.ErrNoPatternMatched):
		return ExitNoPatternMatched
	case errors.Is(err, git.ErrCommandFailed):
		return ExitCommandFailed
	}
	return ExitError
}
