package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/osteele/project-version/pkg/git"
	"github.com/osteele/project-version/pkg/project"
	"github.com/osteele/project-version/pkg/version"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitError},
		{"usage", usageErrorf("bad flag"), ExitUsage},
		{"no project", fmt.Errorf("in /tmp: %w", project.ErrNoProject), ExitNoProject},
		{"read", &project.FileError{Op: "reading", Path: "package.json", Kind: project.ErrVersionRead}, ExitVersionRead},
		{"parse", &project.FileError{Op: "parsing", Path: "Cargo.toml", Kind: project.ErrVersionParse}, ExitVersionParse},
		{"invalid input", fmt.Errorf("%w: abc", version.ErrInvalidFormat), ExitVersionParse},
		{"downgrade", fmt.Errorf("%w: lower", version.ErrDowngrade), ExitDowngrade},
		{"write", &project.FileError{Op: "writing", Path: "go.mod", Kind: project.ErrWrite}, ExitWrite},
		{"no pattern", &project.FileError{Op: "updating", Path: "version.go", Kind: project.ErrNoPatternMatched}, ExitNoPatternMatched},
		{"git", &git.CommandError{Args: []string{"commit"}, Err: errors.New("exit status 1")}, ExitCommandFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
