// Package fileops performs the side effects of a release: rewriting files and
// running shell commands. It respects dry-run mode and keeps a log of every
// action so callers can report exactly what happened.
package fileops

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/osteele/project-version/pkg/logging"
	"github.com/sirupsen/logrus"
)

// Action represents a single action performed or simulated by the service.
type Action struct {
	Type        ActionType
	Description string
	Path        string
	Success     bool
	Error       error
}

// ActionType represents the type of action being performed.
type ActionType string

const (
	ActionWriteFile  ActionType = "write_file"
	ActionRunCommand ActionType = "run_command"
)

// Service encapsulates file writes and command execution.
type Service struct {
	dryRun  bool
	actions []Action
	logger  *logrus.Entry
}

// NewService creates a new service.
func NewService(dryRun bool) *Service {
	return &Service{
		dryRun:  dryRun,
		actions: []Action{},
		logger:  logging.NewLogger("fileops"),
	}
}

// WithLogger replaces the service logger.
func (s *Service) WithLogger(logger *logrus.Entry) *Service {
	s.logger = logger
	return s
}

// IsDryRun returns whether the service is in dry-run mode.
func (s *Service) IsDryRun() bool {
	return s.dryRun
}

// Actions returns all actions performed or simulated.
func (s *Service) Actions() []Action {
	return s.actions
}

// WrittenFiles returns the paths successfully written, in order.
func (s *Service) WrittenFiles() []string {
	var paths []string
	for _, a := range s.actions {
		if a.Type == ActionWriteFile && a.Success && !s.dryRun {
			paths = append(paths, a.Path)
		}
	}
	return paths
}

func (s *Service) logAction(actionType ActionType, description, path string, success bool, err error) {
	s.actions = append(s.actions, Action{
		Type:        actionType,
		Description: description,
		Path:        path,
		Success:     success,
		Error:       err,
	})
}

// WriteFile overwrites an existing file in place, keeping its permissions.
// New files are created with mode 0644.
func (s *Service) WriteFile(path string, content []byte) error {
	description := fmt.Sprintf("Write %s", path)
	if s.dryRun {
		s.logger.Debugf("[dry-run] Would write to %s", path)
		s.logAction(ActionWriteFile, description, path, true, nil)
		return nil
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := os.WriteFile(path, content, perm); err != nil {
		s.logAction(ActionWriteFile, description, path, false, err)
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	s.logger.Debugf("Wrote %s", path)
	s.logAction(ActionWriteFile, description, path, true, nil)
	return nil
}

// CommandResult holds the captured output of a shell command.
type CommandResult struct {
	Command string
	Stdout  string
	Stderr  string
}

// RunShell runs command through `sh -c` in dir and waits for it to exit.
// In dry-run mode nothing is executed.
func (s *Service) RunShell(ctx context.Context, dir, command string) (*CommandResult, error) {
	description := fmt.Sprintf("Run %s", command)
	result := &CommandResult{Command: command}

	if s.dryRun {
		s.logger.Debugf("[dry-run] Would run: %s", command)
		s.logAction(ActionRunCommand, description, dir, true, nil)
		return result, nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	if err != nil {
		s.logAction(ActionRunCommand, description, dir, false, err)
		detail := strings.TrimSpace(result.Stderr)
		if detail == "" {
			return result, fmt.Errorf("failed to run %s: %w", command, err)
		}
		return result, fmt.Errorf("failed to run %s: %w: %s", command, err, detail)
	}

	s.logger.WithField("dir", dir).Debugf("Ran: %s", command)
	s.logAction(ActionRunCommand, description, dir, true, nil)
	return result, nil
}
