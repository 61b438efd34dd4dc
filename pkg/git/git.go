// Package git wraps the git commands used to record a release: staging,
// committing and tagging.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/osteele/project-version/pkg/logging"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotRepository = errors.New("not a git repository")
	ErrCommandFailed = errors.New("git command failed")
)

// CommandError is a git invocation that exited unsuccessfully.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() []error { return []error{ErrCommandFailed, e.Err} }

// Client runs git in one working directory. In dry-run mode commands that
// change the repository are logged instead of executed.
type Client struct {
	dir    string
	dryRun bool
	binary string
	logger *logrus.Entry
}

func NewClient(dir string, dryRun bool) *Client {
	return &Client{
		dir:    dir,
		dryRun: dryRun,
		binary: "git",
		logger: logging.NewLogger("git"),
	}
}

// WithLogger replaces the logger.
func (c *Client) WithLogger(logger *logrus.Entry) *Client {
	c.logger = logger
	return c
}

// EnsureRepository returns ErrNotRepository unless dir is inside a work tree.
func (c *Client) EnsureRepository(ctx context.Context) error {
	out, err := c.output(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return fmt.Errorf("%s: %w", c.dir, ErrNotRepository)
	}
	return nil
}

// Commit stages files and commits them with message.
func (c *Client) Commit(ctx context.Context, files []string, message string) error {
	if len(files) == 0 {
		return fmt.Errorf("nothing to commit")
	}
	addArgs := append([]string{"add", "--"}, files...)
	if err := c.execute(ctx, "Staging files", addArgs...); err != nil {
		return err
	}
	return c.execute(ctx, "Committing", "commit", "-m", message)
}

// TagExists reports whether tag is already defined.
func (c *Client) TagExists(ctx context.Context, tag string) (bool, error) {
	out, err := c.output(ctx, "tag", "-l", tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Tag creates tag at HEAD, replacing an existing tag when force is set.
func (c *Client) Tag(ctx context.Context, tag string, force bool) error {
	args := []string{"tag"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, tag)
	return c.execute(ctx, "Creating tag", args...)
}

// execute runs a mutating command, or only logs it in dry-run mode.
func (c *Client) execute(ctx context.Context, description string, args ...string) error {
	fields := logrus.Fields{
		"command": fmt.Sprintf("git %s", strings.Join(args, " ")),
		"dir":     c.dir,
	}
	if c.dryRun {
		c.logger.WithFields(fields).Info("[DRY RUN] Would execute")
		return nil
	}

	c.logger.WithFields(fields).Debug(description)
	_, err := c.output(ctx, args...)
	return err
}

// output runs git and returns its stdout.
func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = c.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}
