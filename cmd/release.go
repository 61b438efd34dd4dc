package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/osteele/project-version/pkg/changelog"
	"github.com/osteele/project-version/pkg/config"
	"github.com/osteele/project-version/pkg/fileops"
	"github.com/osteele/project-version/pkg/git"
	"github.com/osteele/project-version/pkg/logging"
	"github.com/osteele/project-version/pkg/project"
	"github.com/osteele/project-version/pkg/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// releaseFlags are shared by bump and set.
type releaseFlags struct {
	noCommit  bool
	noTag     bool
	forceTag  bool
	noRefresh bool
}

func (f *releaseFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.noCommit, "no-commit", false, "Skip committing changes")
	fs.BoolVar(&f.noTag, "no-tag", false, "Skip tagging the commit")
	fs.BoolVar(&f.forceTag, "force-tag", false, "Force tag creation (overwrite existing tag)")
	fs.BoolVar(&f.noRefresh, "no-refresh", false, "Skip refreshing dependency lock files")
}

// release carries one version change through every step: version files,
// changelog, lock files, commit and tag.
type release struct {
	out     io.Writer
	dir     string
	verbose bool
	cfg     config.Config

	project   *project.Project
	fs        *fileops.Service
	git       *git.Client
	changelog *changelog.Updater
	logger    *logrus.Entry

	// confirmOverwrite decides whether an existing tag is moved.
	confirmOverwrite func(tag string) (bool, error)
}

// newRelease detects the project in dir and loads its configuration.
// Flags override the configuration file.
func newRelease(out io.Writer, opts *globalOptions, dir string, flags releaseFlags) (*release, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger("release")
	if cfg.Path != "" {
		logger.WithField("file", cfg.Path).Debug("Loaded configuration")
		for _, key := range cfg.Unknown {
			logger.Warnf("Unknown key %q in %s", key, filepath.Base(cfg.Path))
		}
	}
	if flags.noCommit {
		cfg.Commit = false
	}
	if flags.noTag {
		cfg.Tag = false
	}
	if flags.noRefresh {
		cfg.RefreshDependencies = false
	}

	fs := fileops.NewService(opts.dryRun)
	p, err := project.Detect(dir)
	if err != nil {
		return nil, err
	}

	r := &release{
		out:       out,
		dir:       dir,
		verbose:   opts.verbose,
		cfg:       cfg,
		project:   p.WithWriter(fs),
		fs:        fs,
		git:       git.NewClient(dir, opts.dryRun),
		changelog: changelog.NewUpdater(fs),
		logger:    logger,
	}
	r.confirmOverwrite = func(tag string) (bool, error) {
		if flags.forceTag {
			return true, nil
		}
		ok, err := confirmTagOverwrite(tag)
		if err == nil && !ok && !isInteractive() {
			r.logger.Warnf("Tag %s already exists; use --force-tag to overwrite it", tag)
		}
		return ok, err
	}
	return r, nil
}

// run moves the project from current to next. verb names the operation in
// the first output line ("Bumping", "Setting").
func (r *release) run(ctx context.Context, verb string, current, next version.Version) error {
	if r.fs.IsDryRun() {
		fmt.Fprintln(r.out, dryRunStyle.Render("[DRY RUN] No files will be modified"))
	}
	fmt.Fprintf(r.out, "%s version: %s → %s\n", verb,
		versionStyle.Render(current.String()), newVersionStyle.Render(next.String()))

	if err := r.updateVersionFiles(next); err != nil {
		return err
	}
	changelogPath, err := r.updateChangelog(next)
	if err != nil {
		return err
	}
	r.refreshDependencies(ctx)
	if err := r.commitAndTag(ctx, next, changelogPath); err != nil {
		return err
	}

	for _, a := range r.fs.Actions() {
		r.logger.WithFields(logrus.Fields{
			"action":  a.Type,
			"success": a.Success,
		}).Debug(a.Description)
	}
	return nil
}

func (r *release) updateVersionFiles(next version.Version) error {
	if r.fs.IsDryRun() {
		report, err := r.project.DryRunUpdate(next)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s %s\n", dryRunPrefix(), report)
		return nil
	}

	report, err := r.project.UpdateVersion(next)
	if err != nil {
		return err
	}
	r.logger.WithField("files", report.Files()).Debug("Updated version files")
	if len(report.Edits) > 0 {
		fmt.Fprintln(r.out, report)
	}
	return nil
}

// updateChangelog returns the changelog path when one exists.
func (r *release) updateChangelog(next version.Version) (string, error) {
	path := r.cfg.ChangelogPath(r.dir)
	if path == "" {
		found, ok := changelog.Find(r.dir)
		if !ok {
			r.logger.Debug("No changelog found")
			return "", nil
		}
		path = found
	}
	if r.verbose {
		fmt.Fprintf(r.out, "Found changelog at %s\n", path)
	}

	if r.fs.IsDryRun() {
		result, err := r.changelog.Preview(path, next)
		if err != nil {
			return "", err
		}
		if result.Outcome == changelog.Updated {
			fmt.Fprintf(r.out, "%s Would update %s:\n  %s → %s\n", dryRunPrefix(), filepath.Base(path), result.Old, result.Heading)
		} else {
			fmt.Fprintf(r.out, "%s No unreleased section found in %s\n", dryRunPrefix(), filepath.Base(path))
		}
		return path, nil
	}

	result, err := r.changelog.Update(path, next)
	if err != nil {
		return "", err
	}
	if result.Outcome == changelog.Updated {
		fmt.Fprintf(r.out, "Updated changelog: %s\n", path)
	}
	return path, nil
}

// refreshDependencies runs the package manager. Failures are reported and
// the release continues.
func (r *release) refreshDependencies(ctx context.Context) {
	command := r.project.RefreshCommand()
	if command == "" || !r.cfg.RefreshDependencies {
		return
	}
	if r.fs.IsDryRun() {
		fmt.Fprintf(r.out, "%s Would update dependencies with: %s\n", dryRunPrefix(), commandStyle.Render(command))
		return
	}

	fmt.Fprintf(r.out, "Updating dependencies with: %s\n", commandStyle.Render(command))
	result, err := r.fs.RunShell(ctx, r.project.Dir(), command)
	if err != nil {
		r.logger.WithError(err).Warn("Failed to update dependencies")
		return
	}
	if r.verbose && strings.TrimSpace(result.Stdout) != "" {
		fmt.Fprintf(r.out, "Package manager output:\n%s\n", result.Stdout)
	}
	fmt.Fprintln(r.out, successStyle.Render("Successfully updated dependencies"))
}

func (r *release) commitAndTag(ctx context.Context, next version.Version, changelogPath string) error {
	if !r.cfg.Commit {
		return nil
	}
	tag := r.cfg.TagName(next)
	message, err := r.cfg.CommitMessageFor(next)
	if err != nil {
		return err
	}

	if r.fs.IsDryRun() {
		if r.cfg.Tag {
			fmt.Fprintf(r.out, "%s Would commit changes and create tag %s\n", dryRunPrefix(), tag)
		} else {
			fmt.Fprintf(r.out, "%s Would commit changes\n", dryRunPrefix())
		}
		return nil
	}

	if err := r.git.EnsureRepository(ctx); err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			r.logger.Warn("Not a git repository, skipping commit and tag")
			return nil
		}
		return err
	}

	files := r.project.FilesToCommit()
	if changelogPath != "" {
		files = append(files, changelogPath)
	}
	if err := r.git.Commit(ctx, files, message); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Committed version bump")

	if !r.cfg.Tag {
		return nil
	}
	return r.tag(ctx, tag)
}

func (r *release) tag(ctx context.Context, tag string) error {
	exists, err := r.git.TagExists(ctx, tag)
	if err != nil {
		return err
	}
	if !exists {
		if err := r.git.Tag(ctx, tag, false); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Created tag: %s\n", tagStyle.Render(tag))
		return nil
	}

	overwrite, err := r.confirmOverwrite(tag)
	if err != nil {
		return err
	}
	if !overwrite {
		fmt.Fprintln(r.out, warningStyle.Render("Skipped tag creation (tag already exists)"))
		return nil
	}
	if err := r.git.Tag(ctx, tag, true); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Overwrote existing tag: %s\n", tagStyle.Render(tag))
	return nil
}
