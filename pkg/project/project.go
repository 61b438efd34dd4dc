package project

import (
	"github.com/osteele/project-version/pkg/fileops"
	"github.com/osteele/project-version/pkg/logging"
	"github.com/osteele/project-version/pkg/version"
	"github.com/sirupsen/logrus"
)

// FileWriter persists rewritten files. *fileops.Service implements it.
type FileWriter interface {
	WriteFile(path string, content []byte) error
}

// Project is a detected project. It owns the apply and preview paths so
// both render the same plan and differ only in the final write.
type Project struct {
	Handler
	writer FileWriter
	logger *logrus.Entry
}

// New wraps a handler. Writes go through a live fileops.Service unless
// WithWriter replaces it.
func New(h Handler) *Project {
	return &Project{
		Handler: h,
		writer:  fileops.NewService(false),
		logger:  logging.NewLogger("project"),
	}
}

// WithWriter sets the writer used by UpdateVersion.
func (p *Project) WithWriter(w FileWriter) *Project {
	p.writer = w
	return p
}

// WithLogger sets the logger used for warnings.
func (p *Project) WithLogger(logger *logrus.Entry) *Project {
	p.logger = logger
	return p
}

// GetVersion returns the current version.
func (p *Project) GetVersion() (version.Version, error) {
	return p.ReadVersion()
}

// UpdateVersion rewrites every version declaration to next. Files already at
// next are left alone. Files are written in plan order; a failed write stops
// the update and earlier files stay rewritten.
func (p *Project) UpdateVersion(next version.Version) (*Report, error) {
	plan, err := p.Plan(next)
	if err != nil {
		return nil, err
	}

	if plan.noMatch() {
		return nil, &FileError{
			Op:   "updating",
			Path: plan.Unmatched[0],
			Kind: ErrNoPatternMatched,
		}
	}
	if len(plan.Edits) == 0 {
		p.logger.Warnf("No version files found for %s project; nothing was updated", p.Type().Label())
	}

	for _, e := range plan.Edits {
		if !e.Changed() {
			p.logger.WithField("file", e.Path).Debug("Version already up to date")
			continue
		}
		if err := p.writer.WriteFile(e.Path, e.Updated); err != nil {
			return nil, &FileError{Op: "writing", Path: e.Path, Kind: ErrWrite, Err: err}
		}
		p.logger.WithField("file", e.Path).Debugf("Wrote version %s", next)
	}
	return &Report{Plan: plan}, nil
}

// DryRunUpdate reports what UpdateVersion would change without writing.
func (p *Project) DryRunUpdate(next version.Version) (*Report, error) {
	plan, err := p.Plan(next)
	if err != nil {
		return nil, err
	}
	if plan.noMatch() {
		p.logger.Warnf("No version patterns matched in %s", plan.rel(plan.Unmatched[0]))
		plan.Notes = append(plan.Notes, "No version patterns were matched in any files.")
	}
	return &Report{Plan: plan, DryRun: true}, nil
}
