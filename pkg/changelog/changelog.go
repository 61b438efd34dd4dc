// Package changelog turns the unreleased section of a changelog into a
// dated release section.
package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/osteele/project-version/pkg/logging"
	"github.com/osteele/project-version/pkg/textedit"
	"github.com/osteele/project-version/pkg/version"
	"github.com/sirupsen/logrus"
)

// fileNames matches lower-cased changelog file names.
var fileNames = glob.MustCompile("{changelog,changes,history,changelog.md,changes.md,history.md}")

// unreleasedHeadings are tried in order; the first one found is replaced,
// first occurrence only. Each spans the whole heading line.
var unreleasedHeadings = []*textedit.Pattern{
	textedit.MustCompile("## [Unreleased]", `(?mi)^(?P<value>##[ \t]*\[unreleased\][^\r\n]*)`),
	textedit.MustCompile("## Unreleased", `(?mi)^(?P<value>##[ \t]+unreleased\b[^\r\n]*)`),
	textedit.MustCompile("[Unreleased]", `(?mi)^(?P<value>\[unreleased\])[ \t]*\r?$`),
}

// Outcome is the result of a changelog update.
type Outcome int

const (
	Updated Outcome = iota
	NoUnreleasedSection
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case NoUnreleasedSection:
		return "no unreleased section"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result describes a planned or applied changelog update.
type Result struct {
	Path     string
	Outcome  Outcome
	Old      string // replaced heading line
	Heading  string // new heading line
	Line     int
	Original []byte
	Updated  []byte
}

// Find returns the changelog in dir, matching names case-insensitively.
// Candidates are considered in name order.
func Find(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if fileNames.Match(strings.ToLower(name)) {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

// Heading renders the release heading for v on day.
func Heading(v version.Version, day time.Time) string {
	return fmt.Sprintf("## [%s] - %s", v, day.Format("2006-01-02"))
}

// FileWriter persists the rewritten changelog.
type FileWriter interface {
	WriteFile(path string, content []byte) error
}

// Updater rewrites changelogs.
type Updater struct {
	writer FileWriter
	now    func() time.Time
	logger *logrus.Entry
}

// NewUpdater returns an updater writing through writer and dating headings
// with the local clock.
func NewUpdater(writer FileWriter) *Updater {
	return &Updater{
		writer: writer,
		now:    time.Now,
		logger: logging.NewLogger("changelog"),
	}
}

// WithClock replaces the clock used for heading dates.
func (u *Updater) WithClock(now func() time.Time) *Updater {
	u.now = now
	return u
}

// WithLogger replaces the logger.
func (u *Updater) WithLogger(logger *logrus.Entry) *Updater {
	u.logger = logger
	return u
}

func (u *Updater) plan(path string, v version.Version) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read changelog %s: %w", path, err)
	}

	result := &Result{Path: path, Outcome: NoUnreleasedSection, Original: content, Updated: content}
	for _, p := range unreleasedHeadings {
		m, ok := p.Find(content)
		if !ok {
			continue
		}
		u.logger.WithField("pattern", p.Name).Debugf("Found unreleased section at line %d", m.Line)
		result.Outcome = Updated
		result.Old = m.Value
		result.Heading = Heading(v, u.now())
		result.Line = m.Line
		result.Updated = textedit.Replace(content, []textedit.Match{m}, result.Heading)
		break
	}
	return result, nil
}

// Update replaces the unreleased heading in path with a heading for v.
// A changelog without an unreleased section is left alone and reported
// with NoUnreleasedSection.
func (u *Updater) Update(path string, v version.Version) (*Result, error) {
	result, err := u.plan(path, v)
	if err != nil {
		return nil, err
	}
	if result.Outcome != Updated {
		u.logger.Warnf("No unreleased section found in %s", filepath.Base(path))
		return result, nil
	}
	if err := u.writer.WriteFile(path, result.Updated); err != nil {
		return nil, err
	}
	return result, nil
}

// Preview reports what Update would do without writing.
func (u *Updater) Preview(path string, v version.Version) (*Result, error) {
	return u.plan(path, v)
}
