package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/osteele/project-version/pkg/textedit"
	"github.com/osteele/project-version/pkg/version"
	"github.com/sirupsen/logrus"
	"golang.org/x/mod/modfile"
)

// goVersionFiles are the conventional locations of a version constant,
// relative to the module root.
var goVersionFiles = []string{
	"version.go",
	filepath.Join("internal", "version", "version.go"),
	filepath.Join("pkg", "version", "version.go"),
}

// goVersionPattern matches Version = "1.2.3", VERSION string = "v1.2.3" and
// the same with backquotes. An existing "v" prefix stays in place.
var goVersionPattern = textedit.MustCompile("Go version constant",
	"\\b(?:Version|VERSION)(?:\\s+string)?\\s*=\\s*[\"'`]v?(?P<value>\\d+\\.\\d+\\.\\d+)[\"'`]")

// defaultVersion is reported by Go and Ruby projects that declare no version.
var defaultVersion = version.New(0, 1, 0)

type GoHandler struct {
	dir    string
	logger *logrus.Entry
}

func NewGoHandler(dir string, logger *logrus.Entry) Handler {
	return &GoHandler{dir: dir, logger: logger}
}

func (h *GoHandler) Type() Type          { return TypeGo }
func (h *GoHandler) Dir() string         { return h.dir }
func (h *GoHandler) PrimaryFile() string { return filepath.Join(h.dir, "go.mod") }

// Name is the module path declared in go.mod.
func (h *GoHandler) Name() string {
	data, err := os.ReadFile(h.PrimaryFile())
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

// versionFiles returns the candidate files that exist.
func (h *GoHandler) versionFiles() []string {
	var files []string
	for _, rel := range goVersionFiles {
		path := filepath.Join(h.dir, rel)
		if fileExists(path) {
			files = append(files, path)
		}
	}
	return files
}

func (h *GoHandler) ReadVersion() (version.Version, error) {
	v, found, err := h.declaredVersion()
	if err != nil || found {
		return v, err
	}
	h.logger.Warnf("Could not find version information in Go files, using %s; you may need to manually tag this version", defaultVersion)
	return defaultVersion, nil
}

// declaredVersion returns the first version constant of the candidate files.
// found is false when none declares one.
func (h *GoHandler) declaredVersion() (v version.Version, found bool, err error) {
	for _, path := range h.versionFiles() {
		content, err := os.ReadFile(path)
		if err != nil {
			return version.Version{}, false, readError(path, "", err)
		}
		m, ok := goVersionPattern.Find(content)
		if !ok {
			h.logger.WithField("file", path).Debug("No version constant found")
			continue
		}
		v, err := version.Parse(m.Value)
		if err != nil {
			return version.Version{}, false, parseError(path, "Version", err)
		}
		return v, true, nil
	}
	return defaultVersion, false, nil
}

func (h *GoHandler) Plan(next version.Version) (*Plan, error) {
	current, found, err := h.declaredVersion()
	if err != nil {
		return nil, err
	}
	if !found {
		h.logger.Debugf("No version constant, planning from %s", current)
	}
	plan := &Plan{Type: TypeGo, Dir: h.dir, From: current, To: next, grouped: true}

	files := h.versionFiles()
	if len(files) == 0 {
		plan.Notes = append(plan.Notes, "No version files found. You may need to manually create/update version information.")
		return plan, nil
	}

	for _, path := range files {
		edit, ok, err := planPatternEdit(path, next, goVersionPattern)
		if err != nil {
			return nil, err
		}
		if !ok {
			plan.Unmatched = append(plan.Unmatched, path)
			continue
		}
		plan.Edits = append(plan.Edits, edit)
	}
	return plan, nil
}

// FilesToCommit is go.mod plus every version file that declares a version.
func (h *GoHandler) FilesToCommit() []string {
	files := []string{h.PrimaryFile()}
	for _, path := range h.versionFiles() {
		if content, err := os.ReadFile(path); err == nil {
			if _, ok := goVersionPattern.Find(content); ok {
				files = append(files, path)
			}
		}
	}
	return files
}

func (h *GoHandler) RefreshCommand() string { return "go mod tidy" }

// planPatternEdit rewrites the first match of pattern in path, the same
// declaration ReadVersion reports. ok is false when the file has no match.
func planPatternEdit(path string, next version.Version, pattern *textedit.Pattern) (FileEdit, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileEdit{}, false, readError(path, "", err)
	}

	m, ok := pattern.Find(content)
	if !ok {
		return FileEdit{}, false, nil
	}

	return FileEdit{
		Path:     path,
		Original: content,
		Updated:  textedit.Replace(content, []textedit.Match{m}, next.String()),
		Changes: []Change{{
			Location: fmt.Sprintf("line %d", m.Line),
			Old:      m.Value,
			New:      next.String(),
		}},
	}, true, nil
}
