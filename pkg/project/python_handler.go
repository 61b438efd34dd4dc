package project

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/osteele/project-version/pkg/tomledit"
	"github.com/osteele/project-version/pkg/version"
	"github.com/sirupsen/logrus"
)

// pythonVersionPaths lists where pyproject.toml may declare a version, in
// the order they are read. Every one present is rewritten.
var pythonVersionPaths = [][]string{
	{"project", "version"},
	{"tool", "poetry", "version"},
	{"tool", "setuptools", "version"},
}

type PythonHandler struct {
	dir    string
	logger *logrus.Entry
}

func NewPythonHandler(dir string, logger *logrus.Entry) Handler {
	return &PythonHandler{dir: dir, logger: logger}
}

func (h *PythonHandler) Type() Type          { return TypePython }
func (h *PythonHandler) Dir() string         { return h.dir }
func (h *PythonHandler) PrimaryFile() string { return filepath.Join(h.dir, "pyproject.toml") }

func (h *PythonHandler) Name() string {
	doc, err := loadTOML(h.PrimaryFile())
	if err != nil {
		return ""
	}
	for _, path := range [][]string{{"project", "name"}, {"tool", "poetry", "name"}} {
		if v, ok := doc.Lookup(path...); ok && v.IsString {
			return v.Text
		}
	}
	return ""
}

// locations returns every declared version string, in read order.
func (h *PythonHandler) locations(doc *tomledit.Document) ([]tomledit.Value, error) {
	path := h.PrimaryFile()
	var found []tomledit.Value
	for _, keys := range pythonVersionPaths {
		v, ok := doc.Lookup(keys...)
		if !ok {
			continue
		}
		if !v.IsString {
			return nil, readError(path, v.Path, errors.New("version field is not a string"))
		}
		if !v.Editable {
			return nil, readError(path, v.Path, tomledit.ErrNotEditable)
		}
		found = append(found, v)
	}
	if len(found) > 0 {
		return found, nil
	}

	if isDynamicVersion(doc) {
		return nil, readError(path, "project.version",
			errors.New("version is declared dynamic in [project]; it is set by the build backend, not pyproject.toml"))
	}
	return nil, readError(path, "", errors.New("no version field found in pyproject.toml"))
}

func isDynamicVersion(doc *tomledit.Document) bool {
	var meta struct {
		Project struct {
			Dynamic []string `toml:"dynamic"`
		} `toml:"project"`
	}
	if err := doc.Decode(&meta); err != nil {
		return false
	}
	return slices.Contains(meta.Project.Dynamic, "version")
}

func (h *PythonHandler) ReadVersion() (version.Version, error) {
	doc, err := loadTOML(h.PrimaryFile())
	if err != nil {
		return version.Version{}, err
	}
	locs, err := h.locations(doc)
	if err != nil {
		return version.Version{}, err
	}
	v, err := version.Parse(locs[0].Text)
	if err != nil {
		return version.Version{}, parseError(h.PrimaryFile(), locs[0].Path, err)
	}
	return v, nil
}

func (h *PythonHandler) Plan(next version.Version) (*Plan, error) {
	doc, err := loadTOML(h.PrimaryFile())
	if err != nil {
		return nil, err
	}
	original := doc.Bytes()

	locs, err := h.locations(doc)
	if err != nil {
		return nil, err
	}
	current, err := version.Parse(locs[0].Text)
	if err != nil {
		return nil, parseError(h.PrimaryFile(), locs[0].Path, err)
	}

	edit := FileEdit{Path: h.PrimaryFile(), Original: original}
	for _, loc := range locs {
		if err := doc.SetString(strings.Split(loc.Path, "."), next.String()); err != nil {
			return nil, &FileError{Op: "updating", Path: h.PrimaryFile(), Field: loc.Path, Kind: ErrWrite, Err: err}
		}
		edit.Changes = append(edit.Changes, Change{Location: loc.Path, Old: loc.Text, New: next.String()})
	}
	edit.Updated = doc.Bytes()

	return &Plan{Type: TypePython, Dir: h.dir, From: current, To: next, Edits: []FileEdit{edit}}, nil
}

func (h *PythonHandler) FilesToCommit() []string {
	return []string{h.PrimaryFile()}
}

// RefreshCommand checks lock files, then build backend tables, then
// requirements.txt. It returns "" when none of them is present.
func (h *PythonHandler) RefreshCommand() string {
	lockFiles := []struct{ file, command string }{
		{"poetry.lock", "poetry update"},
		{"Pipfile.lock", "pipenv update"},
		{"pdm.lock", "pdm update"},
		{"uv.lock", "uv sync"},
		{".uv", "uv sync"},
	}
	for _, lf := range lockFiles {
		if fileExists(filepath.Join(h.dir, lf.file)) {
			return lf.command
		}
	}

	if content, err := os.ReadFile(h.PrimaryFile()); err == nil {
		switch {
		case bytes.Contains(content, []byte("[tool.poetry]")):
			return "poetry update"
		case bytes.Contains(content, []byte("[tool.pdm]")):
			return "pdm update"
		case bytes.Contains(content, []byte("[tool.hatch")):
			return "hatch env update"
		}
	}

	if fileExists(filepath.Join(h.dir, "requirements.txt")) {
		return "pip install -r requirements.txt"
	}
	return ""
}

func loadTOML(path string) (*tomledit.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(path, "", err)
	}
	doc, err := tomledit.Parse(content)
	if err != nil {
		return nil, readError(path, "", err)
	}
	return doc, nil
}
