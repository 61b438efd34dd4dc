package project

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/osteele/project-version/pkg/tomledit"
	"github.com/osteele/project-version/pkg/version"
	"github.com/sirupsen/logrus"
)

var (
	rustPackageVersion   = []string{"package", "version"}
	rustWorkspaceVersion = []string{"workspace", "package", "version"}
)

type RustHandler struct {
	dir    string
	logger *logrus.Entry
}

func NewRustHandler(dir string, logger *logrus.Entry) Handler {
	return &RustHandler{dir: dir, logger: logger}
}

func (h *RustHandler) Type() Type          { return TypeRust }
func (h *RustHandler) Dir() string         { return h.dir }
func (h *RustHandler) PrimaryFile() string { return filepath.Join(h.dir, "Cargo.toml") }

func (h *RustHandler) Name() string {
	doc, err := loadTOML(h.PrimaryFile())
	if err != nil {
		return ""
	}
	if v, ok := doc.Lookup("package", "name"); ok && v.IsString {
		return v.Text
	}
	return ""
}

// location resolves the single version declaration of a manifest:
// package.version, or workspace.package.version for virtual manifests and
// packages that inherit it with version.workspace = true.
func (h *RustHandler) location(doc *tomledit.Document) (tomledit.Value, error) {
	path := h.PrimaryFile()

	keys := rustPackageVersion
	switch {
	case doc.HasTable("package"):
		v, ok := doc.Lookup(rustPackageVersion...)
		if !ok {
			return tomledit.Value{}, readError(path, "package.version",
				errors.New("no version field found in Cargo.toml package table"))
		}
		if !v.IsString {
			if !inheritsWorkspaceVersion(doc) {
				return tomledit.Value{}, readError(path, v.Path, errors.New("version field is not a string"))
			}
			keys = rustWorkspaceVersion
		}
	case doc.HasTable("workspace", "package"):
		keys = rustWorkspaceVersion
	default:
		return tomledit.Value{}, readError(path, "package", errors.New("no package table found in Cargo.toml"))
	}

	v, ok := doc.Lookup(keys...)
	field := strings.Join(keys, ".")
	switch {
	case !ok:
		return tomledit.Value{}, readError(path, field, errors.New("no version field found in Cargo.toml workspace.package table"))
	case !v.IsString:
		return tomledit.Value{}, readError(path, field, errors.New("version field is not a string"))
	case !v.Editable:
		return tomledit.Value{}, readError(path, field, tomledit.ErrNotEditable)
	}
	return v, nil
}

func inheritsWorkspaceVersion(doc *tomledit.Document) bool {
	var manifest struct {
		Package struct {
			Version struct {
				Workspace bool `toml:"workspace"`
			} `toml:"version"`
		} `toml:"package"`
	}
	if err := doc.Decode(&manifest); err != nil {
		return false
	}
	return manifest.Package.Version.Workspace
}

func (h *RustHandler) ReadVersion() (version.Version, error) {
	doc, err := loadTOML(h.PrimaryFile())
	if err != nil {
		return version.Version{}, err
	}
	loc, err := h.location(doc)
	if err != nil {
		return version.Version{}, err
	}
	v, err := version.Parse(loc.Text)
	if err != nil {
		return version.Version{}, parseError(h.PrimaryFile(), loc.Path, err)
	}
	return v, nil
}

func (h *RustHandler) Plan(next version.Version) (*Plan, error) {
	doc, err := loadTOML(h.PrimaryFile())
	if err != nil {
		return nil, err
	}
	original := doc.Bytes()

	loc, err := h.location(doc)
	if err != nil {
		return nil, err
	}
	current, err := version.Parse(loc.Text)
	if err != nil {
		return nil, parseError(h.PrimaryFile(), loc.Path, err)
	}

	if err := doc.SetString(strings.Split(loc.Path, "."), next.String()); err != nil {
		return nil, &FileError{Op: "updating", Path: h.PrimaryFile(), Field: loc.Path, Kind: ErrWrite, Err: err}
	}

	return &Plan{
		Type: TypeRust,
		Dir:  h.dir,
		From: current,
		To:   next,
		Edits: []FileEdit{{
			Path:     h.PrimaryFile(),
			Original: original,
			Updated:  doc.Bytes(),
			Changes:  []Change{{Location: loc.Path, Old: loc.Text, New: next.String()}},
		}},
	}, nil
}

func (h *RustHandler) FilesToCommit() []string {
	return []string{h.PrimaryFile()}
}

func (h *RustHandler) RefreshCommand() string { return "cargo update" }
