package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osteele/project-version/pkg/textedit"
	"github.com/osteele/project-version/pkg/version"
	"github.com/sirupsen/logrus"
)

var nodeVersionPattern = textedit.MustCompile("package.json version",
	`"version"\s*:\s*"(?P<value>[^"\\]*)"`)

type NodeHandler struct {
	dir    string
	logger *logrus.Entry
}

func NewNodeHandler(dir string, logger *logrus.Entry) Handler {
	return &NodeHandler{dir: dir, logger: logger}
}

func (h *NodeHandler) Type() Type          { return TypeNode }
func (h *NodeHandler) Dir() string         { return h.dir }
func (h *NodeHandler) PrimaryFile() string { return filepath.Join(h.dir, "package.json") }

func (h *NodeHandler) Name() string {
	data, err := os.ReadFile(h.PrimaryFile())
	if err != nil {
		return ""
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Name
}

// nodeVersion is the top level "version" member of a package.json.
type nodeVersion struct {
	value string
	match textedit.Match
}

// locate finds the top level "version" member. Nested objects such as
// "engines" or "publishConfig" are skipped, so only the package's own version
// is ever read or rewritten.
func (h *NodeHandler) locate(content []byte) (nodeVersion, error) {
	path := h.PrimaryFile()
	var decoded any
	if err := json.Unmarshal(content, &decoded); err != nil {
		return nodeVersion{}, readError(path, "", fmt.Errorf("invalid JSON: %w", err))
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	tok, err := dec.Token()
	if err != nil {
		return nodeVersion{}, readError(path, "", fmt.Errorf("invalid JSON: %w", err))
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nodeVersion{}, readError(path, "", errors.New("package.json is not a JSON object"))
	}

	for dec.More() {
		start := int(dec.InputOffset())
		keyTok, err := dec.Token()
		if err != nil {
			return nodeVersion{}, readError(path, "", fmt.Errorf("invalid JSON: %w", err))
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nodeVersion{}, readError(path, "", fmt.Errorf("invalid JSON: %w", err))
		}
		if key, _ := keyTok.(string); key != "version" {
			continue
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nodeVersion{}, readError(path, "version", errors.New("version field is not a string"))
		}
		m, ok := nodeVersionPattern.FindFrom(content, start)
		if !ok || m.End > int(dec.InputOffset()) || m.Value != value {
			return nodeVersion{}, readError(path, "version", errors.New("version field uses escapes and cannot be rewritten in place"))
		}
		return nodeVersion{value: value, match: m}, nil
	}
	return nodeVersion{}, readError(path, "version", errors.New("no version field found in package.json"))
}

func (h *NodeHandler) read() ([]byte, nodeVersion, error) {
	content, err := os.ReadFile(h.PrimaryFile())
	if err != nil {
		return nil, nodeVersion{}, readError(h.PrimaryFile(), "", err)
	}
	loc, err := h.locate(content)
	if err != nil {
		return nil, nodeVersion{}, err
	}
	return content, loc, nil
}

func (h *NodeHandler) ReadVersion() (version.Version, error) {
	_, loc, err := h.read()
	if err != nil {
		return version.Version{}, err
	}
	v, err := version.Parse(loc.value)
	if err != nil {
		return version.Version{}, parseError(h.PrimaryFile(), "version", err)
	}
	return v, nil
}

func (h *NodeHandler) Plan(next version.Version) (*Plan, error) {
	content, loc, err := h.read()
	if err != nil {
		return nil, err
	}
	current, err := version.Parse(loc.value)
	if err != nil {
		return nil, parseError(h.PrimaryFile(), "version", err)
	}

	return &Plan{
		Type: TypeNode,
		Dir:  h.dir,
		From: current,
		To:   next,
		Edits: []FileEdit{{
			Path:     h.PrimaryFile(),
			Original: content,
			Updated:  textedit.Replace(content, []textedit.Match{loc.match}, next.String()),
			Changes:  []Change{{Location: "version", Old: loc.value, New: next.String()}},
		}},
	}, nil
}

func (h *NodeHandler) FilesToCommit() []string {
	return []string{h.PrimaryFile()}
}

// RefreshCommand picks the package manager from the lock file present,
// defaulting to npm.
func (h *NodeHandler) RefreshCommand() string {
	lockFiles := []struct{ file, command string }{
		{"bun.lockb", "bun install"},
		{"yarn.lock", "yarn"},
		{"pnpm-lock.yaml", "pnpm install"},
		{"package-lock.json", "npm install"},
	}
	for _, lf := range lockFiles {
		if fileExists(filepath.Join(h.dir, lf.file)) {
			return lf.command
		}
	}
	return "npm install"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
