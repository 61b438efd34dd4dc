package project

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/osteele/project-version/pkg/version"
)

// Change is one version declaration moving from Old to New.
type Change struct {
	Location string
	Old      string
	New      string
}

// FileEdit holds the rewritten content of one file.
type FileEdit struct {
	Path     string
	Original []byte
	Updated  []byte
	Changes  []Change
}

// Changed reports whether the edit modifies any byte.
func (e FileEdit) Changed() bool {
	return !bytes.Equal(e.Original, e.Updated)
}

// Plan is the shared result of computing an update. Applying it writes the
// edits; previewing it only renders them.
type Plan struct {
	Type Type
	Dir  string
	From version.Version
	To   version.Version

	Edits []FileEdit
	// Unmatched lists files that were located but contained no version
	// declaration the handler could rewrite.
	Unmatched []string
	// Notes are explanatory lines appended to the report.
	Notes []string

	// grouped selects the per-file report layout used by ecosystems that
	// spread the version over several source files.
	grouped bool
}

// Changes flattens the changes of every edit.
func (p *Plan) Changes() []Change {
	var all []Change
	for _, e := range p.Edits {
		all = append(all, e.Changes...)
	}
	return all
}

// Files lists the paths of every edit, in order.
func (p *Plan) Files() []string {
	files := make([]string, 0, len(p.Edits))
	for _, e := range p.Edits {
		files = append(files, e.Path)
	}
	return files
}

// noMatch is true when files were located but none of them could be edited.
func (p *Plan) noMatch() bool {
	return len(p.Edits) == 0 && len(p.Unmatched) > 0
}

func (p *Plan) rel(path string) string {
	if p.Dir == "" {
		return path
	}
	if r, err := filepath.Rel(p.Dir, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}

// Report is a rendered plan, either applied or previewed.
type Report struct {
	*Plan
	DryRun bool
}

func (r *Report) String() string {
	prefix := "Updated"
	if r.DryRun {
		prefix = "Would update"
	}

	var b strings.Builder
	if r.grouped {
		fmt.Fprintf(&b, "%s %s project version from %s to %s:\n", prefix, r.Type.Label(), r.From, r.To)
		for _, e := range r.Edits {
			fmt.Fprintf(&b, "  File: %s\n", r.rel(e.Path))
			for _, c := range e.Changes {
				fmt.Fprintf(&b, "    %s: %s → %s\n", c.Location, c.Old, c.New)
			}
		}
	} else {
		for _, e := range r.Edits {
			fmt.Fprintf(&b, "%s %s:\n", prefix, r.rel(e.Path))
			for _, c := range e.Changes {
				fmt.Fprintf(&b, "  %s: %s → %s\n", c.Location, c.Old, c.New)
			}
		}
	}
	for _, n := range r.Notes {
		fmt.Fprintf(&b, "  %s\n", n)
	}
	return strings.TrimRight(b.String(), "\n")
}
