package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/osteele/project-version/pkg/textedit"
	"github.com/osteele/project-version/pkg/version"
	"github.com/sirupsen/logrus"
)

var (
	gemspecGlob = glob.MustCompile("*.gemspec")

	// spec.version = "1.2.3" or version = '1.2.3'. Computed versions such as
	// spec.version = Foo::VERSION do not match and defer to version.rb.
	gemspecVersionPattern = textedit.MustCompile("gemspec version",
		`(?m)^[ \t]*(?:\w+\.)?version[ \t]*=[ \t]*['"](?P<value>\d+\.\d+\.\d+)['"]`)
	gemspecNamePattern = textedit.MustCompile("gemspec name",
		`(?m)^[ \t]*(?:\w+\.)?name[ \t]*=[ \t]*['"](?P<value>[^'"]+)['"]`)
	versionRbPattern = textedit.MustCompile("version.rb constant",
		`(?m)^[ \t]*VERSION[ \t]*=[ \t]*['"](?P<value>\d+\.\d+\.\d+)['"]`)
)

type RubyHandler struct {
	dir    string
	logger *logrus.Entry
}

func NewRubyHandler(dir string, logger *logrus.Entry) Handler {
	return &RubyHandler{dir: dir, logger: logger}
}

func (h *RubyHandler) Type() Type          { return TypeRuby }
func (h *RubyHandler) Dir() string         { return h.dir }
func (h *RubyHandler) PrimaryFile() string { return filepath.Join(h.dir, "Gemfile") }

// Name is the gem name declared in the gemspec.
func (h *RubyHandler) Name() string {
	gemspec := h.gemspecFile()
	if gemspec == "" {
		return ""
	}
	content, err := os.ReadFile(gemspec)
	if err != nil {
		return ""
	}
	if m, ok := gemspecNamePattern.Find(content); ok {
		return m.Value
	}
	return ""
}

// gemspecFile returns the first *.gemspec in the project directory by name.
func (h *RubyHandler) gemspecFile() string {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() && gemspecGlob.Match(e.Name()) {
			return filepath.Join(h.dir, e.Name())
		}
	}
	return ""
}

// versionRbFile looks for version.rb next to the gem's code: first under the
// gem name from the gemspec, then in any direct subdirectory of the project
// or of lib/, then lib/version.rb.
func (h *RubyHandler) versionRbFile() string {
	var candidates []string
	if name := h.Name(); name != "" {
		nested := filepath.FromSlash(strings.ReplaceAll(name, "-", "/"))
		candidates = append(candidates,
			filepath.Join(h.dir, "lib", name, "version.rb"),
			filepath.Join(h.dir, "lib", nested, "version.rb"),
			filepath.Join(h.dir, name, "version.rb"),
		)
	}
	candidates = append(candidates, subdirVersionFiles(filepath.Join(h.dir, "lib"))...)
	candidates = append(candidates, subdirVersionFiles(h.dir)...)
	candidates = append(candidates, filepath.Join(h.dir, "lib", "version.rb"))

	for _, path := range candidates {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func subdirVersionFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			paths = append(paths, filepath.Join(dir, e.Name(), "version.rb"))
		}
	}
	sort.Strings(paths)
	return paths
}

// sources pairs each discovered file with the pattern that reads and
// rewrites it, gemspec first.
func (h *RubyHandler) sources() []rubySource {
	var sources []rubySource
	if path := h.gemspecFile(); path != "" {
		sources = append(sources, rubySource{path: path, pattern: gemspecVersionPattern})
	}
	if path := h.versionRbFile(); path != "" {
		sources = append(sources, rubySource{path: path, pattern: versionRbPattern})
	}
	return sources
}

type rubySource struct {
	path    string
	pattern *textedit.Pattern
}

func (h *RubyHandler) ReadVersion() (version.Version, error) {
	v, found, err := h.declaredVersion()
	if err != nil || found {
		return v, err
	}
	h.logger.Warnf("Could not find version information in Ruby project files, using %s", defaultVersion)
	return defaultVersion, nil
}

// declaredVersion returns the version of the first source that declares one.
func (h *RubyHandler) declaredVersion() (v version.Version, found bool, err error) {
	for _, src := range h.sources() {
		content, err := os.ReadFile(src.path)
		if err != nil {
			return version.Version{}, false, readError(src.path, "", err)
		}
		m, ok := src.pattern.Find(content)
		if !ok {
			continue
		}
		v, err := version.Parse(m.Value)
		if err != nil {
			return version.Version{}, false, parseError(src.path, "version", err)
		}
		return v, true, nil
	}
	return defaultVersion, false, nil
}

func (h *RubyHandler) Plan(next version.Version) (*Plan, error) {
	current, found, err := h.declaredVersion()
	if err != nil {
		return nil, err
	}
	if !found {
		h.logger.Debugf("No version declaration, planning from %s", current)
	}
	plan := &Plan{Type: TypeRuby, Dir: h.dir, From: current, To: next, grouped: true}

	sources := h.sources()
	if len(sources) == 0 {
		plan.Notes = append(plan.Notes, "No gemspec or version.rb found. You may need to manually create/update version information.")
		return plan, nil
	}

	for _, src := range sources {
		edit, ok, err := planPatternEdit(src.path, next, src.pattern)
		if err != nil {
			return nil, err
		}
		if !ok {
			plan.Unmatched = append(plan.Unmatched, src.path)
			continue
		}
		plan.Edits = append(plan.Edits, edit)
	}
	return plan, nil
}

// FilesToCommit is the Gemfile plus the gemspec and version.rb files that
// declare a version.
func (h *RubyHandler) FilesToCommit() []string {
	files := []string{h.PrimaryFile()}
	for _, src := range h.sources() {
		if content, err := os.ReadFile(src.path); err == nil {
			if _, ok := src.pattern.Find(content); ok {
				files = append(files, src.path)
			}
		}
	}
	return files
}

func (h *RubyHandler) RefreshCommand() string { return "bundle install" }
