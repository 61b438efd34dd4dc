// Package config loads the optional per-project settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/osteele/project-version/pkg/version"
	"gopkg.in/yaml.v3"
)

// FileNames are checked in order; the first one present is loaded.
var FileNames = []string{
	".project-version.yml",
	".project-version.yaml",
	".project-version.toml",
}

const (
	DefaultTagPrefix     = "v"
	DefaultCommitMessage = "release: version {{.Version}}"
)

// Config holds the release settings for a project. Command-line flags
// override every field.
type Config struct {
	TagPrefix           string `yaml:"tag_prefix" toml:"tag_prefix" json:"tag_prefix,omitempty" jsonschema:"description=Prefix prepended to the version to form the tag name,default=v"`
	CommitMessage       string `yaml:"commit_message" toml:"commit_message" json:"commit_message,omitempty" jsonschema:"description=Go text/template for the release commit message; {{.Version}} and {{.Tag}} are available"`
	Commit              bool   `yaml:"commit" toml:"commit" json:"commit,omitempty" jsonschema:"description=Commit the changed files,default=true"`
	Tag                 bool   `yaml:"tag" toml:"tag" json:"tag,omitempty" jsonschema:"description=Tag the release commit,default=true"`
	RefreshDependencies bool   `yaml:"refresh_dependencies" toml:"refresh_dependencies" json:"refresh_dependencies,omitempty" jsonschema:"description=Run the package manager to refresh lock files,default=true"`
	Changelog           string `yaml:"changelog" toml:"changelog" json:"changelog,omitempty" jsonschema:"description=Changelog path relative to the project; found automatically when empty"`

	// Path is the file the configuration was loaded from, if any.
	Path string `yaml:"-" toml:"-" json:"-"`
	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `yaml:"-" toml:"-" json:"-"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		TagPrefix:           DefaultTagPrefix,
		CommitMessage:       DefaultCommitMessage,
		Commit:              true,
		Tag:                 true,
		RefreshDependencies: true,
	}
}

// Load reads the first config file found in dir over the defaults. A
// directory without a config file yields Default().
func Load(dir string) (Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return Parse(path, data)
	}
	return Default(), nil
}

// Parse decodes data over the defaults. The format follows the extension
// of path.
func Parse(path string, data []byte) (Config, error) {
	cfg := Default()
	cfg.Path = path

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse TOML file %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			cfg.Unknown = append(cfg.Unknown, key.String())
		}
	case ".yml", ".yaml":
		if len(bytes.TrimSpace(data)) > 0 {
			unknown, err := decodeYAML(data, &cfg)
			if err != nil {
				return Config{}, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
			}
			cfg.Unknown = unknown
		}
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// decodeYAML decodes data into cfg and returns the top-level keys it does
// not know about.
func decodeYAML(data []byte, cfg *Config) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping at the top level")
	}
	if err := mapping.Decode(cfg); err != nil {
		return nil, err
	}

	known := map[string]bool{
		"tag_prefix": true, "commit_message": true, "commit": true,
		"tag": true, "refresh_dependencies": true, "changelog": true,
	}
	var unknown []string
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if key := mapping.Content[i].Value; !known[key] {
			unknown = append(unknown, key)
		}
	}
	return unknown, nil
}

// Validate checks that the commit message template parses.
func (c Config) Validate() error {
	if _, err := c.commitTemplate(); err != nil {
		return err
	}
	return nil
}

func (c Config) commitTemplate() (*template.Template, error) {
	msg := c.CommitMessage
	if msg == "" {
		msg = DefaultCommitMessage
	}
	tmpl, err := template.New("commit_message").Option("missingkey=error").Parse(msg)
	if err != nil {
		return nil, fmt.Errorf("commit_message: %w", err)
	}
	return tmpl, nil
}

// TagName is the tag recorded for v.
func (c Config) TagName(v version.Version) string {
	return c.TagPrefix + v.String()
}

// CommitMessageFor renders the commit message for v.
func (c Config) CommitMessageFor(v version.Version) (string, error) {
	tmpl, err := c.commitTemplate()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := struct {
		Version string
		Tag     string
	}{Version: v.String(), Tag: c.TagName(v)}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("commit_message: %w", err)
	}
	return buf.String(), nil
}

// ChangelogPath resolves the configured changelog against dir. It returns ""
// when no changelog is configured.
func (c Config) ChangelogPath(dir string) string {
	if c.Changelog == "" {
		return ""
	}
	if filepath.IsAbs(c.Changelog) {
		return c.Changelog
	}
	return filepath.Join(dir, c.Changelog)
}
