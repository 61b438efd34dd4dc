package project

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/osteele/project-version/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiLocationPyproject = `# Build metadata
[project]
name = "demo"
version = "0.5.1"  # PEP 621

[tool.poetry]
name = "demo"
version = '0.5.1'
description = "A demo"

[tool.black]
line-length = 100
`

func TestPythonMultiLocationUpdate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pyproject.toml", multiLocationPyproject)
	p := detect(t, dir)

	current, err := p.GetVersion()
	require.NoError(t, err)
	next, err := current.Bump(version.Minor)
	require.NoError(t, err)
	assert.Equal(t, "0.6.0", next.String())

	preview, err := p.DryRunUpdate(next)
	require.NoError(t, err)
	assert.Equal(t, "Would update pyproject.toml:\n"+
		"  project.version: 0.5.1 → 0.6.0\n"+
		"  tool.poetry.version: 0.5.1 → 0.6.0", preview.String())

	_, err = p.UpdateVersion(next)
	require.NoError(t, err)

	want := strings.NewReplacer(`"0.5.1"`, `"0.6.0"`, `'0.5.1'`, `'0.6.0'`).Replace(multiLocationPyproject)
	if diff := cmp.Diff(want, readFile(t, path)); diff != "" {
		t.Errorf("pyproject.toml mismatch (-want +got):\n%s", diff)
	}
}

func TestPythonVersionPriority(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"pep621", "[project]\nversion = \"1.0.0\"\n", "1.0.0"},
		{"poetry", "[tool.poetry]\nversion = \"2.0.0\"\n", "2.0.0"},
		{"setuptools", "[tool.setuptools]\nversion = \"3.0.0\"\n", "3.0.0"},
		{"project wins", "[tool.poetry]\nversion = \"2.0.0\"\n\n[project]\nversion = \"1.0.0\"\n", "1.0.0"},
		{"dotted keys", "[tool]\npoetry.version = \"4.0.0\"\n", "4.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "pyproject.toml", tt.content)
			v, err := detect(t, dir).GetVersion()
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestPythonReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    error
		message string
	}{
		{"no version", "[project]\nname = \"x\"\n", ErrVersionRead, "no version field found in pyproject.toml"},
		{"dynamic", "[project]\nname = \"x\"\ndynamic = [\"version\"]\n", ErrVersionRead, "dynamic"},
		{"invalid toml", "[project\nversion = \"1.0.0\"\n", ErrVersionRead, "invalid TOML"},
		{"not a string", "[project]\nversion = 1\n", ErrVersionRead, "not a string"},
		{"inline table", "tool = { poetry = { version = \"1.0.0\" } }\n", ErrVersionRead, "not directly editable"},
		{"bad semver", "[project]\nversion = \"1.0.0.0\"\n", ErrVersionParse, "invalid version format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "pyproject.toml", tt.content)
			_, err := detect(t, dir).GetVersion()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestPythonRefreshCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		files   []string
		want    string
	}{
		{"none", "[project]\nversion = \"1.0.0\"\n", nil, ""},
		{"poetry lock", "[project]\nversion = \"1.0.0\"\n", []string{"poetry.lock"}, "poetry update"},
		{"pipenv", "[project]\nversion = \"1.0.0\"\n", []string{"Pipfile.lock"}, "pipenv update"},
		{"pdm lock", "[project]\nversion = \"1.0.0\"\n", []string{"pdm.lock"}, "pdm update"},
		{"uv lock", "[project]\nversion = \"1.0.0\"\n", []string{"uv.lock"}, "uv sync"},
		{"uv dir", "[project]\nversion = \"1.0.0\"\n", []string{".uv/cache"}, "uv sync"},
		{"lock beats backend", "[tool.pdm]\n[project]\nversion = \"1.0.0\"\n", []string{"poetry.lock"}, "poetry update"},
		{"poetry table", "[tool.poetry]\nversion = \"1.0.0\"\n", nil, "poetry update"},
		{"pdm table", "[tool.pdm]\n[project]\nversion = \"1.0.0\"\n", nil, "pdm update"},
		{"hatch table", "[tool.hatch.build]\n[project]\nversion = \"1.0.0\"\n", nil, "hatch env update"},
		{"requirements", "[project]\nversion = \"1.0.0\"\n", []string{"requirements.txt"}, "pip install -r requirements.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "pyproject.toml", tt.content)
			for _, f := range tt.files {
				writeFile(t, dir, f, "")
			}
			assert.Equal(t, tt.want, detect(t, dir).RefreshCommand())
		})
	}
}
