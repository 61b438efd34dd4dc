package project

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/osteele/project-version/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packageJSON = `{
  "name": "@scope/demo",
  "engines": { "node": ">=18", "version": "9.9.9" },
  "version"  :   "0.4.1",
  "scripts": {
    "build": "tsc"
  },
  "publishConfig": {"version": "0.0.0"}
}
`

func TestNodeFormatPreservation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "package.json", packageJSON)
	p := detect(t, dir)

	v, err := p.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.4.1", v.String())
	assert.Equal(t, "@scope/demo", p.Name())

	report, err := p.UpdateVersion(version.MustParse("0.5.0"))
	require.NoError(t, err)

	want := strings.Replace(packageJSON, `"0.4.1"`, `"0.5.0"`, 1)
	if diff := cmp.Diff(want, readFile(t, path)); diff != "" {
		t.Errorf("package.json mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Updated package.json:\n  version: 0.4.1 → 0.5.0", report.String())
}

func TestNodeReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    error
		message string
	}{
		{"missing version", `{"name": "x", "engines": {"version": "1.0.0"}}`, ErrVersionRead, "no version field"},
		{"not a string", `{"version": 1}`, ErrVersionRead, "not a string"},
		{"invalid json", `{"version": "1.0.0"`, ErrVersionRead, "invalid JSON"},
		{"not an object", `["1.0.0"]`, ErrVersionRead, "not a JSON object"},
		{"bad semver", `{"version": "1.0"}`, ErrVersionParse, "invalid version format"},
		{"prerelease", `{"version": "1.0.0-beta.1"}`, ErrVersionParse, "1.0.0-beta.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "package.json", tt.content)
			p := detect(t, dir)

			_, err := p.GetVersion()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, err.Error(), filepath.Join(dir, "package.json"))

			_, err = p.DryRunUpdate(version.MustParse("2.0.0"))
			assert.ErrorIs(t, err, tt.kind, "preview must fail the same way")
		})
	}
}

func TestNodeRefreshCommand(t *testing.T) {
	tests := []struct {
		lockFiles []string
		want      string
	}{
		{nil, "npm install"},
		{[]string{"package-lock.json"}, "npm install"},
		{[]string{"pnpm-lock.yaml"}, "pnpm install"},
		{[]string{"yarn.lock"}, "yarn"},
		{[]string{"bun.lockb"}, "bun install"},
		{[]string{"yarn.lock", "package-lock.json"}, "yarn"},
		{[]string{"bun.lockb", "yarn.lock", "pnpm-lock.yaml"}, "bun install"},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+strings.Join(tt.lockFiles, ","), func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "package.json", `{"version": "1.0.0"}`)
			for _, f := range tt.lockFiles {
				writeFile(t, dir, f, "")
			}
			assert.Equal(t, tt.want, detect(t, dir).RefreshCommand())
		})
	}
}
