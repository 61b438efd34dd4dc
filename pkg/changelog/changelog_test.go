package changelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/osteele/project-version/pkg/fileops"
	"github.com/osteele/project-version/pkg/logging"
	"github.com/osteele/project-version/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var releaseDay = time.Date(2024, time.March, 9, 15, 4, 5, 0, time.Local)

func newTestUpdater(dryRun bool) *Updater {
	fs := fileops.NewService(dryRun).WithLogger(logging.Discard())
	return NewUpdater(fs).
		WithClock(func() time.Time { return releaseDay }).
		WithLogger(logging.Discard())
}

func TestFind(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"markdown", []string{"README.md", "CHANGELOG.md"}, "CHANGELOG.md"},
		{"plain", []string{"changes"}, "changes"},
		{"history", []string{"History.md"}, "History.md"},
		{"name order", []string{"HISTORY.md", "CHANGELOG.md"}, "CHANGELOG.md"},
		{"other extension", []string{"CHANGELOG.txt"}, ""},
		{"prefix only", []string{"CHANGELOG-old.md"}, ""},
		{"none", []string{"README.md"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0644))
			}
			got, ok := Find(dir)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestFindSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "changes"), 0755))
	_, ok := Find(dir)
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		line    int
	}{
		{
			name:    "bracketed heading",
			content: "# Changelog\n\n## [Unreleased]\n\n- Added a thing\n\n## [0.1.0] - 2024-01-01\n",
			want:    "# Changelog\n\n## [1.2.0] - 2024-03-09\n\n- Added a thing\n\n## [0.1.0] - 2024-01-01\n",
			line:    3,
		},
		{
			name:    "plain heading",
			content: "# Changes\n\n## Unreleased\n- Fix\n",
			want:    "# Changes\n\n## [1.2.0] - 2024-03-09\n- Fix\n",
			line:    3,
		},
		{
			name:    "case insensitive",
			content: "## [UNRELEASED]\n",
			want:    "## [1.2.0] - 2024-03-09\n",
			line:    1,
		},
		{
			name:    "bare link label",
			content: "Intro\n[Unreleased]\n- Fix\n",
			want:    "Intro\n## [1.2.0] - 2024-03-09\n- Fix\n",
			line:    2,
		},
		{
			name:    "first occurrence only",
			content: "## [Unreleased]\n\n## [Unreleased]\n",
			want:    "## [1.2.0] - 2024-03-09\n\n## [Unreleased]\n",
			line:    1,
		},
		{
			name:    "bracketed wins over plain",
			content: "## Unreleased\n\n## [Unreleased]\n",
			want:    "## Unreleased\n\n## [1.2.0] - 2024-03-09\n",
			line:    3,
		},
		{
			name:    "crlf",
			content: "# Changelog\r\n## [Unreleased]\r\n- x\r\n",
			want:    "# Changelog\r\n## [1.2.0] - 2024-03-09\r\n- x\r\n",
			line:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "CHANGELOG.md")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			result, err := newTestUpdater(false).Update(path, version.MustParse("1.2.0"))
			require.NoError(t, err)
			assert.Equal(t, Updated, result.Outcome)
			assert.Equal(t, tt.line, result.Line)
			assert.Equal(t, "## [1.2.0] - 2024-03-09", result.Heading)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestUpdateWithoutUnreleasedSection(t *testing.T) {
	content := "# Changelog\n\n## [1.0.0] - 2023-05-01\n- Unreleased work was shipped\n"
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := newTestUpdater(false).Update(path, version.MustParse("1.1.0"))
	require.NoError(t, err)
	assert.Equal(t, NoUnreleasedSection, result.Outcome)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestPreviewDoesNotWrite(t *testing.T) {
	content := "## [Unreleased]\n"
	path := filepath.Join(t.TempDir(), "CHANGES.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := newTestUpdater(false).Preview(path, version.MustParse("2.0.0"))
	require.NoError(t, err)
	assert.Equal(t, Updated, result.Outcome)
	assert.Equal(t, "## [Unreleased]", result.Old)
	assert.Equal(t, "## [2.0.0] - 2024-03-09\n", string(result.Updated))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestUpdateDryRunService(t *testing.T) {
	content := "## Unreleased\n"
	path := filepath.Join(t.TempDir(), "CHANGELOG")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := newTestUpdater(true).Update(path, version.MustParse("2.0.0"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestUpdateMissingFile(t *testing.T) {
	_, err := newTestUpdater(false).Update(filepath.Join(t.TempDir(), "CHANGELOG.md"), version.MustParse("1.0.0"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "no unreleased section", NoUnreleasedSection.String())
}
