package textedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var constPattern = MustCompile("Go version constant",
	`\b(?:Version|VERSION)\s*=\s*"v?(?P<value>\d+\.\d+\.\d+)"`)

func TestCompileRequiresValueGroup(t *testing.T) {
	_, err := Compile("bad", `version = "(\d+)"`)
	assert.Error(t, err)

	_, err = Compile("broken", `(?P<value>`)
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	src := []byte("package version\n\n// Version of the tool.\nconst Version = \"v1.4.2\"\n")

	m, ok := constPattern.Find(src)
	require.True(t, ok)
	assert.Equal(t, "1.4.2", m.Value)
	assert.Equal(t, 4, m.Line)
	assert.Equal(t, "1.4.2", string(src[m.Start:m.End]))

	_, ok = constPattern.Find([]byte("const Name = \"x\"\n"))
	assert.False(t, ok)
}

func TestFindFrom(t *testing.T) {
	src := []byte(`VERSION = "1.0.0"` + "\n" + `Version = "2.0.0"` + "\n")

	m, ok := constPattern.FindFrom(src, 5)
	require.True(t, ok)
	assert.Equal(t, "2.0.0", m.Value)
	assert.Equal(t, 2, m.Line)

	_, ok = constPattern.FindFrom(src, len(src)+1)
	assert.False(t, ok)
}

func TestReplacePreservesSurroundings(t *testing.T) {
	src := []byte("// header\nconst Version = \"v0.9.0\" // keep me\nvar VERSION = \"0.9.0\"\n")

	first, ok := constPattern.Find(src)
	require.True(t, ok)
	second, ok := constPattern.FindFrom(src, first.End)
	require.True(t, ok)

	out := Replace(src, []Match{first, second}, "1.0.0")
	assert.Equal(t, "// header\nconst Version = \"v1.0.0\" // keep me\nvar VERSION = \"1.0.0\"\n", string(out))
	assert.Equal(t, "// header\nconst Version = \"v0.9.0\" // keep me\nvar VERSION = \"0.9.0\"\n", string(src), "input must not be modified")
}

func TestReplaceIsIdempotent(t *testing.T) {
	src := []byte(`const Version = "1.2.3"`)
	m, ok := constPattern.Find(src)
	require.True(t, ok)
	once := Replace(src, []Match{m}, "1.2.4")
	m, ok = constPattern.Find(once)
	require.True(t, ok)
	twice := Replace(once, []Match{m}, "1.2.4")
	assert.Equal(t, once, twice)
}

func TestReplaceNoMatches(t *testing.T) {
	src := []byte("nothing here")
	assert.Equal(t, src, Replace(src, nil, "1.0.0"))
}
