package version

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr error
	}{
		{input: "1.2.3", want: New(1, 2, 3)},
		{input: "0.0.0", want: New(0, 0, 0)},
		{input: " 10.20.30 ", want: New(10, 20, 30)},
		{input: "v1.2.3", wantErr: ErrInvalidFormat},
		{input: "1.2", wantErr: ErrInvalidFormat},
		{input: "01.2.3", wantErr: ErrInvalidFormat},
		{input: "1.2.x", wantErr: ErrInvalidFormat},
		{input: "", wantErr: ErrInvalidFormat},
		{input: "1.2.3-beta.1", wantErr: ErrUnsupportedSuffix},
		{input: "1.2.3+build.5", wantErr: ErrUnsupportedSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0.1.0", "1.2.3", "12.0.99"} {
		assert.Equal(t, s, MustParse(s).String())
	}
}

func TestCompare(t *testing.T) {
	assert.True(t, New(1, 2, 3).LessThan(New(1, 2, 4)))
	assert.True(t, New(1, 9, 9).LessThan(New(2, 0, 0)))
	assert.True(t, New(1, 10, 0).Equal(MustParse("1.10.0")))
	assert.Equal(t, 1, New(2, 0, 0).Compare(New(1, 99, 99)))
	assert.Equal(t, 0, New(0, 1, 0).Compare(New(0, 1, 0)))
}

func TestBump(t *testing.T) {
	current := New(1, 2, 3)

	tests := []struct {
		kind BumpKind
		want Version
	}{
		{Major, New(2, 0, 0)},
		{Minor, New(1, 3, 0)},
		{Patch, New(1, 2, 4)},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := current.Bump(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, New(1, 2, 3), current, "bump must not mutate the receiver")

	_, err := current.Bump("huge")
	assert.Error(t, err)
}

func TestParseBumpKind(t *testing.T) {
	for _, k := range BumpKinds {
		kind, err := ParseBumpKind(" " + strings.ToUpper(string(k)) + " ")
		require.NoError(t, err)
		assert.Equal(t, k, kind)
	}

	_, err := ParseBumpKind("micro")
	assert.Error(t, err)
}

func TestParseUserInput(t *testing.T) {
	v, err := ParseUserInput("v3.1.4")
	require.NoError(t, err)
	assert.Equal(t, New(3, 1, 4), v)

	v, err = ParseUserInput("2.0.0")
	require.NoError(t, err)
	assert.Equal(t, New(2, 0, 0), v)

	_, err = ParseUserInput("vv1.0.0")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseUserInput("1.0.0-rc.1")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorIs(t, err, ErrUnsupportedSuffix)
}

func TestSet(t *testing.T) {
	current := New(2, 0, 0)

	_, err := Set(current, "1.0.0", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDowngrade)
	assert.Contains(t, err.Error(), "--force")

	v, err := Set(current, "1.0.0", true)
	require.NoError(t, err)
	assert.Equal(t, New(1, 0, 0), v)

	v, err = Set(current, "v2.0.0", false)
	require.NoError(t, err, "setting the current version again is not a downgrade")
	assert.Equal(t, current, v)

	_, err = Set(current, "two", false)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestMarshalText(t *testing.T) {
	b, err := New(4, 5, 6).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "4.5.6", string(b))
}
