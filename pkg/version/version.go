// Package version holds the semantic version value used across project-version
// and the two ways a new version is computed from the current one: a bump of
// one component, or an explicit caller-supplied version.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrInvalidFormat is returned when a string is not a MAJOR.MINOR.PATCH version.
	ErrInvalidFormat = errors.New("invalid version format")
	// ErrUnsupportedSuffix is returned for versions carrying pre-release or build metadata.
	ErrUnsupportedSuffix = errors.New("pre-release and build metadata are not supported")
)

var canonicalCore = regexp.MustCompile(`^(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)([-+].*)?$`)

// Version is an immutable MAJOR.MINOR.PATCH triple.
type Version struct {
	major uint64
	minor uint64
	patch uint64
}

// New returns the version major.minor.patch.
func New(major, minor, patch uint64) Version {
	return Version{major: major, minor: minor, patch: patch}
}

// Parse parses a canonical "X.Y.Z" string. Leading "v", leading zeros,
// pre-release and build suffixes are all rejected.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if !canonicalCore.MatchString(s) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	sv, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, s, err)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, fmt.Errorf("%w: %q", ErrUnsupportedSuffix, s)
	}
	return fromSemver(sv), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func fromSemver(sv *semver.Version) Version {
	return Version{major: sv.Major(), minor: sv.Minor(), patch: sv.Patch()}
}

func (v Version) semver() *semver.Version {
	return semver.New(v.major, v.minor, v.patch, "", "")
}

// String renders the canonical form without a "v" prefix.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Compare returns -1, 0 or 1 when v is lower than, equal to or greater than o.
func (v Version) Compare(o Version) int {
	return v.semver().Compare(o.semver())
}

func (v Version) LessThan(o Version) bool { return v.Compare(o) < 0 }
func (v Version) Equal(o Version) bool    { return v.Compare(o) == 0 }

// MarshalText lets versions appear as plain strings in JSON output.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
