package version

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDowngrade is returned by Set when the requested version is lower than
// the current one and no override was given.
var ErrDowngrade = errors.New("new version lower than current")

// BumpKind selects which component a bump increments.
type BumpKind string

const (
	Major BumpKind = "major"
	Minor BumpKind = "minor"
	Patch BumpKind = "patch"
)

// BumpKinds lists the accepted bump kinds in display order.
var BumpKinds = []BumpKind{Major, Minor, Patch}

// ParseBumpKind accepts "major", "minor" or "patch" in any case.
func ParseBumpKind(s string) (BumpKind, error) {
	kind := BumpKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range BumpKinds {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown bump type %q (expected major, minor or patch)", s)
}

// Bump returns the next version for kind. Lower components are reset to zero.
func (v Version) Bump(kind BumpKind) (Version, error) {
	sv := v.semver()
	switch kind {
	case Major:
		return fromSemver(ptr(sv.IncMajor())), nil
	case Minor:
		return fromSemver(ptr(sv.IncMinor())), nil
	case Patch:
		return fromSemver(ptr(sv.IncPatch())), nil
	}
	return Version{}, fmt.Errorf("unknown bump type %q", kind)
}

// ParseUserInput parses a version typed by a user, allowing a leading "v".
func ParseUserInput(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	v, err := Parse(trimmed)
	if err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			return Version{}, fmt.Errorf("%w: %s", ErrInvalidFormat, s)
		}
		return Version{}, fmt.Errorf("%w: %s: %w", ErrInvalidFormat, s, err)
	}
	return v, nil
}

// Set validates an explicit target against current. Downgrades fail with
// ErrDowngrade unless force is true.
func Set(current Version, target string, force bool) (Version, error) {
	next, err := ParseUserInput(target)
	if err != nil {
		return Version{}, err
	}
	if !force && next.LessThan(current) {
		return Version{}, fmt.Errorf("%w: new version (%s) is lower than current version (%s); use --force to override this check",
			ErrDowngrade, next, current)
	}
	return next, nil
}

func ptr[T any](v T) *T { return &v }
