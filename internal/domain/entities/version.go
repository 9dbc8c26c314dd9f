package entities

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/mod/module"
)

var (
	// pseudo-versions outside Go still carry the timestamp-hash suffix
	pseudoVersionPattern = regexp.MustCompile(`\b\d{14}-[0-9a-f]{12}$`)
	versionTagPattern    = regexp.MustCompile(`^([A-Za-z]*)(\d+(?:\.\d+)*)$`)
)

// VersionCandidate is one published version of a dependency.
type VersionCandidate struct {
	Value           string
	IsPrerelease    bool
	IsPseudoVersion bool

	parsed *semver.Version
}

// NewVersionCandidate parses value; ok is false when it is outside the semantic-version space.
func NewVersionCandidate(value string) (VersionCandidate, bool) {
	parsed, err := semver.NewVersion(value)
	if err != nil {
		return VersionCandidate{Value: value, IsPseudoVersion: IsPseudoVersion(value)}, false
	}
	return VersionCandidate{
		Value:           value,
		IsPrerelease:    parsed.Prerelease() != "",
		IsPseudoVersion: IsPseudoVersion(value),
		parsed:          parsed,
	}, true
}

// Semver exposes the parsed form, nil for candidates outside the semantic space.
func (c VersionCandidate) Semver() *semver.Version {
	return c.parsed
}

// LessThan orders candidates within the semantic-version subspace.
func (c VersionCandidate) LessThan(other VersionCandidate) bool {
	if c.parsed == nil || other.parsed == nil {
		return false
	}
	return c.parsed.LessThan(other.parsed)
}

// IsVersion reports whether value parses as a semantic version (leading "v" allowed).
func IsVersion(value string) bool {
	_, err := semver.NewVersion(value)
	return err == nil
}

// IsPrerelease reports whether value is a semantic version with a prerelease segment.
func IsPrerelease(value string) bool {
	parsed, err := semver.NewVersion(value)
	return err == nil && parsed.Prerelease() != ""
}

// IsPseudoVersion reports whether value encodes a commit timestamp and hash instead of a tag.
func IsPseudoVersion(value string) bool {
	if value == "" {
		return false
	}
	canonical := value
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	return module.IsPseudoVersion(canonical) || pseudoVersionPattern.MatchString(value)
}

// SameVersion compares two version strings semantically, falling back to text equality.
func SameVersion(a, b string) bool {
	left, errA := semver.NewVersion(a)
	right, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return left.Equal(right)
}

// TrimVersionPrefix drops a single leading "v" from a semantic version.
func TrimVersionPrefix(value string) string {
	if strings.HasPrefix(value, "v") && IsVersion(value) {
		return value[1:]
	}
	return value
}

// TagShape describes a tag that looks like a release: an alphabetic prefix followed by
// dot-separated numbers ("v0.2.0", "r2018.04.23").
type TagShape struct {
	Prefix   string
	Segments int
}

// ShapeOfTag returns the release shape of a tag name, ok is false for anything else.
func ShapeOfTag(tag string) (TagShape, bool) {
	match := versionTagPattern.FindStringSubmatch(tag)
	if match == nil {
		return TagShape{}, false
	}
	return TagShape{Prefix: match[1], Segments: strings.Count(match[2], ".") + 1}, true
}
