package entities

import "regexp"

// SourceType tells whether a requirement pins a registry release or a version-control reference.
type SourceType string

const (
	SourceTypeDefault SourceType = "default"
	SourceTypeGit     SourceType = "git"
)

// Group tags used by ecosystems that declare more than one kind of dependency in a file.
const (
	GroupModules   = "modules"
	GroupProviders = "providers"
)

// MetadataPropertyName holds the placeholder name when a version is declared through a property.
const MetadataPropertyName = "property_name"

// VersionKind classifies the identity space a current version lives in.
type VersionKind int

const (
	VersionKindUnresolved VersionKind = iota
	VersionKindSemantic
	VersionKindOpaqueRef
	VersionKindCommitSha
)

var commitShaPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Source is either Default{Registry} or Git{URL, Branch|Ref}.
// Branch and Ref are mutually exclusive; both empty means "track the default branch".
type Source struct {
	Type     SourceType
	Registry string // registry identifier, empty means the ecosystem default
	URL      string
	Branch   string
	Ref      string
}

// DefaultSource builds a registry source.
func DefaultSource(registry string) Source {
	return Source{Type: SourceTypeDefault, Registry: registry}
}

// GitSource builds a version-control source. Only one of branch or ref should be set.
func GitSource(url, branch, ref string) Source {
	return Source{Type: SourceTypeGit, URL: url, Branch: branch, Ref: ref}
}

func (s Source) IsGit() bool { return s.Type == SourceTypeGit }

// Requirement is one declaration of a dependency in one file.
type Requirement struct {
	File        string
	Requirement *string // nil when the declaration carries no constraint
	Groups      []string
	Source      Source
	Metadata    map[string]string
}

// Text returns the requirement string, or "" when absent.
func (r Requirement) Text() string {
	if r.Requirement == nil {
		return ""
	}
	return *r.Requirement
}

// HasGroup reports whether the requirement is tagged with the given group.
func (r Requirement) HasGroup(group string) bool {
	for _, g := range r.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Equal compares two requirements by file, text and source.
func (r Requirement) Equal(other Requirement) bool {
	if r.File != other.File || r.Source != other.Source {
		return false
	}
	if (r.Requirement == nil) != (other.Requirement == nil) {
		return false
	}
	return r.Text() == other.Text()
}

// WithText returns a copy of the requirement carrying the given text.
func (r Requirement) WithText(text string) Requirement {
	r.Requirement = &text
	return r
}

// Dependency is a single declared dependency and every place it is declared.
type Dependency struct {
	Name                 string
	Version              string // current version, empty when unresolved
	Requirements         []Requirement
	PreviousRequirements []Requirement
	PackageManager       string
}

// IsIndirect is true when nothing in the manifests declares the dependency directly.
func (d Dependency) IsIndirect() bool {
	return len(d.Requirements) == 0
}

// GitSource returns the first Git source among the requirements, if any.
func (d Dependency) GitSource() (Source, bool) {
	for _, req := range d.Requirements {
		if req.Source.IsGit() {
			return req.Source, true
		}
	}
	return Source{}, false
}

// VersionKind classifies the current version.
func (d Dependency) VersionKind() VersionKind {
	return ClassifyVersion(d.Version)
}

// ClassifyVersion tells which identity space a version string belongs to.
func ClassifyVersion(version string) VersionKind {
	switch {
	case version == "":
		return VersionKindUnresolved
	case commitShaPattern.MatchString(version):
		return VersionKindCommitSha
	case IsVersion(version):
		return VersionKindSemantic
	default:
		return VersionKindOpaqueRef
	}
}

// IsCommitSha reports whether the value is a full 40-character commit hash.
func IsCommitSha(value string) bool {
	return commitShaPattern.MatchString(value)
}

// StringPtr is a helper for building requirements.
func StringPtr(value string) *string {
	return &value
}
