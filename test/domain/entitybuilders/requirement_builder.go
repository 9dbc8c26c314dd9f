//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// RequirementBuilder helps create test requirements with a fluent interface.
type RequirementBuilder struct {
	*testkit.BaseBuilder
	file        string
	requirement *string
	groups      []string
	source      entities.Source
	metadata    map[string]string
}

// NewRequirementBuilder creates a requirement on Gopkg.toml with a default source and no text.
func NewRequirementBuilder() *RequirementBuilder {
	return &RequirementBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		file:        "Gopkg.toml",
		source:      entities.DefaultSource(""),
	}
}

// WithFile sets the declaring file.
func (b *RequirementBuilder) WithFile(file string) *RequirementBuilder {
	b.file = file
	return b
}

// WithText sets the requirement text.
func (b *RequirementBuilder) WithText(text string) *RequirementBuilder {
	b.requirement = &text
	return b
}

// WithGroups sets the group tags.
func (b *RequirementBuilder) WithGroups(groups ...string) *RequirementBuilder {
	b.groups = groups
	return b
}

// WithSource sets the source.
func (b *RequirementBuilder) WithSource(source entities.Source) *RequirementBuilder {
	b.source = source
	return b
}

// WithMetadata adds one metadata entry.
func (b *RequirementBuilder) WithMetadata(key, value string) *RequirementBuilder {
	if b.metadata == nil {
		b.metadata = make(map[string]string)
	}
	b.metadata[key] = value
	return b
}

// Build creates the requirement (satisfies testkit.Builder interface).
func (b *RequirementBuilder) Build() interface{} {
	return b.BuildRequirement()
}

// BuildRequirement creates the requirement with a concrete return type.
func (b *RequirementBuilder) BuildRequirement() entities.Requirement {
	requirement := entities.Requirement{
		File:   b.file,
		Groups: b.groups,
		Source: b.source,
	}
	if b.requirement != nil {
		requirement.Requirement = entities.StringPtr(*b.requirement)
	}
	if b.metadata != nil {
		requirement.Metadata = make(map[string]string, len(b.metadata))
		for key, value := range b.metadata {
			requirement.Metadata[key] = value
		}
	}
	return requirement
}

// Reset clears the builder state, allowing it to be reused.
func (b *RequirementBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.file = "Gopkg.toml"
	b.requirement = nil
	b.groups = nil
	b.source = entities.DefaultSource("")
	b.metadata = nil
	return b
}

// Clone creates a deep copy of the RequirementBuilder.
func (b *RequirementBuilder) Clone() testkit.Builder {
	clone := &RequirementBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		file:        b.file,
		groups:      append([]string(nil), b.groups...),
		source:      b.source,
	}
	if b.requirement != nil {
		clone.requirement = entities.StringPtr(*b.requirement)
	}
	for key, value := range b.metadata {
		clone.WithMetadata(key, value)
	}
	return clone
}
