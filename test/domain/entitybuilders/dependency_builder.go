//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name           string
	version        string
	packageManager string
	requirements   []entities.Requirement
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder:    testkit.NewBaseBuilder(),
		name:           "github.com/dgrijalva/jwt-go",
		version:        "1.0.1",
		packageManager: "dep",
	}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithVersion sets the current version.
func (b *DependencyBuilder) WithVersion(version string) *DependencyBuilder {
	b.version = version
	return b
}

// WithPackageManager sets the ecosystem name.
func (b *DependencyBuilder) WithPackageManager(packageManager string) *DependencyBuilder {
	b.packageManager = packageManager
	return b
}

// WithRequirement appends a requirement.
func (b *DependencyBuilder) WithRequirement(requirement entities.Requirement) *DependencyBuilder {
	b.requirements = append(b.requirements, requirement)
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() entities.Dependency {
	var requirements []entities.Requirement
	if len(b.requirements) > 0 {
		requirements = append(requirements, b.requirements...)
	}
	return entities.Dependency{
		Name:           b.name,
		Version:        b.version,
		Requirements:   requirements,
		PackageManager: b.packageManager,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "github.com/dgrijalva/jwt-go"
	b.version = "1.0.1"
	b.packageManager = "dep"
	b.requirements = nil
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder:    b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:           b.name,
		version:        b.version,
		packageManager: b.packageManager,
		requirements:   append([]entities.Requirement(nil), b.requirements...),
	}
}
