//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyFileBuilder helps create test dependency files with a fluent interface.
type DependencyFileBuilder struct {
	*testkit.BaseBuilder
	name      string
	directory string
	content   string
	role      entities.FileRole
}

// NewDependencyFileBuilder creates an empty manifest named Gopkg.toml.
func NewDependencyFileBuilder() *DependencyFileBuilder {
	return &DependencyFileBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "Gopkg.toml",
		directory:   "/",
		role:        entities.FileRoleManifest,
	}
}

// WithName sets the file name.
func (b *DependencyFileBuilder) WithName(name string) *DependencyFileBuilder {
	b.name = name
	return b
}

// WithDirectory sets the directory.
func (b *DependencyFileBuilder) WithDirectory(directory string) *DependencyFileBuilder {
	b.directory = directory
	return b
}

// WithContent sets the raw content.
func (b *DependencyFileBuilder) WithContent(content string) *DependencyFileBuilder {
	b.content = content
	return b
}

// WithRole sets the file role.
func (b *DependencyFileBuilder) WithRole(role entities.FileRole) *DependencyFileBuilder {
	b.role = role
	return b
}

// Build creates the file (satisfies testkit.Builder interface).
func (b *DependencyFileBuilder) Build() interface{} {
	return b.BuildFile()
}

// BuildFile creates the file with a concrete return type.
func (b *DependencyFileBuilder) BuildFile() entities.DependencyFile {
	return entities.DependencyFile{
		Name:      b.name,
		Directory: b.directory,
		Content:   b.content,
		Role:      b.role,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyFileBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "Gopkg.toml"
	b.directory = "/"
	b.content = ""
	b.role = entities.FileRoleManifest
	return b
}

// Clone creates a deep copy of the DependencyFileBuilder.
func (b *DependencyFileBuilder) Clone() testkit.Builder {
	return &DependencyFileBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		directory:   b.directory,
		content:     b.content,
		role:        b.role,
	}
}
