package dep

import (
	"errors"
	"fmt"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const (
	manifestFile = "Gopkg.toml"

	keyName     = "name"
	keyVersion  = "version"
	keyBranch   = "branch"
	keyRevision = "revision"
)

// GopkgTomlSyntax addresses [[constraint]] and [[override]] tables in Gopkg.toml.
type GopkgTomlSyntax struct{}

// NewGopkgTomlSyntax creates a new GopkgTomlSyntax.
func NewGopkgTomlSyntax() *GopkgTomlSyntax {
	return &GopkgTomlSyntax{}
}

func (it *GopkgTomlSyntax) Handles(file entities.DependencyFile) bool {
	return file.BaseName() == manifestFile
}

func (it *GopkgTomlSyntax) Locate(
	file entities.DependencyFile,
	_ []entities.DependencyFile,
	dependency entities.Dependency,
	requirement entities.Requirement,
) ([]entities.Declaration, error) {
	tables, err := scanTables(file.Content, tableConstraint, tableOverride)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", file.Name, err)
	}

	var declarations []entities.Declaration
	for _, table := range tables {
		if table.project.Name != dependency.Name {
			continue
		}
		declared, ok := declaredValue(table.project, requirement)
		if !ok {
			continue
		}
		declarations = append(declarations, entities.Declaration{
			Span:        table.span,
			Name:        table.project.Name,
			Requirement: declared,
			Source:      requirement.Source,
		})
	}
	return declarations, nil
}

// declaredValue returns the value carrying the requirement in the table, ok is
// false when the table declares something else.
func declaredValue(project gopkgProject, requirement entities.Requirement) (string, bool) {
	source := requirement.Source
	switch {
	case source.IsGit() && source.Branch != "":
		return project.Branch, project.Branch == source.Branch
	case source.IsGit() && source.Ref != "":
		if project.Version == source.Ref {
			return project.Version, true
		}
		return project.Revision, project.Revision == source.Ref
	case requirement.Requirement == nil:
		return "", project.Version == "" && project.Branch == "" && project.Revision == ""
	default:
		return project.Version, project.Version == requirement.Text()
	}
}

// Patch rewrites a single table. A Git pin stays in its key, a branch that gives way
// to a release turns into a version constraint.
func (it *GopkgTomlSyntax) Patch(
	content string,
	declaration entities.Declaration,
	previous, updated entities.Requirement,
) (string, error) {
	switch {
	case previous.Source.IsGit() && updated.Source.IsGit():
		return it.patchGitPin(content, declaration.Span, previous.Source, updated.Source)
	case previous.Source.IsGit():
		if updated.Requirement == nil {
			return "", errors.New("a Git pin can only be replaced by a version constraint")
		}
		key := keyBranch
		if previous.Source.Branch == "" {
			key = refKey(content, declaration.Span, previous.Source.Ref)
		}
		return replaceAssignment(content, declaration.Span, key, keyVersion, updated.Text())
	case updated.Requirement == nil:
		return "", errors.New("removing a version constraint is not supported")
	case previous.Requirement == nil:
		return insertAfterName(content, declaration.Span, keyVersion, updated.Text())
	default:
		return replaceValue(content, declaration.Span, keyVersion, updated.Text())
	}
}

func (it *GopkgTomlSyntax) patchGitPin(
	content string,
	span entities.Span,
	previous, updated entities.Source,
) (string, error) {
	switch {
	case previous.Branch != "" && updated.Branch != "":
		return replaceValue(content, span, keyBranch, updated.Branch)
	case previous.Ref != "" && updated.Ref != "":
		return replaceValue(content, span, refKey(content, span, previous.Ref), updated.Ref)
	default:
		return "", fmt.Errorf("cannot move a Git pin from %+v to %+v", previous, updated)
	}
}

// refKey tells whether a ref is pinned through "version" (a tag) or "revision" (a commit).
func refKey(content string, span entities.Span, ref string) string {
	if value, ok := valueSpan(content, span, keyVersion); ok && value.Of(content) == ref {
		return keyVersion
	}
	return keyRevision
}

func replaceValue(content string, span entities.Span, key, value string) (string, error) {
	target, ok := valueSpan(content, span, key)
	if !ok {
		return "", fmt.Errorf("no %q key in the table", key)
	}
	return content[:target.Start] + value + content[target.End:], nil
}

func replaceAssignment(content string, span entities.Span, oldKey, newKey, value string) (string, error) {
	target, indent, ok := assignmentSpan(content, span, oldKey)
	if !ok {
		return "", fmt.Errorf("no %q key in the table", oldKey)
	}
	return content[:target.Start] + fmt.Sprintf("%s%s = %q", indent, newKey, value) + content[target.End:], nil
}

func insertAfterName(content string, span entities.Span, key, value string) (string, error) {
	target, indent, ok := assignmentSpan(content, span, keyName)
	if !ok {
		return "", fmt.Errorf("no %q key in the table", keyName)
	}
	line := fmt.Sprintf("\n%s%s = %q", indent, key, value)
	return content[:target.End] + line + content[target.End:], nil
}
