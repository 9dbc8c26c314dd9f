package nuget

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

//nolint:gochecknoglobals // closed set of MSBuild and nuspec declaration elements
var declarationElements = map[string]bool{
	"PackageReference":       true,
	"GlobalPackageReference": true,
	"PackageVersion":         true,
	"Dependency":             true,
	"DevelopmentDependency":  true,
}

//nolint:gochecknoglobals // file types the syntax reads
var projectExtensions = map[string]bool{
	".csproj":  true,
	".vbproj":  true,
	".fsproj":  true,
	".props":   true,
	".targets": true,
	".nuspec":  true,
}

// NugetSyntax addresses package declarations in MSBuild project files. Spans come
// from a token pass; each declaration is then read on its own with etree.
type NugetSyntax struct {
	properties repositories.PropertyRepository
}

// NewNugetSyntax creates a syntax resolving "$(Property)" versions through properties.
func NewNugetSyntax(properties repositories.PropertyRepository) *NugetSyntax {
	return &NugetSyntax{properties: properties}
}

func (it *NugetSyntax) Handles(file entities.DependencyFile) bool {
	return projectExtensions[strings.ToLower(path.Ext(file.Name))]
}

// Locate matches declarations by name, ignoring case, and by requirement text. A
// version given through a property matches on the property's value and points the
// patch at the property definition.
func (it *NugetSyntax) Locate(
	file entities.DependencyFile,
	files []entities.DependencyFile,
	dependency entities.Dependency,
	requirement entities.Requirement,
) ([]entities.Declaration, error) {
	elements, err := scanElements(file.Content, func(name, _ string) bool { return declarationElements[name] })
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", file.Name, err)
	}

	var declarations []entities.Declaration
	referenced := make(map[string]bool)
	for _, element := range elements {
		name, version, readErr := readDeclaration(element.span.Of(file.Content))
		if readErr != nil {
			return nil, fmt.Errorf("failed to read declaration at byte %d of %q: %w", element.span.Start, file.Name, readErr)
		}
		if !strings.EqualFold(name, dependency.Name) {
			continue
		}

		declaration := entities.Declaration{
			Span:        element.span,
			Name:        name,
			Requirement: version,
			Source:      requirement.Source,
		}
		if property, ok := propertyName(version); ok {
			value, found := it.properties.Resolve(property, file, files)
			if !found || !(sameRequirement(requirement, value) || sameRequirement(requirement, version)) {
				continue
			}
			declaration.Property = property
			declaration.Requirement = value
			if span, _, defined := propertyDefinition(file.Content, property); defined {
				declaration.PropertySpan = &span
			}
			referenced[property] = true
		} else if !sameRequirement(requirement, version) {
			continue
		}
		declarations = append(declarations, declaration)
	}

	// the requirement may point straight at the file defining the property
	property := requirement.Metadata[entities.MetadataPropertyName]
	if property != "" && !referenced[property] {
		if span, value, ok := propertyDefinition(file.Content, property); ok && sameRequirement(requirement, value) {
			declarations = append(declarations, entities.Declaration{
				Span:         span,
				Name:         dependency.Name,
				Requirement:  value,
				Source:       requirement.Source,
				Property:     property,
				PropertySpan: &span,
			})
		}
	}
	return declarations, nil
}

// readDeclaration reads the package name and version of one declaration element,
// from attributes or child elements, Include before Update.
func readDeclaration(text string) (string, string, error) {
	document := etree.NewDocument()
	if err := document.ReadFromString(text); err != nil {
		return "", "", err
	}
	root := document.Root()
	if root == nil {
		return "", "", errors.New("empty declaration")
	}
	return firstValue(root, "Include", "Update"), firstValue(root, "Version", "version"), nil
}

func firstValue(element *etree.Element, keys ...string) string {
	for _, key := range keys {
		if attribute := element.SelectAttr(key); attribute != nil {
			return strings.TrimSpace(attribute.Value)
		}
		if child := element.SelectElement(key); child != nil {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}

func sameRequirement(requirement entities.Requirement, declared string) bool {
	if requirement.Requirement == nil {
		return declared == ""
	}
	return requirement.Text() == declared
}

func (it *NugetSyntax) Patch(
	content string,
	declaration entities.Declaration,
	_, updated entities.Requirement,
) (string, error) {
	if updated.Requirement == nil {
		return "", errors.New("removing a version is not supported")
	}
	if declaration.Requirement == "" {
		return "", fmt.Errorf("%q declares no version to update", declaration.Name)
	}
	if declaration.Property != "" {
		if declaration.PropertySpan == nil {
			return "", fmt.Errorf("property %q of %q is defined in another file", declaration.Property, declaration.Name)
		}
		return entities.ReplaceInSpan(content, *declaration.PropertySpan, declaration.Requirement, updated.Text())
	}
	return replaceVersion(content, declaration.Span, declaration.Requirement, updated.Text())
}

// replaceVersion prefers a delimited occurrence of the version, so a package name
// that happens to contain the version string is left alone.
func replaceVersion(content string, span entities.Span, previous, updated string) (string, error) {
	scope := span.Of(content)
	for _, delimiters := range [][2]string{{`"`, `"`}, {`'`, `'`}, {">", "<"}} {
		old := delimiters[0] + previous + delimiters[1]
		if strings.Contains(scope, old) {
			return entities.ReplaceInSpan(content, span, old, delimiters[0]+updated+delimiters[1])
		}
	}
	return entities.ReplaceInSpan(content, span, previous, updated)
}
