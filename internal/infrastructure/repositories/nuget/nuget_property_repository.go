package nuget

import (
	"path"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const propertyGroup = "PropertyGroup"

var propertyReference = regexp.MustCompile(`^\$\(([^)]+)\)$`)

// NugetPropertyRepository resolves MSBuild properties, looking in the calling
// file first and then in the shared .props and .targets files of the set.
type NugetPropertyRepository struct{}

// NewNugetPropertyRepository creates a new NugetPropertyRepository.
func NewNugetPropertyRepository() *NugetPropertyRepository {
	return &NugetPropertyRepository{}
}

func (it *NugetPropertyRepository) Resolve(
	name string,
	file entities.DependencyFile,
	files []entities.DependencyFile,
) (string, bool) {
	if value, ok := propertyValue(file, name); ok {
		return value, true
	}
	for _, other := range files {
		if other.Name == file.Name {
			continue
		}
		switch path.Ext(other.Name) {
		case ".props", ".targets":
			if value, ok := propertyValue(other, name); ok {
				return value, true
			}
		}
	}
	return "", false
}

func propertyValue(file entities.DependencyFile, name string) (string, bool) {
	document := etree.NewDocument()
	if err := document.ReadFromString(file.Content); err != nil {
		logger.Debugf("[nuget] cannot read properties of %s: %v", file.Name, err)
		return "", false
	}
	for _, element := range document.FindElements("//" + propertyGroup + "/" + name) {
		if value := strings.TrimSpace(element.Text()); value != "" {
			return value, true
		}
	}
	return "", false
}

// propertyName returns the property a version refers to, as in "$(SerilogVersion)".
func propertyName(version string) (string, bool) {
	match := propertyReference.FindStringSubmatch(strings.TrimSpace(version))
	if match == nil {
		return "", false
	}
	return match[1], true
}

// propertyDefinition finds where content defines the property and its literal value.
func propertyDefinition(content, name string) (entities.Span, string, bool) {
	elements, err := scanElements(content, func(element, parent string) bool {
		return element == name && parent == propertyGroup
	})
	if err != nil || len(elements) == 0 {
		return entities.Span{}, "", false
	}
	inner := elements[0].inner
	return inner, strings.TrimSpace(inner.Of(content)), true
}
