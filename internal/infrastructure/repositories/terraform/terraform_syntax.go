package terraform

import (
	"errors"
	"fmt"
	"path"

	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const terragruntFile = "terragrunt.hcl"

// TerraformSyntax addresses module and provider declarations in .tf files and
// the module source of terragrunt.hcl.
type TerraformSyntax struct{}

// NewTerraformSyntax creates a new TerraformSyntax.
func NewTerraformSyntax() *TerraformSyntax {
	return &TerraformSyntax{}
}

func (it *TerraformSyntax) Handles(file entities.DependencyFile) bool {
	return path.Ext(file.Name) == ".tf" || file.BaseName() == terragruntFile
}

func (it *TerraformSyntax) Locate(
	file entities.DependencyFile,
	_ []entities.DependencyFile,
	dependency entities.Dependency,
	requirement entities.Requirement,
) ([]entities.Declaration, error) {
	body, err := parseBody(file.Name, file.Content)
	if err != nil {
		return nil, err
	}

	var declarations []entities.Declaration
	for _, block := range body.Blocks {
		switch block.Type {
		case blockModule:
			if requirement.HasGroup(entities.GroupProviders) {
				continue
			}
			declarations = append(declarations, locateModule(block.Body, dependency, requirement)...)
		case blockTerraform:
			if !requirement.HasGroup(entities.GroupModules) {
				declarations = append(declarations, locateProviders(block.Body, dependency, requirement)...)
			}
			if file.BaseName() == terragruntFile && !requirement.HasGroup(entities.GroupProviders) {
				declarations = append(declarations, locateModule(block.Body, dependency, requirement)...)
			}
		}
	}
	return declarations, nil
}

// locateModule matches a module source: a Git source by repository and ref, a
// registry source by address and version.
func locateModule(
	body *hclsyntax.Body,
	dependency entities.Dependency,
	requirement entities.Requirement,
) []entities.Declaration {
	sourceAttribute, ok := body.Attributes[attributeSource]
	if !ok {
		return nil
	}
	source, ok := literalString(sourceAttribute.Expr)
	if !ok {
		return nil
	}

	if isGitSource(source) {
		pinned := requirement.Source
		if !pinned.IsGit() || repositoryOf(source) != repositoryOf(gitLocation(pinned, dependency)) {
			return nil
		}
		ref := gitRef(source)
		if ref == "" || (ref != pinned.Ref && ref != pinned.Branch) {
			return nil
		}
		return []entities.Declaration{{
			Span:        spanOf(sourceAttribute.Expr.Range()),
			Name:        dependency.Name,
			Requirement: ref,
			Source:      pinned,
		}}
	}

	host, address, ok := splitRegistryAddress(source, 3)
	if !ok || requirement.Source.IsGit() || address != dependency.Name || !sameRegistry(requirement, host) {
		return nil
	}
	return registryDeclaration(body, address, requirement)
}

func locateProviders(
	body *hclsyntax.Body,
	dependency entities.Dependency,
	requirement entities.Requirement,
) []entities.Declaration {
	if requirement.Source.IsGit() {
		return nil
	}
	var declarations []entities.Declaration
	for _, block := range body.Blocks {
		if block.Type != blockRequiredProviders {
			continue
		}
		for name, attribute := range block.Body.Attributes {
			declaration, ok := locateProvider(name, attribute, dependency, requirement)
			if ok {
				declarations = append(declarations, declaration)
			}
		}
	}
	return declarations
}

// locateProvider reads one required_providers entry, either the object form
// { source = ..., version = ... } or the legacy bare version string.
func locateProvider(
	localName string,
	attribute *hclsyntax.Attribute,
	dependency entities.Dependency,
	requirement entities.Requirement,
) (entities.Declaration, bool) {
	if version, ok := literalString(attribute.Expr); ok {
		if "hashicorp/"+localName != dependency.Name || !sameRequirement(requirement, version) {
			return entities.Declaration{}, false
		}
		return entities.Declaration{
			Span:        spanOf(attribute.Expr.Range()),
			Name:        dependency.Name,
			Requirement: version,
			Source:      requirement.Source,
		}, true
	}

	object, ok := attribute.Expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		return entities.Declaration{}, false
	}
	address := "hashicorp/" + localName
	host := defaultRegistryHost
	var versionItem *hclsyntax.ObjectConsItem
	for i, item := range object.Items {
		key, keyOK := literalString(item.KeyExpr)
		if !keyOK {
			continue
		}
		switch key {
		case attributeSource:
			value, valueOK := literalString(item.ValueExpr)
			if !valueOK {
				return entities.Declaration{}, false
			}
			if host, address, valueOK = splitRegistryAddress(value, 2); !valueOK {
				return entities.Declaration{}, false
			}
		case attributeVersion:
			versionItem = &object.Items[i]
		}
	}
	if address != dependency.Name || !sameRegistry(requirement, host) {
		return entities.Declaration{}, false
	}

	if versionItem == nil {
		if requirement.Requirement != nil {
			return entities.Declaration{}, false
		}
		return entities.Declaration{Span: spanOf(object.Range()), Name: address, Source: requirement.Source}, true
	}
	version, ok := literalString(versionItem.ValueExpr)
	if !ok || !sameRequirement(requirement, version) {
		return entities.Declaration{}, false
	}
	return entities.Declaration{
		Span:        spanOf(versionItem.ValueExpr.Range()),
		Name:        address,
		Requirement: version,
		Source:      requirement.Source,
	}, true
}

func registryDeclaration(
	body *hclsyntax.Body,
	address string,
	requirement entities.Requirement,
) []entities.Declaration {
	versionAttribute, ok := body.Attributes[attributeVersion]
	if !ok {
		if requirement.Requirement != nil {
			return nil
		}
		return []entities.Declaration{{Span: spanOf(body.SrcRange), Name: address, Source: requirement.Source}}
	}
	version, ok := literalString(versionAttribute.Expr)
	if !ok || !sameRequirement(requirement, version) {
		return nil
	}
	return []entities.Declaration{{
		Span:        spanOf(versionAttribute.Expr.Range()),
		Name:        address,
		Requirement: version,
		Source:      requirement.Source,
	}}
}

func sameRequirement(requirement entities.Requirement, declared string) bool {
	return requirement.Requirement != nil && requirement.Text() == declared
}

func sameRegistry(requirement entities.Requirement, host string) bool {
	registry := requirement.Source.Registry
	return registry == "" || registry == host
}

func gitLocation(source entities.Source, dependency entities.Dependency) string {
	if source.URL != "" {
		return source.URL
	}
	return dependency.Name
}

// Patch replaces the ref of a Git source or the version string of a registry declaration.
func (it *TerraformSyntax) Patch(
	content string,
	declaration entities.Declaration,
	previous, updated entities.Requirement,
) (string, error) {
	switch {
	case previous.Source.IsGit() && updated.Source.IsGit():
		oldRef := previous.Source.Ref + previous.Source.Branch
		newRef := updated.Source.Ref + updated.Source.Branch
		return entities.ReplaceInSpan(content, declaration.Span, "ref="+oldRef, "ref="+newRef)
	case previous.Source.IsGit():
		return "", fmt.Errorf("module %q cannot move from a Git source to a registry source", declaration.Name)
	case updated.Requirement == nil:
		return "", errors.New("removing a version constraint is not supported")
	case declaration.Requirement == "":
		return "", fmt.Errorf("%q declares no version to update", declaration.Name)
	default:
		return entities.ReplaceInSpan(content, declaration.Span, declaration.Requirement, updated.Text())
	}
}
