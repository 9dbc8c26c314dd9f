package terraform

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const (
	defaultRegistryHost = "registry.terraform.io"

	blockModule            = "module"
	blockTerraform         = "terraform"
	blockRequiredProviders = "required_providers"
	blockProvider          = "provider"

	attributeSource  = "source"
	attributeVersion = "version"
)

// parseBody parses HCL native syntax. Only byte ranges and literal values are read
// from the tree; the file is never written back from it.
func parseBody(name, content string) (*hclsyntax.Body, error) {
	file, diags := hclsyntax.ParseConfig([]byte(content), name, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %q: %s", name, diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%q is not in native HCL syntax", name)
	}
	return body, nil
}

// literalString evaluates expr without variables, ok is false for anything but a known string.
func literalString(expr hclsyntax.Expression) (string, bool) {
	value, diags := expr.Value(nil)
	if diags.HasErrors() || value.IsNull() || !value.IsKnown() || value.Type() != cty.String {
		return "", false
	}
	return value.AsString(), true
}

func spanOf(r hcl.Range) entities.Span {
	return entities.Span{Start: r.Start.Byte, End: r.End.Byte}
}

// splitRegistryAddress separates an optional registry host from a module or provider
// address. parts is 3 for modules ("ns/name/provider") and 2 for providers ("ns/type").
func splitRegistryAddress(address string, parts int) (string, string, bool) {
	segments := strings.Split(address, "/")
	switch {
	case len(segments) == parts:
		return defaultRegistryHost, address, true
	case len(segments) == parts+1 && strings.Contains(segments[0], "."):
		return segments[0], strings.Join(segments[1:], "/"), true
	default:
		return "", "", false
	}
}

// isGitSource tells Git module sources from registry addresses and local paths.
func isGitSource(source string) bool {
	return strings.HasPrefix(source, "git::") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "github.com/") ||
		strings.HasPrefix(source, "gitlab.com/") ||
		strings.HasPrefix(source, "bitbucket.org/") ||
		strings.Contains(source, ".git?") ||
		strings.HasSuffix(source, ".git")
}

// gitRef returns the value of the ref query parameter of a Git module source.
func gitRef(source string) string {
	_, query, found := strings.Cut(source, "?")
	if !found {
		return ""
	}
	for _, pair := range strings.Split(query, "&") {
		if value, ok := strings.CutPrefix(pair, "ref="); ok {
			return value
		}
	}
	return ""
}

// repositoryOf reduces a Git module source to the repository it points at: no
// "git::" forcing, subdirectory, query or ".git" suffix.
func repositoryOf(source string) string {
	location := strings.TrimPrefix(source, "git::")
	location, _, _ = strings.Cut(location, "?")
	offset := 0
	if index := strings.Index(location, "://"); index >= 0 {
		offset = index + len("://")
	}
	if index := strings.Index(location[offset:], "//"); index >= 0 {
		location = location[:offset+index]
	}
	location = strings.TrimPrefix(location, "https://")
	return strings.TrimSuffix(strings.TrimSuffix(location, "/"), ".git")
}
