package golang

import (
	"fmt"

	"golang.org/x/mod/modfile"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const goModFile = "go.mod"

// GoModSyntax addresses require directives in go.mod, in single-line and block form.
type GoModSyntax struct{}

// NewGoModSyntax creates a new GoModSyntax.
func NewGoModSyntax() *GoModSyntax {
	return &GoModSyntax{}
}

func (it *GoModSyntax) Handles(file entities.DependencyFile) bool {
	return file.BaseName() == goModFile
}

// Locate parses the file only to find byte offsets; the content itself is never re-serialized.
func (it *GoModSyntax) Locate(
	file entities.DependencyFile,
	_ []entities.DependencyFile,
	dependency entities.Dependency,
	requirement entities.Requirement,
) ([]entities.Declaration, error) {
	parsed, err := modfile.Parse(file.Name, []byte(file.Content), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", file.Name, err)
	}

	var declarations []entities.Declaration
	for _, require := range parsed.Require {
		if require.Mod.Path != dependency.Name || require.Syntax == nil {
			continue
		}
		if requirement.Requirement != nil && !entities.SameVersion(require.Mod.Version, requirement.Text()) {
			continue
		}
		declarations = append(declarations, entities.Declaration{
			Span:        versionSpan(require.Syntax),
			Name:        require.Mod.Path,
			Requirement: require.Mod.Version,
			Source:      requirement.Source,
		})
	}
	return declarations, nil
}

func (it *GoModSyntax) Patch(
	content string,
	declaration entities.Declaration,
	_, updated entities.Requirement,
) (string, error) {
	span := declaration.Span
	if span.Start < 0 || span.End > len(content) || span.Start > span.End {
		return "", fmt.Errorf("version span %d..%d is outside the content", span.Start, span.End)
	}
	replacement := entities.GoModulesDialect.FormatVersion(updated.Text())
	return content[:span.Start] + replacement + content[span.End:], nil
}

// versionSpan covers the last token of a require line, which is always the version.
// The suffix comment is not a token, so the line ends where the version does.
func versionSpan(line *modfile.Line) entities.Span {
	token := line.Token[len(line.Token)-1]
	return entities.Span{Start: line.End.Byte - len(token), End: line.End.Byte}
}
