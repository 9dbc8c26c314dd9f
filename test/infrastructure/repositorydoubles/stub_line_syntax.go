//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strings"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// StubLineSyntax is a minimal declaration syntax: one dependency per line,
// "<name> [<requirement>] [ref=<tag>]". It handles files named FileName.
type StubLineSyntax struct {
	FileName  string
	LocateErr error
}

var _ repositories.DeclarationSyntax = (*StubLineSyntax)(nil)

func (s *StubLineSyntax) Handles(file entities.DependencyFile) bool {
	return file.Name == s.FileName
}

func (s *StubLineSyntax) Locate(
	file entities.DependencyFile,
	_ []entities.DependencyFile,
	dependency entities.Dependency,
	requirement entities.Requirement,
) ([]entities.Declaration, error) {
	if s.LocateErr != nil {
		return nil, s.LocateErr
	}

	var declarations []entities.Declaration
	offset := 0
	for _, line := range strings.SplitAfter(file.Content, "\n") {
		body := strings.TrimRight(line, "\n")
		span := entities.Span{Start: offset, End: offset + len(body)}
		offset += len(line)

		fields := strings.Fields(body)
		if len(fields) == 0 || fields[0] != dependency.Name {
			continue
		}
		if requirement.Source.IsGit() {
			if strings.Contains(body, "ref="+requirement.Source.Ref) {
				declarations = append(declarations, entities.Declaration{Span: span, Name: fields[0], Source: requirement.Source})
			}
			continue
		}
		text := ""
		if len(fields) > 1 && !strings.HasPrefix(fields[1], "ref=") {
			text = strings.Join(fields[1:], " ")
		}
		if text == requirement.Text() {
			declarations = append(declarations, entities.Declaration{Span: span, Name: fields[0], Requirement: text})
		}
	}
	return declarations, nil
}

func (s *StubLineSyntax) Patch(
	content string,
	declaration entities.Declaration,
	previous, updated entities.Requirement,
) (string, error) {
	switch {
	case previous.Source.IsGit() && updated.Source.IsGit():
		return entities.ReplaceInSpan(content, declaration.Span, "ref="+previous.Source.Ref, "ref="+updated.Source.Ref)
	case previous.Source.IsGit():
		line := declaration.Name + " " + updated.Text()
		return content[:declaration.Span.Start] + line + content[declaration.Span.End:], nil
	case previous.Text() == "":
		return content[:declaration.Span.End] + " " + updated.Text() + content[declaration.Span.End:], nil
	default:
		return entities.ReplaceInSpan(content, declaration.Span, previous.Text(), updated.Text())
	}
}

// StubLineLockfileSyntax locks one dependency per line: "<name> <version> <hash>".
type StubLineLockfileSyntax struct {
	FileName string
}

var _ repositories.LockfileSyntax = (*StubLineLockfileSyntax)(nil)

func (s *StubLineLockfileSyntax) Handles(file entities.DependencyFile) bool {
	return file.Name == s.FileName
}

func (s *StubLineLockfileSyntax) Identity(dependency entities.Dependency) string {
	return dependency.Name
}

func (s *StubLineLockfileSyntax) LocateBlock(content, identity string) (entities.Span, bool) {
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		if strings.HasPrefix(line, identity+" ") {
			return entities.Span{Start: offset, End: offset + len(line)}, true
		}
		offset += len(line)
	}
	return entities.Span{}, false
}

func (s *StubLineLockfileSyntax) VersionLine(block string) string {
	fields := strings.Fields(block)
	if len(fields) < 2 {
		return block
	}
	return fields[0] + " " + fields[1]
}
