package golang

import (
	"context"
	"strings"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
)

const goSumFile = "go.sum"

// GoSumSyntax treats the contiguous go.sum lines of one module as its lockfile block.
type GoSumSyntax struct{}

// NewGoSumSyntax creates a new GoSumSyntax.
func NewGoSumSyntax() *GoSumSyntax {
	return &GoSumSyntax{}
}

func (it *GoSumSyntax) Handles(file entities.DependencyFile) bool {
	return file.BaseName() == goSumFile
}

func (it *GoSumSyntax) Identity(dependency entities.Dependency) string {
	return dependency.Name
}

// LocateBlock spans every line starting with the module path; go.sum is sorted,
// so they are adjacent.
func (it *GoSumSyntax) LocateBlock(content, identity string) (entities.Span, bool) {
	prefix := identity + " "
	start, end := -1, -1
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		if strings.HasPrefix(line, prefix) {
			if start < 0 {
				start = offset
			}
			end = offset + len(line)
		} else if start >= 0 {
			break
		}
		offset += len(line)
	}
	if start < 0 {
		return entities.Span{}, false
	}
	return entities.Span{Start: start, End: end}, true
}

// VersionLine returns the module versions the block pins, hashes excluded.
func (it *GoSumSyntax) VersionLine(block string) string {
	var versions []string
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			versions = append(versions, fields[0]+" "+fields[1])
		}
	}
	return strings.Join(versions, "\n")
}

// GoSumRegeneratorRepository records fresh checksums for the updated module.
type GoSumRegeneratorRepository struct {
	runner process.CommandRunner
}

// NewGoSumRegeneratorRepository creates a new GoSumRegeneratorRepository.
func NewGoSumRegeneratorRepository(runner process.CommandRunner) *GoSumRegeneratorRepository {
	return &GoSumRegeneratorRepository{runner: runner}
}

func (it *GoSumRegeneratorRepository) Regenerate(
	ctx context.Context,
	workDir string,
	lockfile entities.DependencyFile,
	identity string,
	credentials []entities.Credential,
) (string, error) {
	_, err := it.runner.Run(ctx, process.Command{
		Binary: goBinary,
		Args:   []string{"mod", "download", identity},
		Dir:    workDir,
		Env:    append(process.GitCredentialEnv(credentials), "GOFLAGS=-mod=mod", "GOTOOLCHAIN=local"),
		Host:   ModuleHost(identity),
	})
	if err != nil {
		return "", err
	}
	return process.ReadWorkFile(workDir, lockfile.Name)
}
