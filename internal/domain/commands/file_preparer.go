package commands

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// FilePreparer produces scratch copies of the dependency files.
type FilePreparer interface {
	Execute(request PrepareRequest) (PreparedFiles, error)
}

// PrepareRequest describes how the scratch copy should differ from the real files.
type PrepareRequest struct {
	Ecosystem              repositories.EcosystemRepository
	Dependency             entities.Dependency
	Files                  []entities.DependencyFile
	UnlockRequirement      bool
	RemoveGitSource        bool
	LatestAllowableVersion string
}

// PreparedFiles are the scratch files and the requirements they now declare.
type PreparedFiles struct {
	Files        []entities.DependencyFile
	Requirements []entities.Requirement
}

// FilePreparerCommand implements FilePreparer with the ecosystem's declaration syntaxes.
type FilePreparerCommand struct{}

// NewFilePreparerCommand creates a new FilePreparerCommand.
func NewFilePreparerCommand() *FilePreparerCommand {
	return &FilePreparerCommand{}
}

// Execute never mutates the request; the returned files are copies.
func (it *FilePreparerCommand) Execute(request PrepareRequest) (PreparedFiles, error) {
	dependency := request.Dependency
	if err := requireFiles(dependency, request.Files); err != nil {
		return PreparedFiles{}, err
	}

	files := make([]entities.DependencyFile, len(request.Files))
	copy(files, request.Files)
	prepared := make([]entities.Requirement, 0, len(dependency.Requirements))

	for _, requirement := range dependency.Requirements {
		updated := it.prepareRequirement(request, requirement)
		prepared = append(prepared, updated)
		if updated.Equal(requirement) {
			continue
		}

		file, _ := entities.FindFile(files, requirement.File)
		content, ok := it.patch(request.Ecosystem, file, files, dependency, requirement, updated)
		if !ok {
			continue
		}
		files = entities.ReplaceFile(files, file.WithContent(content))
	}

	return PreparedFiles{Files: files, Requirements: prepared}, nil
}

func (it *FilePreparerCommand) prepareRequirement(
	request PrepareRequest,
	requirement entities.Requirement,
) entities.Requirement {
	updated := requirement
	if request.UnlockRequirement && !requirement.Source.IsGit() && requirement.Requirement != nil {
		dialect := request.Ecosystem.Dialect()
		updated = updated.WithText(dialect.Unlock(requirement.Text(), request.LatestAllowableVersion))
	}
	if request.RemoveGitSource && requirement.Source.IsGit() {
		updated.Source = entities.DefaultSource("")
	}
	return updated
}

// patch edits the scratch copy; declarations the syntax cannot address are left as they are.
func (it *FilePreparerCommand) patch(
	ecosystem repositories.EcosystemRepository,
	file entities.DependencyFile,
	files []entities.DependencyFile,
	dependency entities.Dependency,
	previous, updated entities.Requirement,
) (string, bool) {
	syntax := syntaxFor(ecosystem, file)
	if syntax == nil {
		logger.Debugf("[preparer] no declaration syntax handles %s", file.Name)
		return "", false
	}
	declarations, err := syntax.Locate(file, files, dependency, previous)
	if err != nil || len(declarations) != 1 {
		logger.Debugf("[preparer] cannot address %s in %s (%d matches, err=%v)",
			dependency.Name, file.Name, len(declarations), err)
		return "", false
	}
	content, err := syntax.Patch(file.Content, declarations[0], previous, updated)
	if err != nil {
		logger.Debugf("[preparer] cannot patch %s in %s: %v", dependency.Name, file.Name, err)
		return "", false
	}
	return content, true
}

func syntaxFor(
	ecosystem repositories.EcosystemRepository,
	file entities.DependencyFile,
) repositories.DeclarationSyntax {
	for _, syntax := range ecosystem.Syntaxes() {
		if syntax.Handles(file) {
			return syntax
		}
	}
	return nil
}
