package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// FileUpdater turns rewritten requirements into patched dependency files.
type FileUpdater interface {
	Execute(ctx context.Context, request FileUpdateRequest) ([]entities.DependencyFile, error)
}

// FileUpdateRequest carries the dependency with both its previous and its updated requirements.
type FileUpdateRequest struct {
	Ecosystem   repositories.EcosystemRepository
	Dependency  entities.Dependency
	Files       []entities.DependencyFile
	Credentials []entities.Credential
}

// FileUpdaterCommand implements FileUpdater.
type FileUpdaterCommand struct{}

// NewFileUpdaterCommand creates a new FileUpdaterCommand.
func NewFileUpdaterCommand() *FileUpdaterCommand {
	return &FileUpdaterCommand{}
}

// Execute returns only the files whose content changed, or an error and no files at all.
func (it *FileUpdaterCommand) Execute(
	ctx context.Context,
	request FileUpdateRequest,
) ([]entities.DependencyFile, error) {
	dependency := request.Dependency
	if len(dependency.Requirements) != len(dependency.PreviousRequirements) {
		return nil, fmt.Errorf(
			"dependency %q has %d requirements but %d previous requirements",
			dependency.Name, len(dependency.Requirements), len(dependency.PreviousRequirements),
		)
	}
	previous := dependency
	previous.Requirements = dependency.PreviousRequirements
	if err := requireFiles(previous, request.Files); err != nil {
		return nil, err
	}

	files := make([]entities.DependencyFile, len(request.Files))
	copy(files, request.Files)

	for i, updated := range dependency.Requirements {
		original := dependency.PreviousRequirements[i]
		if updated.Equal(original) {
			continue
		}
		file, _ := entities.FindFile(files, original.File)
		patched, err := it.patchDeclaration(request.Ecosystem, file, files, dependency, original, updated)
		if err != nil {
			return nil, err
		}
		files = entities.ReplaceFile(files, patched)
	}

	files, err := it.updateLockfiles(ctx, request, files)
	if err != nil {
		return nil, err
	}

	changed := changedFiles(request.Files, files)
	if len(changed) == 0 {
		return nil, &entities.UpdateError{
			Kind:       entities.ErrNoChangeDetected,
			Dependency: dependency.Name,
			Err:        errors.New("no files changed"),
		}
	}
	return changed, nil
}

// patchDeclaration returns the patched file. A version declared through a property
// defined elsewhere is patched in the file defining the property.
func (it *FileUpdaterCommand) patchDeclaration(
	ecosystem repositories.EcosystemRepository,
	file entities.DependencyFile,
	files []entities.DependencyFile,
	dependency entities.Dependency,
	previous, updated entities.Requirement,
) (entities.DependencyFile, error) {
	syntax := syntaxFor(ecosystem, file)
	if syntax == nil {
		return entities.DependencyFile{}, fmt.Errorf("no declaration syntax handles %q", file.Name)
	}

	declarations, err := syntax.Locate(file, files, dependency, previous)
	if err != nil {
		return entities.DependencyFile{}, fmt.Errorf("failed to locate %q in %q: %w", dependency.Name, file.Name, err)
	}
	if len(declarations) != 1 {
		return entities.DependencyFile{}, &entities.UpdateError{
			Kind:       entities.ErrAmbiguousDeclaration,
			Dependency: dependency.Name,
			File:       file.Name,
			Err:        fmt.Errorf("%d declarations matched", len(declarations)),
		}
	}

	target, declaration := file, declarations[0]
	if declaration.Property != "" && declaration.PropertySpan == nil {
		target, declaration, err = it.locateProperty(ecosystem, file, files, dependency, previous, declaration.Property)
		if err != nil {
			return entities.DependencyFile{}, err
		}
		syntax = syntaxFor(ecosystem, target)
	}

	content, err := syntax.Patch(target.Content, declaration, previous, updated)
	if err != nil {
		return entities.DependencyFile{}, fmt.Errorf("failed to patch %q in %q: %w", dependency.Name, target.Name, err)
	}
	if content == target.Content {
		return entities.DependencyFile{}, &entities.UpdateError{
			Kind:       entities.ErrNoChangeDetected,
			Dependency: dependency.Name,
			File:       target.Name,
		}
	}

	logger.Debugf("[updater] patched %s in %s", dependency.Name, target.Name)
	return target.WithContent(content), nil
}

// locateProperty finds the one other file defining property and its declaration there.
func (it *FileUpdaterCommand) locateProperty(
	ecosystem repositories.EcosystemRepository,
	file entities.DependencyFile,
	files []entities.DependencyFile,
	dependency entities.Dependency,
	previous entities.Requirement,
	property string,
) (entities.DependencyFile, entities.Declaration, error) {
	properties := ecosystem.Properties()
	if properties == nil {
		return entities.DependencyFile{}, entities.Declaration{}, fmt.Errorf(
			"%q declares %q through property %q, which the ecosystem cannot resolve", file.Name, dependency.Name, property,
		)
	}

	hinted := previous
	hinted.Metadata = map[string]string{entities.MetadataPropertyName: property}
	for key, value := range previous.Metadata {
		if key != entities.MetadataPropertyName {
			hinted.Metadata[key] = value
		}
	}

	for _, candidate := range files {
		if candidate.Name == file.Name {
			continue
		}
		if _, ok := properties.Resolve(property, candidate, nil); !ok {
			continue
		}
		syntax := syntaxFor(ecosystem, candidate)
		if syntax == nil {
			continue
		}
		declarations, err := syntax.Locate(candidate, files, dependency, hinted)
		if err != nil {
			return entities.DependencyFile{}, entities.Declaration{}, fmt.Errorf(
				"failed to locate property %q in %q: %w", property, candidate.Name, err,
			)
		}
		if len(declarations) == 1 {
			return candidate, declarations[0], nil
		}
	}

	return entities.DependencyFile{}, entities.Declaration{}, &entities.UpdateError{
		Kind:       entities.ErrAmbiguousDeclaration,
		Dependency: dependency.Name,
		File:       file.Name,
		Err:        fmt.Errorf("no single file defines property %q", property),
	}
}

func (it *FileUpdaterCommand) updateLockfiles(
	ctx context.Context,
	request FileUpdateRequest,
	files []entities.DependencyFile,
) ([]entities.DependencyFile, error) {
	lockfile := request.Ecosystem.Lockfile()
	regenerator := request.Ecosystem.LockRegenerator()
	if lockfile == nil || regenerator == nil {
		return files, nil
	}

	for _, file := range files {
		if !lockfile.Handles(file) {
			continue
		}
		content, err := it.updateLockfile(ctx, request, lockfile, regenerator, file, files)
		if err != nil {
			return nil, err
		}
		files = entities.ReplaceFile(files, file.WithContent(content))
	}
	return files, nil
}

// updateLockfile drops the stale block, lets the ecosystem tool recompute it in a
// working copy and splices the new block back at the original position.
func (it *FileUpdaterCommand) updateLockfile(
	ctx context.Context,
	request FileUpdateRequest,
	lockfile repositories.LockfileSyntax,
	regenerator repositories.LockRegeneratorRepository,
	file entities.DependencyFile,
	files []entities.DependencyFile,
) (string, error) {
	dependency := request.Dependency
	identity := lockfile.Identity(dependency)
	span, ok := lockfile.LocateBlock(file.Content, identity)
	if !ok {
		logger.Debugf("[updater] %s has no block for %s", file.Name, identity)
		return file.Content, nil
	}

	stripped := file.WithContent(file.Content[:span.Start] + file.Content[span.End:])
	workFiles := make([]entities.DependencyFile, 0, len(files))
	for _, other := range files {
		switch {
		case other.Name == file.Name:
			workFiles = append(workFiles, stripped)
		case other.Role == entities.FileRoleLockfile:
			continue
		default:
			workFiles = append(workFiles, other)
		}
	}

	var regenerated string
	err := inWorkspace(workFiles, func(dir string) error {
		content, regenerateErr := withTransientRetry(ctx, "regenerating "+file.Name, func() (string, error) {
			return regenerator.Regenerate(ctx, dir, stripped, identity, request.Credentials)
		})
		regenerated = content
		return regenerateErr
	})
	if err != nil {
		return "", entities.TranslateCollaboratorError(err, dependency.Name, request.Credentials)
	}

	newSpan, ok := lockfile.LocateBlock(regenerated, identity)
	if !ok {
		return "", fmt.Errorf("regenerated %q has no block for %q", file.Name, identity)
	}
	oldBlock := span.Of(file.Content)
	newBlock := newSpan.Of(regenerated)
	if lockfile.VersionLine(newBlock) == lockfile.VersionLine(oldBlock) {
		logger.Debugf("[updater] %s version line unchanged in %s, keeping the original block", identity, file.Name)
		newBlock = oldBlock
	}

	return file.Content[:span.Start] + newBlock + file.Content[span.End:], nil
}

func changedFiles(original, updated []entities.DependencyFile) []entities.DependencyFile {
	var changed []entities.DependencyFile
	for _, file := range updated {
		before, ok := entities.FindFile(original, file.Name)
		if !ok || before.Content != file.Content {
			changed = append(changed, file)
		}
	}
	return changed
}
