package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// inWorkspace writes files into a fresh temporary directory, runs fn inside it
// and removes the directory on every exit path.
func inWorkspace(files []entities.DependencyFile, fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", "autobump-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	for _, file := range files {
		if !filepath.IsLocal(filepath.FromSlash(file.Name)) {
			return fmt.Errorf("refusing to write %q outside the working copy", file.Name)
		}
		path := filepath.Join(dir, filepath.FromSlash(file.Name))
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o750); mkErr != nil {
			return fmt.Errorf("failed to create directory for %q: %w", file.Name, mkErr)
		}
		if writeErr := os.WriteFile(path, []byte(file.Content), 0o600); writeErr != nil {
			return fmt.Errorf("failed to write %q: %w", file.Name, writeErr)
		}
	}

	return fn(dir)
}

// requireFiles checks that every requirement names a file of the set.
func requireFiles(dependency entities.Dependency, files []entities.DependencyFile) error {
	for _, requirement := range dependency.Requirements {
		if _, ok := entities.FindFile(files, requirement.File); !ok {
			return &entities.UpdateError{
				Kind:       entities.ErrDependencyFileNotFound,
				Dependency: dependency.Name,
				File:       requirement.File,
			}
		}
	}
	return nil
}
