//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// StubDependencyFileRepository implements repositories.DependencyFileRepository in memory.
// Saved files replace the same-named file of their directory, so later loads see them.
// It is safe for concurrent use.
type StubDependencyFileRepository struct {
	// FilesByDirectory is what Load returns for each directory.
	FilesByDirectory map[string][]entities.DependencyFile
	LoadErr          error
	SaveErr          error

	mu    sync.Mutex
	saved []entities.DependencyFile
}

var _ repositories.DependencyFileRepository = (*StubDependencyFileRepository)(nil)

func (s *StubDependencyFileRepository) Load(
	_ context.Context,
	directory string,
	_ []string,
) ([]entities.DependencyFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return append([]entities.DependencyFile(nil), s.FilesByDirectory[directory]...), nil
}

func (s *StubDependencyFileRepository) Save(_ context.Context, files []entities.DependencyFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.saved = append(s.saved, files...)
	for _, file := range files {
		current := s.FilesByDirectory[file.Directory]
		for i := range current {
			if current[i].Name == file.Name {
				current[i] = file
			}
		}
	}
	return nil
}

// Saved returns a copy of every file written so far.
func (s *StubDependencyFileRepository) Saved() []entities.DependencyFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.DependencyFile(nil), s.saved...)
}
