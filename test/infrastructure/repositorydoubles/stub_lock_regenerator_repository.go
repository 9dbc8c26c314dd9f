//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// StubLockRegeneratorRepository implements repositories.LockRegeneratorRepository.
// It appends Block to the stripped lockfile found in the working copy.
type StubLockRegeneratorRepository struct {
	Block string
	Err   error

	// StrippedContents records the lockfile as the regenerator received it.
	StrippedContents []string
	WorkDirs         []string
}

var _ repositories.LockRegeneratorRepository = (*StubLockRegeneratorRepository)(nil)

func (s *StubLockRegeneratorRepository) Regenerate(
	_ context.Context,
	workDir string,
	lockfile entities.DependencyFile,
	_ string,
	_ []entities.Credential,
) (string, error) {
	s.WorkDirs = append(s.WorkDirs, workDir)
	if s.Err != nil {
		return "", s.Err
	}
	content, err := os.ReadFile(filepath.Join(workDir, filepath.FromSlash(lockfile.Name)))
	if err != nil {
		return "", err
	}
	s.StrippedContents = append(s.StrippedContents, string(content))
	return string(content) + s.Block, nil
}
