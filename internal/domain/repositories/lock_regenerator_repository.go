package repositories

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// LockRegeneratorRepository recomputes a lockfile inside a working copy.
// It returns the whole regenerated lockfile content.
type LockRegeneratorRepository interface {
	Regenerate(
		ctx context.Context,
		workDir string,
		lockfile entities.DependencyFile,
		identity string,
		credentials []entities.Credential,
	) (string, error)
}
