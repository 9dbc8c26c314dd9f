package repositories

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// CatalogRepository lists every published version of a dependency.
// Failures are returned as *entities.CollaboratorError so callers can tell
// transient ones from resolvability and authentication problems.
type CatalogRepository interface {
	ListVersions(
		ctx context.Context,
		dependency entities.Dependency,
		credentials []entities.Credential,
	) ([]string, error)
}
