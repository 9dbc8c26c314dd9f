package repositories

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// GitHostRepository abstracts the version-control host behind a Git source.
type GitHostRepository interface {
	// Name returns the host identifier (e.g. "github", "gitlab").
	Name() string

	// Matches returns true if the repository URL is served by this host.
	Matches(url string) bool

	// ListTags returns every tag of the repository with the commit it points to.
	ListTags(ctx context.Context, url string, credentials []entities.Credential) ([]entities.GitTag, error)

	// Compare reports how head relates to base.
	Compare(
		ctx context.Context,
		url, base, head string,
		credentials []entities.Credential,
	) (entities.Comparison, error)
}
