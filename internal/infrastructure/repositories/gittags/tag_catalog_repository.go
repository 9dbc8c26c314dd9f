package gittags

import (
	"context"
	"fmt"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// HostSelector picks the git host serving a repository URL.
type HostSelector interface {
	For(url string) repositories.GitHostRepository
}

// TagCatalogRepository publishes a repository's tags as its versions, without the
// "v" prefix. Ecosystems without a registry (dep, Git module sources) use it as
// their catalog.
type TagCatalogRepository struct {
	hosts HostSelector
}

// NewTagCatalogRepository creates a catalog backed by the given hosts.
func NewTagCatalogRepository(hosts HostSelector) *TagCatalogRepository {
	return &TagCatalogRepository{hosts: hosts}
}

func (it *TagCatalogRepository) ListVersions(
	ctx context.Context,
	dependency entities.Dependency,
	credentials []entities.Credential,
) ([]string, error) {
	location := RepositoryURL(dependency)
	host := it.hosts.For(location)
	if host == nil {
		return nil, fmt.Errorf("no git host serves %q", location)
	}

	tags, err := host.ListTags(ctx, location, credentials)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(tags))
	for _, tag := range tags {
		versions = append(versions, entities.TrimVersionPrefix(tag.Name))
	}
	return versions, nil
}

// RepositoryURL returns the Git source URL of the dependency, falling back to its import path.
func RepositoryURL(dependency entities.Dependency) string {
	if source, ok := dependency.GitSource(); ok && source.URL != "" {
		return source.URL
	}
	return "https://" + dependency.Name
}
