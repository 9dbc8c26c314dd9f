package nuget

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

const (
	defaultServiceIndex = "https://api.nuget.org/v3/index.json"
	packageBaseAddress  = "PackageBaseAddress/3.0.0"
)

type serviceIndex struct {
	Resources []struct {
		ID   string `json:"@id"`
		Type string `json:"@type"`
	} `json:"resources"`
}

type packageVersions struct {
	Versions []string `json:"versions"`
}

// NugetCatalogRepository lists package versions from a NuGet v3 feed through its
// flat container ("PackageBaseAddress") resource.
type NugetCatalogRepository struct {
	client       *registryhttp.Client
	serviceIndex string
}

// NewNugetCatalogRepository creates a catalog reading nuget.org unless a requirement names another feed.
func NewNugetCatalogRepository(client *registryhttp.Client) *NugetCatalogRepository {
	return &NugetCatalogRepository{client: client, serviceIndex: defaultServiceIndex}
}

// NewNugetCatalogRepositoryWithServiceIndex creates a catalog reading the given feed.
func NewNugetCatalogRepositoryWithServiceIndex(client *registryhttp.Client, index string) *NugetCatalogRepository {
	return &NugetCatalogRepository{client: client, serviceIndex: index}
}

func (it *NugetCatalogRepository) ListVersions(
	ctx context.Context,
	dependency entities.Dependency,
	credentials []entities.Credential,
) ([]string, error) {
	indexURL := it.serviceIndex
	for _, requirement := range dependency.Requirements {
		if registry := requirement.Source.Registry; strings.HasPrefix(registry, "http") {
			indexURL = registry
			break
		}
	}

	var index serviceIndex
	if err := it.client.GetJSON(ctx, indexURL, credentials, &index); err != nil {
		return nil, err
	}
	baseURL := ""
	for _, resource := range index.Resources {
		if strings.HasPrefix(resource.Type, packageBaseAddress) {
			baseURL = strings.TrimSuffix(resource.ID, "/")
			break
		}
	}
	if baseURL == "" {
		return nil, fmt.Errorf("feed %q has no %s resource", indexURL, packageBaseAddress)
	}

	var versions packageVersions
	listURL := fmt.Sprintf("%s/%s/index.json", baseURL, strings.ToLower(dependency.Name))
	if err := it.client.GetJSON(ctx, listURL, credentials, &versions); err != nil {
		return nil, err
	}
	logger.Debugf("[nuget] %s has %d published versions", dependency.Name, len(versions.Versions))
	return versions.Versions, nil
}
