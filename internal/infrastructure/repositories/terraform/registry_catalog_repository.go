package terraform

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

type moduleVersions struct {
	Modules []struct {
		Versions []struct {
			Version string `json:"version"`
		} `json:"versions"`
	} `json:"modules"`
}

type providerVersions struct {
	Versions []struct {
		Version string `json:"version"`
	} `json:"versions"`
}

// RegistryCatalogRepository lists module and provider versions from a Terraform registry.
type RegistryCatalogRepository struct {
	client  *registryhttp.Client
	baseURL string
}

// NewRegistryCatalogRepository creates a catalog that talks to each dependency's own registry host.
func NewRegistryCatalogRepository(client *registryhttp.Client) *RegistryCatalogRepository {
	return &RegistryCatalogRepository{client: client}
}

// NewRegistryCatalogRepositoryWithBaseURL creates a catalog pinned to one registry.
func NewRegistryCatalogRepositoryWithBaseURL(client *registryhttp.Client, baseURL string) *RegistryCatalogRepository {
	return &RegistryCatalogRepository{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (it *RegistryCatalogRepository) ListVersions(
	ctx context.Context,
	dependency entities.Dependency,
	credentials []entities.Credential,
) ([]string, error) {
	if isProvider(dependency) {
		return it.listProviderVersions(ctx, dependency, credentials)
	}
	return it.listModuleVersions(ctx, dependency, credentials)
}

func (it *RegistryCatalogRepository) listModuleVersions(
	ctx context.Context,
	dependency entities.Dependency,
	credentials []entities.Credential,
) ([]string, error) {
	host, address, ok := splitRegistryAddress(dependency.Name, 3)
	if !ok {
		return nil, fmt.Errorf("%q is not a registry module address", dependency.Name)
	}

	var response moduleVersions
	if err := it.client.GetJSON(ctx, it.endpoint(dependency, host, "modules", address), credentials, &response); err != nil {
		return nil, err
	}
	var versions []string
	for _, module := range response.Modules {
		for _, version := range module.Versions {
			versions = append(versions, version.Version)
		}
	}
	return versions, nil
}

func (it *RegistryCatalogRepository) listProviderVersions(
	ctx context.Context,
	dependency entities.Dependency,
	credentials []entities.Credential,
) ([]string, error) {
	host, address, ok := splitRegistryAddress(dependency.Name, 2)
	if !ok {
		return nil, fmt.Errorf("%q is not a provider address", dependency.Name)
	}

	var response providerVersions
	if err := it.client.GetJSON(ctx, it.endpoint(dependency, host, "providers", address), credentials, &response); err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(response.Versions))
	for _, version := range response.Versions {
		versions = append(versions, version.Version)
	}
	return versions, nil
}

func (it *RegistryCatalogRepository) endpoint(dependency entities.Dependency, host, kind, address string) string {
	base := it.baseURL
	if base == "" {
		for _, requirement := range dependency.Requirements {
			if requirement.Source.Registry != "" {
				host = requirement.Source.Registry
				break
			}
		}
		base = "https://" + host
	}
	return fmt.Sprintf("%s/v1/%s/%s/versions", base, kind, (&url.URL{Path: address}).EscapedPath())
}

// TerraformCatalogRepository sends Git-sourced modules to their repository's tags and
// everything else to the registry.
type TerraformCatalogRepository struct {
	registry repositories.CatalogRepository
	tags     repositories.CatalogRepository
}

// NewTerraformCatalogRepository creates the terraform catalog.
func NewTerraformCatalogRepository(registry, tags repositories.CatalogRepository) *TerraformCatalogRepository {
	return &TerraformCatalogRepository{registry: registry, tags: tags}
}

func (it *TerraformCatalogRepository) ListVersions(
	ctx context.Context,
	dependency entities.Dependency,
	credentials []entities.Credential,
) ([]string, error) {
	if _, ok := dependency.GitSource(); ok {
		return it.tags.ListVersions(ctx, dependency, credentials)
	}
	return it.registry.ListVersions(ctx, dependency, credentials)
}

// isProvider trusts the requirement groups and falls back to the address shape,
// which is all a lockfile-only dependency has.
func isProvider(dependency entities.Dependency) bool {
	for _, requirement := range dependency.Requirements {
		switch {
		case requirement.HasGroup(entities.GroupProviders):
			return true
		case requirement.HasGroup(entities.GroupModules):
			return false
		}
	}
	segments := strings.Split(dependency.Name, "/")
	return len(segments) == 2 || (len(segments) == 3 && strings.Contains(segments[0], "."))
}
