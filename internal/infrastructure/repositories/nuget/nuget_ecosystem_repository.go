package nuget

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/catalog"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

const ecosystemName = "nuget"

// NugetEcosystemRepository wires the NuGet collaborators together. Restores are
// not lockfile-driven here, so the ecosystem has no lockfile syntax.
type NugetEcosystemRepository struct {
	catalog    repositories.CatalogRepository
	resolver   repositories.ResolverRepository
	properties repositories.PropertyRepository
}

// NewNugetEcosystemRepository creates the nuget ecosystem.
func NewNugetEcosystemRepository(client *registryhttp.Client) *NugetEcosystemRepository {
	versions := NewNugetCatalogRepository(client)
	return &NugetEcosystemRepository{
		catalog:    versions,
		resolver:   catalog.NewCatalogResolverRepository(versions, entities.NugetDialect),
		properties: NewNugetPropertyRepository(),
	}
}

func (it *NugetEcosystemRepository) Name() string { return ecosystemName }

func (it *NugetEcosystemRepository) FilePatterns() []string {
	return []string{"**/*.csproj", "**/*.vbproj", "**/*.fsproj", "**/*.props", "**/*.targets", "**/*.nuspec"}
}

func (it *NugetEcosystemRepository) Dialect() entities.RequirementDialect { return entities.NugetDialect }

func (it *NugetEcosystemRepository) Catalog() repositories.CatalogRepository { return it.catalog }

func (it *NugetEcosystemRepository) Resolver() repositories.ResolverRepository { return it.resolver }

func (it *NugetEcosystemRepository) Syntaxes() []repositories.DeclarationSyntax {
	return []repositories.DeclarationSyntax{NewNugetSyntax(it.properties)}
}

func (it *NugetEcosystemRepository) Lockfile() repositories.LockfileSyntax { return nil }

func (it *NugetEcosystemRepository) LockRegenerator() repositories.LockRegeneratorRepository { return nil }

func (it *NugetEcosystemRepository) Properties() repositories.PropertyRepository { return it.properties }
