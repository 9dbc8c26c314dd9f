package terraform

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/catalog"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/gittags"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

const ecosystemName = "terraform"

// TerraformEcosystemRepository wires the terraform collaborators together. Terraform has
// no solver: the resolvable version is the best published one the requirements admit.
type TerraformEcosystemRepository struct {
	catalog     repositories.CatalogRepository
	resolver    repositories.ResolverRepository
	regenerator repositories.LockRegeneratorRepository
}

// NewTerraformEcosystemRepository creates the terraform ecosystem.
func NewTerraformEcosystemRepository(
	client *registryhttp.Client,
	hosts gittags.HostSelector,
	runner process.CommandRunner,
) *TerraformEcosystemRepository {
	versions := NewTerraformCatalogRepository(NewRegistryCatalogRepository(client), gittags.NewTagCatalogRepository(hosts))
	return &TerraformEcosystemRepository{
		catalog:     versions,
		resolver:    catalog.NewCatalogResolverRepository(versions, entities.TerraformDialect),
		regenerator: NewTerraformLockRegeneratorRepository(runner),
	}
}

func (it *TerraformEcosystemRepository) Name() string { return ecosystemName }

func (it *TerraformEcosystemRepository) FilePatterns() []string {
	return []string{"**/*.tf", "**/" + terragruntFile, lockFile}
}

func (it *TerraformEcosystemRepository) Dialect() entities.RequirementDialect { return entities.TerraformDialect }

func (it *TerraformEcosystemRepository) Catalog() repositories.CatalogRepository { return it.catalog }

func (it *TerraformEcosystemRepository) Resolver() repositories.ResolverRepository { return it.resolver }

func (it *TerraformEcosystemRepository) Syntaxes() []repositories.DeclarationSyntax {
	return []repositories.DeclarationSyntax{NewTerraformSyntax()}
}

func (it *TerraformEcosystemRepository) Lockfile() repositories.LockfileSyntax { return NewTerraformLockSyntax() }

func (it *TerraformEcosystemRepository) LockRegenerator() repositories.LockRegeneratorRepository {
	return it.regenerator
}

func (it *TerraformEcosystemRepository) Properties() repositories.PropertyRepository { return nil }
