package dep

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/gittags"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
)

const ecosystemName = "dep"

// DepEcosystemRepository wires the dep collaborators together. dep has no
// registry: the published versions are the repository's tags.
type DepEcosystemRepository struct {
	catalog     repositories.CatalogRepository
	resolver    repositories.ResolverRepository
	regenerator repositories.LockRegeneratorRepository
}

// NewDepEcosystemRepository creates the dep ecosystem.
func NewDepEcosystemRepository(hosts gittags.HostSelector, runner process.CommandRunner) *DepEcosystemRepository {
	return &DepEcosystemRepository{
		catalog:     gittags.NewTagCatalogRepository(hosts),
		resolver:    NewDepResolverRepository(runner),
		regenerator: NewDepLockRegeneratorRepository(runner),
	}
}

func (it *DepEcosystemRepository) Name() string { return ecosystemName }

func (it *DepEcosystemRepository) FilePatterns() []string {
	return []string{manifestFile, lockFile, "*.go", "cmd/**/*.go"}
}

func (it *DepEcosystemRepository) Dialect() entities.RequirementDialect { return entities.DepDialect }

func (it *DepEcosystemRepository) Catalog() repositories.CatalogRepository { return it.catalog }

func (it *DepEcosystemRepository) Resolver() repositories.ResolverRepository { return it.resolver }

func (it *DepEcosystemRepository) Syntaxes() []repositories.DeclarationSyntax {
	return []repositories.DeclarationSyntax{NewGopkgTomlSyntax()}
}

func (it *DepEcosystemRepository) Lockfile() repositories.LockfileSyntax { return NewGopkgLockSyntax() }

func (it *DepEcosystemRepository) LockRegenerator() repositories.LockRegeneratorRepository {
	return it.regenerator
}

func (it *DepEcosystemRepository) Properties() repositories.PropertyRepository { return nil }
