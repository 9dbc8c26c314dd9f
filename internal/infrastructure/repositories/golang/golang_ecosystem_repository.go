package golang

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

const ecosystemName = "go_modules"

// GoModulesEcosystemRepository wires the Go modules collaborators together.
type GoModulesEcosystemRepository struct {
	catalog     repositories.CatalogRepository
	resolver    repositories.ResolverRepository
	regenerator repositories.LockRegeneratorRepository
}

// NewGoModulesEcosystemRepository creates the go_modules ecosystem.
func NewGoModulesEcosystemRepository(
	client *registryhttp.Client,
	runner process.CommandRunner,
) *GoModulesEcosystemRepository {
	return &GoModulesEcosystemRepository{
		catalog:     NewProxyCatalogRepository(client),
		resolver:    NewGoResolverRepository(runner),
		regenerator: NewGoSumRegeneratorRepository(runner),
	}
}

func (it *GoModulesEcosystemRepository) Name() string { return ecosystemName }

func (it *GoModulesEcosystemRepository) FilePatterns() []string {
	return []string{goModFile, goSumFile, "*.go", "cmd/**/*.go"}
}

func (it *GoModulesEcosystemRepository) Dialect() entities.RequirementDialect {
	return entities.GoModulesDialect
}

func (it *GoModulesEcosystemRepository) Catalog() repositories.CatalogRepository { return it.catalog }

func (it *GoModulesEcosystemRepository) Resolver() repositories.ResolverRepository { return it.resolver }

func (it *GoModulesEcosystemRepository) Syntaxes() []repositories.DeclarationSyntax {
	return []repositories.DeclarationSyntax{NewGoModSyntax()}
}

func (it *GoModulesEcosystemRepository) Lockfile() repositories.LockfileSyntax {
	return NewGoSumSyntax()
}

func (it *GoModulesEcosystemRepository) LockRegenerator() repositories.LockRegeneratorRepository {
	return it.regenerator
}

func (it *GoModulesEcosystemRepository) Properties() repositories.PropertyRepository { return nil }
