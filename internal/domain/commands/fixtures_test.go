//go:build unit

package commands_test

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
	"github.com/rios0rios0/autobump/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/autobump/test/infrastructure/repositorydoubles"
)

const (
	manifestName = "deps.txt"
	lockName     = "deps.lock"
	dependencyID = "jwt-go"
)

func lineEcosystem(
	catalog repositories.CatalogRepository,
	resolver repositories.ResolverRepository,
	regenerator repositories.LockRegeneratorRepository,
) *doubles.StubEcosystemRepository {
	ecosystem := &doubles.StubEcosystemRepository{
		EcosystemName:       "dep",
		EcosystemDialect:    entities.DepDialect,
		CatalogRepo:         catalog,
		ResolverRepo:        resolver,
		DeclarationSyntaxes: []repositories.DeclarationSyntax{&doubles.StubLineSyntax{FileName: manifestName}},
	}
	if regenerator != nil {
		ecosystem.LockfileRepo = &doubles.StubLineLockfileSyntax{FileName: lockName}
		ecosystem.RegeneratorRepo = regenerator
	}
	return ecosystem
}

func ecosystemRegistry(ecosystem repositories.EcosystemRepository) *infraRepos.EcosystemRegistry {
	registry := infraRepos.NewEcosystemRegistry()
	registry.Register(ecosystem)
	return registry
}

func manifest(content string) entities.DependencyFile {
	return entitybuilders.NewDependencyFileBuilder().WithName(manifestName).WithContent(content).BuildFile()
}

func lockfile(content string) entities.DependencyFile {
	return entitybuilders.NewDependencyFileBuilder().
		WithName(lockName).
		WithContent(content).
		WithRole(entities.FileRoleLockfile).
		BuildFile()
}

func rangeRequirement(text string) entities.Requirement {
	return entitybuilders.NewRequirementBuilder().WithFile(manifestName).WithText(text).BuildRequirement()
}

func tagRequirement(ref string) entities.Requirement {
	return entitybuilders.NewRequirementBuilder().
		WithFile(manifestName).
		WithSource(entities.GitSource("https://github.com/dgrijalva/jwt-go", "", ref)).
		BuildRequirement()
}

func branchRequirement(branch string) entities.Requirement {
	return entitybuilders.NewRequirementBuilder().
		WithFile(manifestName).
		WithSource(entities.GitSource("https://github.com/dgrijalva/jwt-go", branch, "")).
		BuildRequirement()
}

func dependencyWith(version string, requirements ...entities.Requirement) entities.Dependency {
	builder := entitybuilders.NewDependencyBuilder().WithName(dependencyID).WithVersion(version)
	for _, requirement := range requirements {
		builder.WithRequirement(requirement)
	}
	return builder.BuildDependency()
}
