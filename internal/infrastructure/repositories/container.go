package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/autobump/internal/domain/repositories"
	adoRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/azuredevops"
	depRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/dep"
	filesRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/files"
	ghRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/github"
	gitRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/gittags"
	glRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/gitlab"
	goRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/golang"
	nugetRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/nuget"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
	tfRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/terraform"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []interface{}{
		registryhttp.NewClient,
		func() process.CommandRunner { return process.NewRunner() },
		func() domainRepos.DependencyFileRepository { return filesRepo.NewLocalDependencyFileRepository() },
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register git hosts; the plain git host matches everything, so it goes last
	if err := container.Provide(func(client *registryhttp.Client) *GitHostRegistry {
		reg := NewGitHostRegistry()
		reg.Register(ghRepo.NewGitHubHostRepository())
		reg.Register(glRepo.NewGitLabHostRepository())
		reg.Register(adoRepo.NewAzureDevOpsHostRepository(client))
		reg.Register(gitRepo.NewGitHostRepository())
		return reg
	}); err != nil {
		return err
	}

	// Register ecosystem registry with all package managers
	if err := container.Provide(func(
		client *registryhttp.Client,
		runner process.CommandRunner,
		hosts *GitHostRegistry,
	) *EcosystemRegistry {
		reg := NewEcosystemRegistry()
		reg.Register(depRepo.NewDepEcosystemRepository(hosts, runner))
		reg.Register(goRepo.NewGoModulesEcosystemRepository(client, runner))
		reg.Register(tfRepo.NewTerraformEcosystemRepository(client, hosts, runner))
		reg.Register(nugetRepo.NewNugetEcosystemRepository(client))
		return reg
	}); err != nil {
		return err
	}

	return nil
}
