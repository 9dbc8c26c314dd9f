//go:build unit

package commands_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/terraform"
	doubles "github.com/rios0rios0/autobump/test/infrastructure/repositorydoubles"
)

func newUpdateChecker(ecosystems *infraRepos.EcosystemRegistry) *commands.UpdateCheckerCommand {
	preparer := commands.NewFilePreparerCommand()
	return commands.NewUpdateCheckerCommand(
		ecosystems,
		commands.NewLatestVersionCommand(),
		commands.NewVersionResolverCommand(preparer, infraRepos.NewGitHostRegistry()),
		commands.NewRequirementsUpdaterCommand(),
		commands.NewFileUpdaterCommand(),
	)
}

func newUpdateCheckerWithHost(
	ecosystems *infraRepos.EcosystemRegistry,
	host *doubles.SpyGitHostRepository,
) *commands.UpdateCheckerCommand {
	return commands.NewUpdateCheckerCommand(
		ecosystems,
		commands.NewLatestVersionCommand(),
		newResolver(host),
		commands.NewRequirementsUpdaterCommand(),
		commands.NewFileUpdaterCommand(),
	)
}

const labelModule = `module "label" {
  source = "git::https://github.com/acme/label.git?ref=master"
}
`

func TestUpdateCheckerCommand(t *testing.T) {
	t.Parallel()

	t.Run("should run the whole pipeline for a library", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := lineEcosystem(
			&doubles.StubCatalogRepository{Versions: []string{"1.0.1", "3.2.0", "4.0.0-rc.1"}},
			&doubles.StubResolverRepository{VersionFor: map[bool]string{true: "3.2.0", false: "1.0.1"}},
			&doubles.StubLockRegeneratorRepository{Block: "jwt-go 3.2.0 h9\n"},
		)
		checker := newUpdateChecker(ecosystemRegistry(ecosystem))

		// when
		result, err := checker.Execute(context.Background(), commands.UpdateCheckRequest{
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:      []entities.DependencyFile{manifest("jwt-go ^1.0.1\n"), lockfile("jwt-go 1.0.1 h2\n")},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "3.2.0", result.LatestVersion)
		assert.Equal(t, "3.2.0", result.LatestResolvableVersion)
		assert.Equal(t, "1.0.1", result.LatestResolvableVersionWithNoUnlock)
		assert.Equal(t, entities.StrategyWidenRanges, result.Strategy)
		assert.Equal(t, ">= 1.0.1, < 4.0.0", result.UpdatedRequirements[0].Text())
		require.True(t, result.CanUpdate())
		assert.Equal(t, "jwt-go >= 1.0.1, < 4.0.0\n", result.UpdatedFiles[0].Content)
		assert.Equal(t, "jwt-go 3.2.0 h9\n", result.UpdatedFiles[1].Content)
	})

	t.Run("should bump versions of an application", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := lineEcosystem(
			&doubles.StubCatalogRepository{Versions: []string{"1.0.1", "3.2.0"}},
			&doubles.StubResolverRepository{Version: "3.2.0"},
			nil,
		)
		checker := newUpdateChecker(ecosystemRegistry(ecosystem))
		app := entities.DependencyFile{Name: "main.go", Content: "package main\n", Role: entities.FileRoleApplication}

		// when
		result, err := checker.Execute(context.Background(), commands.UpdateCheckRequest{
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:      []entities.DependencyFile{manifest("jwt-go ^1.0.1\n"), app},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.StrategyBumpVersions, result.Strategy)
		require.Len(t, result.UpdatedFiles, 1)
		assert.Equal(t, "jwt-go ^3.2.0\n", result.UpdatedFiles[0].Content)
	})

	t.Run("should change nothing when the dependency is up to date", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := lineEcosystem(
			&doubles.StubCatalogRepository{Versions: []string{"1.0.1"}},
			&doubles.StubResolverRepository{Version: "1.0.1"},
			&doubles.StubLockRegeneratorRepository{},
		)
		checker := newUpdateChecker(ecosystemRegistry(ecosystem))

		// when
		result, err := checker.Execute(context.Background(), commands.UpdateCheckRequest{
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:      []entities.DependencyFile{manifest("jwt-go ^1.0.1\n"), lockfile("jwt-go 1.0.1 h2\n")},
		})

		// then
		require.NoError(t, err)
		assert.False(t, result.CanUpdate())
		assert.Equal(t, "1.0.1", result.LatestResolvableVersion)
	})

	t.Run("should refresh only the lockfile when the range already admits the new version", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := lineEcosystem(
			&doubles.StubCatalogRepository{Versions: []string{"1.0.1", "1.4.0"}},
			&doubles.StubResolverRepository{Version: "1.4.0"},
			&doubles.StubLockRegeneratorRepository{Block: "jwt-go 1.4.0 h4\n"},
		)
		checker := newUpdateChecker(ecosystemRegistry(ecosystem))

		// when
		result, err := checker.Execute(context.Background(), commands.UpdateCheckRequest{
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:      []entities.DependencyFile{manifest("jwt-go ^1.0.1\n"), lockfile("jwt-go 1.0.1 h2\n")},
		})

		// then
		require.NoError(t, err)
		require.Len(t, result.UpdatedFiles, 1)
		assert.Equal(t, lockName, result.UpdatedFiles[0].Name)
		assert.Equal(t, "jwt-go 1.4.0 h4\n", result.UpdatedFiles[0].Content)
	})

	t.Run("should reject an unknown package manager", func(t *testing.T) {
		t.Parallel()

		// given
		checker := newUpdateChecker(infraRepos.NewEcosystemRegistry())

		// when
		_, err := checker.Execute(context.Background(), commands.UpdateCheckRequest{
			Dependency: dependencyWith("1.0.1"),
		})

		// then
		assert.ErrorContains(t, err, "unsupported package manager")
	})

	t.Run("should fail fast when a requirement names a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := &doubles.StubCatalogRepository{Versions: []string{"1.0.1"}}
		checker := newUpdateChecker(ecosystemRegistry(lineEcosystem(catalog, nil, nil)))

		// when
		_, err := checker.Execute(context.Background(), commands.UpdateCheckRequest{
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
		})

		// then
		require.ErrorIs(t, err, entities.ErrDependencyFileNotFound)
		assert.Zero(t, catalog.CallCount)
	})

	t.Run("should move a terraform module off a superseded branch onto the release tag", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := &doubles.StubEcosystemRepository{
			EcosystemName:       "terraform",
			EcosystemDialect:    entities.TerraformDialect,
			CatalogRepo:         &doubles.StubCatalogRepository{Versions: []string{"0.2.0", "0.3.0"}},
			DeclarationSyntaxes: []repositories.DeclarationSyntax{terraform.NewTerraformSyntax()},
		}
		host := &doubles.SpyGitHostRepository{
			HostName: "github",
			Tags:     []entities.GitTag{{Name: "v0.2.0", CommitSHA: "aaa"}, {Name: "v0.3.0", CommitSHA: "bbb"}},
			Comparisons: map[string]entities.Comparison{
				"master...v0.3.0": {Status: entities.ComparisonAhead, AheadBy: 2},
			},
		}
		checker := newUpdateCheckerWithHost(ecosystemRegistry(ecosystem), host)
		requirement := entities.Requirement{
			File:   "main.tf",
			Groups: []string{entities.GroupModules},
			Source: entities.GitSource("https://github.com/acme/label.git", "master", ""),
		}
		dependency := entities.Dependency{
			Name:           "github.com/acme/label",
			Version:        "master",
			Requirements:   []entities.Requirement{requirement},
			PackageManager: "terraform",
		}
		file := entities.DependencyFile{Name: "main.tf", Directory: "/", Content: labelModule, Role: entities.FileRoleManifest}

		// when
		result, err := checker.Execute(context.Background(), commands.UpdateCheckRequest{
			Dependency: dependency,
			Files:      []entities.DependencyFile{file},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "0.3.0", result.LatestResolvableVersion)
		assert.True(t, result.UpdatedRequirements[0].Source.IsGit())
		assert.Equal(t, "v0.3.0", result.UpdatedRequirements[0].Source.Ref)
		require.Len(t, result.UpdatedFiles, 1)
		assert.Equal(t,
			strings.Replace(labelModule, "?ref=master", "?ref=v0.3.0", 1),
			result.UpdatedFiles[0].Content,
		)
	})
}
