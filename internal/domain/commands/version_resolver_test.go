//go:build unit

package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/autobump/test/infrastructure/repositorydoubles"
)

func newResolver(host *doubles.SpyGitHostRepository) *commands.VersionResolverCommand {
	hosts := infraRepos.NewGitHostRegistry()
	if host != nil {
		hosts.Register(host)
	}
	return commands.NewVersionResolverCommand(commands.NewFilePreparerCommand(), hosts)
}

func TestVersionResolverCommand(t *testing.T) {
	t.Parallel()

	t.Run("should resolve against the unlocked working copy", func(t *testing.T) {
		t.Parallel()

		// given
		resolver := &doubles.StubResolverRepository{Version: "3.2.0"}
		command := newResolver(nil)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, resolver, nil),
			Dependency:        dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:             []entities.DependencyFile{manifest("jwt-go ^1.0.1\n")},
			LatestVersion:     "3.2.0",
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.Resolution{Version: "3.2.0"}, resolution)
		require.Len(t, resolver.Requests, 1)
		assert.True(t, resolver.Requests[0].Unlock)
		assert.Equal(t, "3.2.0", resolver.Requests[0].LatestAllowable)
		assert.Equal(t, ">= 1.0.1, <= 3.2.0", resolver.Requests[0].Dependency.Requirements[0].Text())
		assert.Equal(t, "jwt-go >= 1.0.1, <= 3.2.0\n", resolver.WorkFiles[0][manifestName])
	})

	t.Run("should keep the current version when nothing better resolves", func(t *testing.T) {
		t.Parallel()

		// given
		resolver := &doubles.StubResolverRepository{}
		command := newResolver(nil)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:  lineEcosystem(nil, resolver, nil),
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:      []entities.DependencyFile{manifest("jwt-go ^1.0.1\n")},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.0.1", resolution.Version)
		assert.Equal(t, "jwt-go ^1.0.1\n", resolver.WorkFiles[0][manifestName])
	})

	t.Run("should not resolve an indirect dependency", func(t *testing.T) {
		t.Parallel()

		// given
		resolver := &doubles.StubResolverRepository{Version: "3.2.0"}
		command := newResolver(nil)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, resolver, nil),
			Dependency:        dependencyWith("1.0.1"),
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.0.1", resolution.Version)
		assert.Empty(t, resolver.Requests)
	})

	t.Run("should translate a resolver failure", func(t *testing.T) {
		t.Parallel()

		// given
		resolver := &doubles.StubResolverRepository{
			Err: entities.NewResolvabilityError("github.com", errors.New("no versions satisfy")),
		}
		command := newResolver(nil)

		// when
		_, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:  lineEcosystem(nil, resolver, nil),
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:      []entities.DependencyFile{manifest("jwt-go ^1.0.1\n")},
		})

		// then
		require.ErrorIs(t, err, entities.ErrDependencyNotResolvable)
	})

	t.Run("should move a tag pin to the furthest newer tag of the same shape", func(t *testing.T) {
		t.Parallel()

		// given
		host := &doubles.SpyGitHostRepository{
			HostName: "github",
			Tags: []entities.GitTag{
				{Name: "v1.0.0", CommitSHA: "aaa"},
				{Name: "v1.1.0", CommitSHA: "bbb"},
				{Name: "v1.2.0", CommitSHA: "ccc"},
				{Name: "v2.0.0", CommitSHA: "ddd"},
				{Name: "release-candidate", CommitSHA: "eee"},
			},
			Comparisons: map[string]entities.Comparison{
				"v1.0.0...v1.1.0": {Status: entities.ComparisonAhead, AheadBy: 3},
				"v1.0.0...v1.2.0": {Status: entities.ComparisonAhead, AheadBy: 7},
				"v1.0.0...v2.0.0": {Status: entities.ComparisonDiverged, AheadBy: 20, BehindBy: 2},
			},
		}
		command := newResolver(host)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, nil, nil),
			Dependency:        dependencyWith("v1.0.0", tagRequirement("v1.0.0")),
			Files:             []entities.DependencyFile{manifest("jwt-go ref=v1.0.0\n")},
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.Resolution{Version: "v1.2.0", Tag: "v1.2.0"}, resolution)
		assert.Equal(t, []string{"https://github.com/dgrijalva/jwt-go"}, host.ListedURLs)
		assert.NotContains(t, host.CompareCalls, "v1.0.0...release-candidate")
	})

	t.Run("should return the commit of the new tag when the current version is a commit", func(t *testing.T) {
		t.Parallel()

		// given
		current := strings.Repeat("a", 40)
		host := &doubles.SpyGitHostRepository{
			Tags: []entities.GitTag{{Name: "v1.0.0", CommitSHA: current}, {Name: "v1.1.0", CommitSHA: strings.Repeat("b", 40)}},
			Comparisons: map[string]entities.Comparison{
				"v1.0.0...v1.1.0": {Status: entities.ComparisonAhead, AheadBy: 1},
			},
		}
		command := newResolver(host)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, nil, nil),
			Dependency:        dependencyWith(current, tagRequirement("v1.0.0")),
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.Resolution{Version: strings.Repeat("b", 40), Tag: "v1.1.0"}, resolution)
	})

	t.Run("should keep a git pin when not unlocking", func(t *testing.T) {
		t.Parallel()

		// given
		host := &doubles.SpyGitHostRepository{}
		command := newResolver(host)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:  lineEcosystem(nil, nil, nil),
			Dependency: dependencyWith("v1.0.0", tagRequirement("v1.0.0")),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "v1.0.0", resolution.Version)
		assert.Empty(t, host.ListedURLs)
	})

	t.Run("should let a release supersede a branch it is not behind", func(t *testing.T) {
		t.Parallel()

		// given
		host := &doubles.SpyGitHostRepository{
			Tags: []entities.GitTag{{Name: "v3.2.0"}, {Name: "v3.1.0"}, {Name: "v4.0.0-beta.1"}},
			Comparisons: map[string]entities.Comparison{
				"master...v3.2.0": {Status: entities.ComparisonIdentical},
			},
		}
		command := newResolver(host)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, nil, nil),
			Dependency:        dependencyWith("", branchRequirement("master")),
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.Resolution{Version: "3.2.0", Tag: "v3.2.0"}, resolution)
	})

	t.Run("should keep a branch pin the latest release is behind", func(t *testing.T) {
		t.Parallel()

		// given
		host := &doubles.SpyGitHostRepository{
			Tags: []entities.GitTag{{Name: "v3.2.0"}},
			Comparisons: map[string]entities.Comparison{
				"master...v3.2.0": {Status: entities.ComparisonBehind, BehindBy: 4},
			},
		}
		command := newResolver(host)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, nil, nil),
			Dependency:        dependencyWith("", branchRequirement("master")),
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Empty(t, resolution.Version)
		assert.Empty(t, resolution.Tag)
	})

	t.Run("should retry a transient compare failure once", func(t *testing.T) {
		t.Parallel()

		// given
		host := &doubles.SpyGitHostRepository{
			Tags:        []entities.GitTag{{Name: "v3.2.0"}},
			CompareErrs: []error{entities.NewTransientError("github.com", errors.New("connection reset"))},
			Comparisons: map[string]entities.Comparison{
				"master...v3.2.0": {Status: entities.ComparisonAhead, AheadBy: 2},
			},
		}
		command := newResolver(host)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, nil, nil),
			Dependency:        dependencyWith("", branchRequirement("master")),
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"master...v3.2.0", "master...v3.2.0"}, host.CompareCalls)
		assert.Equal(t, commands.Resolution{Version: "3.2.0", Tag: "v3.2.0"}, resolution)
	})

	t.Run("should give up after the second transient compare failure", func(t *testing.T) {
		t.Parallel()

		// given
		cause := errors.New("connection reset")
		host := &doubles.SpyGitHostRepository{
			Tags:       []entities.GitTag{{Name: "v3.2.0"}},
			CompareErr: entities.NewTransientError("github.com", cause),
		}
		command := newResolver(host)

		// when
		_, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, nil, nil),
			Dependency:        dependencyWith("", branchRequirement("master")),
			UnlockRequirement: true,
		})

		// then
		require.ErrorIs(t, err, cause)
		assert.Len(t, host.CompareCalls, 2)
	})

	t.Run("should retry a transient tag listing failure once", func(t *testing.T) {
		t.Parallel()

		// given
		host := &doubles.SpyGitHostRepository{
			Tags:         []entities.GitTag{{Name: "v3.2.0"}},
			ListTagsErrs: []error{entities.NewTransientError("github.com", errors.New("timeout"))},
			Comparisons: map[string]entities.Comparison{
				"master...v3.2.0": {Status: entities.ComparisonIdentical},
			},
		}
		command := newResolver(host)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, nil, nil),
			Dependency:        dependencyWith("", branchRequirement("master")),
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Len(t, host.ListedURLs, 2)
		assert.Equal(t, "3.2.0", resolution.Version)
	})

	t.Run("should retry a transient resolver failure once", func(t *testing.T) {
		t.Parallel()

		// given
		resolver := &doubles.StubResolverRepository{
			Version: "3.2.0",
			Errs:    []error{entities.NewTransientError("github.com", errors.New("dial tcp: i/o timeout"))},
		}
		command := newResolver(nil)

		// when
		resolution, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, resolver, nil),
			Dependency:        dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:             []entities.DependencyFile{manifest("jwt-go ^1.0.1\n")},
			LatestVersion:     "3.2.0",
			UnlockRequirement: true,
		})

		// then
		require.NoError(t, err)
		assert.Len(t, resolver.Requests, 2)
		assert.Equal(t, "3.2.0", resolution.Version)
	})

	t.Run("should not retry a resolvability failure", func(t *testing.T) {
		t.Parallel()

		// given
		resolver := &doubles.StubResolverRepository{
			Err: entities.NewResolvabilityError("github.com", errors.New("unknown revision")),
		}
		command := newResolver(nil)

		// when
		_, err := command.Execute(context.Background(), commands.ResolveVersionRequest{
			Ecosystem:         lineEcosystem(nil, resolver, nil),
			Dependency:        dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:             []entities.DependencyFile{manifest("jwt-go ^1.0.1\n")},
			LatestVersion:     "3.2.0",
			UnlockRequirement: true,
		})

		// then
		require.ErrorIs(t, err, entities.ErrDependencyNotResolvable)
		assert.Len(t, resolver.Requests, 1)
	})
}
