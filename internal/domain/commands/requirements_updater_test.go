//go:build unit

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

func updateRequirements(
	t *testing.T,
	strategy entities.UpdateStrategy,
	current, resolvable string,
	requirements ...entities.Requirement,
) []entities.Requirement {
	t.Helper()
	updated, err := commands.NewRequirementsUpdaterCommand().Execute(commands.RequirementsRequest{
		Dialect:                 entities.DepDialect,
		DependencyName:          dependencyID,
		CurrentVersion:          current,
		Requirements:            requirements,
		Strategy:                strategy,
		LatestVersion:           resolvable,
		LatestResolvableVersion: resolvable,
	})
	require.NoError(t, err)
	require.Len(t, updated, len(requirements))
	return updated
}

func TestRequirementsUpdaterCommand(t *testing.T) {
	t.Parallel()

	t.Run("should widen a range that does not admit the new version", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := rangeRequirement("^1.0.1")

		// when
		updated := updateRequirements(t, entities.StrategyWidenRanges, "1.0.1", "3.2.0", requirement)

		// then
		assert.Equal(t, ">= 1.0.1, < 4.0.0", updated[0].Text())
	})

	t.Run("should keep a range that already admits the new version", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := rangeRequirement(">= 1.0.0")

		// when
		updated := updateRequirements(t, entities.StrategyWidenRanges, "1.0.1", "3.2.0", requirement)

		// then
		assert.True(t, updated[0].Equal(requirement))
	})

	t.Run("should bump a pinned version and keep its operator", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := rangeRequirement("^1.0.1")

		// when
		updated := updateRequirements(t, entities.StrategyBumpVersions, "1.0.1", "3.2.0", requirement)

		// then
		assert.Equal(t, "^3.2.0", updated[0].Text())
	})

	t.Run("should not bump when the resolvable version is the current one", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := rangeRequirement("^1.0.1")

		// when
		updated := updateRequirements(t, entities.StrategyBumpVersions, "1.0.1", "1.0.1", requirement)

		// then
		assert.True(t, updated[0].Equal(requirement))
	})

	t.Run("should bump only the requirements that need it", func(t *testing.T) {
		t.Parallel()

		// given
		admitting := rangeRequirement("^3.0.0")
		stale := rangeRequirement("^1.0.1")

		// when
		updated := updateRequirements(t, entities.StrategyBumpVersionsIfNecessary, "3.0.0", "3.2.0", admitting, stale)

		// then
		assert.True(t, updated[0].Equal(admitting))
		assert.Equal(t, "^3.2.0", updated[1].Text())
	})

	t.Run("should leave requirements alone for lockfile-only updates", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := rangeRequirement("^1.0.1")

		// when
		updated := updateRequirements(t, entities.StrategyLockfileOnly, "1.0.1", "3.2.0", requirement)

		// then
		assert.True(t, updated[0].Equal(requirement))
	})

	t.Run("should leave a requirement without text alone", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := rangeRequirement("^1.0.1")
		requirement.Requirement = nil

		// when
		updated := updateRequirements(t, entities.StrategyBumpVersions, "1.0.1", "3.2.0", requirement)

		// then
		assert.Nil(t, updated[0].Requirement)
	})

	t.Run("should move a branch pin to the registry once a release supersedes it", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := branchRequirement("master")

		// when
		updated := updateRequirements(t, entities.StrategyWidenRanges, "", "3.2.0", requirement)

		// then
		assert.Equal(t, entities.DefaultSource(dependencyID), updated[0].Source)
		assert.Equal(t, "^3.2.0", updated[0].Text())
	})

	t.Run("should move a branch pin to the release tag when the ecosystem keeps Git sources", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := branchRequirement("master")

		// when
		updated, err := commands.NewRequirementsUpdaterCommand().Execute(commands.RequirementsRequest{
			Dialect:                 entities.TerraformDialect,
			DependencyName:          dependencyID,
			Requirements:            []entities.Requirement{requirement},
			Strategy:                entities.StrategyWidenRanges,
			LatestResolvableVersion: "0.3.0",
			ResolvedTag:             "v0.3.0",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.GitSource(requirement.Source.URL, "", "v0.3.0"), updated[0].Source)
		assert.Nil(t, updated[0].Requirement)
	})

	t.Run("should move a tag pin to the resolved tag", func(t *testing.T) {
		t.Parallel()

		// given
		requirement := tagRequirement("v1.0.0")

		// when
		updated, err := commands.NewRequirementsUpdaterCommand().Execute(commands.RequirementsRequest{
			Dialect:                 entities.DepDialect,
			DependencyName:          dependencyID,
			CurrentVersion:          "v1.0.0",
			Requirements:            []entities.Requirement{requirement},
			Strategy:                entities.StrategyBumpVersions,
			LatestResolvableVersion: "v1.1.0",
			ResolvedTag:             "v1.1.0",
		})

		// then
		require.NoError(t, err)
		assert.True(t, updated[0].Source.IsGit())
		assert.Equal(t, "v1.1.0", updated[0].Source.Ref)
		assert.Equal(t, requirement.Source.URL, updated[0].Source.URL)
	})

	t.Run("should reject an unknown strategy", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewRequirementsUpdaterCommand()

		// when
		_, err := command.Execute(commands.RequirementsRequest{Strategy: "yolo"})

		// then
		assert.Error(t, err)
	})
}
