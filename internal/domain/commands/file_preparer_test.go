//go:build unit

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

func TestFilePreparerCommand(t *testing.T) {
	t.Parallel()

	t.Run("should unlock the requirement up to the latest allowable version", func(t *testing.T) {
		t.Parallel()

		// given
		files := []entities.DependencyFile{manifest("jwt-go ^1.0.1\nother ^2.0.0\n")}
		command := commands.NewFilePreparerCommand()

		// when
		prepared, err := command.Execute(commands.PrepareRequest{
			Ecosystem:              lineEcosystem(nil, nil, nil),
			Dependency:             dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:                  files,
			UnlockRequirement:      true,
			LatestAllowableVersion: "3.2.0",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "jwt-go >= 1.0.1, <= 3.2.0\nother ^2.0.0\n", prepared.Files[0].Content)
		assert.Equal(t, ">= 1.0.1, <= 3.2.0", prepared.Requirements[0].Text())
		assert.Equal(t, "jwt-go ^1.0.1\nother ^2.0.0\n", files[0].Content)
	})

	t.Run("should leave the files alone when not unlocking", func(t *testing.T) {
		t.Parallel()

		// given
		files := []entities.DependencyFile{manifest("jwt-go ^1.0.1\n")}
		command := commands.NewFilePreparerCommand()

		// when
		prepared, err := command.Execute(commands.PrepareRequest{
			Ecosystem:  lineEcosystem(nil, nil, nil),
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:      files,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, files, prepared.Files)
		assert.Equal(t, "^1.0.1", prepared.Requirements[0].Text())
	})

	t.Run("should replace a git source with the default source", func(t *testing.T) {
		t.Parallel()

		// given
		files := []entities.DependencyFile{manifest("jwt-go ref=v1.0.0\n")}
		command := commands.NewFilePreparerCommand()

		// when
		prepared, err := command.Execute(commands.PrepareRequest{
			Ecosystem:       lineEcosystem(nil, nil, nil),
			Dependency:      dependencyWith("v1.0.0", tagRequirement("v1.0.0")),
			Files:           files,
			RemoveGitSource: true,
		})

		// then
		require.NoError(t, err)
		assert.False(t, prepared.Requirements[0].Source.IsGit())
		assert.NotContains(t, prepared.Files[0].Content, "ref=")
	})

	t.Run("should keep the requirement rewrite when the declaration cannot be addressed", func(t *testing.T) {
		t.Parallel()

		// given
		files := []entities.DependencyFile{manifest("jwt-go ~1.0.0\n")}
		command := commands.NewFilePreparerCommand()

		// when
		prepared, err := command.Execute(commands.PrepareRequest{
			Ecosystem:              lineEcosystem(nil, nil, nil),
			Dependency:             dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
			Files:                  files,
			UnlockRequirement:      true,
			LatestAllowableVersion: "3.2.0",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "jwt-go ~1.0.0\n", prepared.Files[0].Content)
		assert.Equal(t, ">= 1.0.1, <= 3.2.0", prepared.Requirements[0].Text())
	})

	t.Run("should fail when a requirement names an unknown file", func(t *testing.T) {
		t.Parallel()

		// given
		command := commands.NewFilePreparerCommand()

		// when
		_, err := command.Execute(commands.PrepareRequest{
			Ecosystem:  lineEcosystem(nil, nil, nil),
			Dependency: dependencyWith("1.0.1", rangeRequirement("^1.0.1")),
		})

		// then
		require.ErrorIs(t, err, entities.ErrDependencyFileNotFound)
	})
}
