//go:build unit

package entities_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

func TestTranslateCollaboratorError(t *testing.T) {
	t.Parallel()

	t.Run("should report resolvability failures with host and credential context", func(t *testing.T) {
		t.Parallel()

		// given
		cause := errors.New("404 Not Found")
		err := entities.NewResolvabilityError("github.com", cause)
		credentials := []entities.Credential{{Host: "github.com", Password: "token"}}

		// when
		result := entities.TranslateCollaboratorError(err, "github.com/private/repo", credentials)

		// then
		require.ErrorIs(t, result, entities.ErrDependencyNotResolvable)
		require.ErrorIs(t, result, cause)
		var updateErr *entities.UpdateError
		require.ErrorAs(t, result, &updateErr)
		assert.True(t, updateErr.CredentialsSupplied)
		assert.Equal(t, "github.com", updateErr.Host)
		assert.NotContains(t, result.Error(), "404")
	})

	t.Run("should surface exhausted transient failures as their cause", func(t *testing.T) {
		t.Parallel()

		// given
		cause := errors.New("connection reset by peer")
		err := entities.NewTransientError("proxy.golang.org", cause)

		// when
		result := entities.TranslateCollaboratorError(err, "golang.org/x/text", nil)

		// then
		assert.Same(t, cause, result)
		assert.NotErrorIs(t, result, entities.ErrTransientNetwork)
	})

	t.Run("should map authentication failures", func(t *testing.T) {
		t.Parallel()

		// given
		err := entities.NewAuthenticationError("gitlab.com", errors.New("401"))

		// when
		result := entities.TranslateCollaboratorError(err, "gitlab.com/group/repo", nil)

		// then
		assert.ErrorIs(t, result, entities.ErrPrivateSourceAuthenticationFailure)
	})

	t.Run("should propagate unclassified failures verbatim", func(t *testing.T) {
		t.Parallel()

		// given
		err := errors.New("boom")

		// when
		result := entities.TranslateCollaboratorError(err, "x", nil)

		// then
		assert.Same(t, err, result)
	})
}

func TestCollaboratorErrorIs(t *testing.T) {
	t.Parallel()

	t.Run("should match the transient sentinel only for transient failures", func(t *testing.T) {
		t.Parallel()

		// given
		transient := entities.NewTransientError("h", errors.New("EOF"))
		resolvability := entities.NewResolvabilityError("h", errors.New("404"))

		// when
		transientMatches := errors.Is(transient, entities.ErrTransientNetwork)
		resolvabilityMatches := errors.Is(resolvability, entities.ErrTransientNetwork)

		// then
		assert.True(t, transientMatches)
		assert.False(t, resolvabilityMatches)
	})
}
