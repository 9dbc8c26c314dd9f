//go:build unit

package golang_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/golang"
)

const goMod = `module example.com/app

go 1.22

require github.com/pkg/errors v0.8.1

require (
	github.com/sirupsen/logrus v1.9.0 // pinned for the logger
	golang.org/x/text v0.3.0 // indirect
)
`

func goModFile(content string) entities.DependencyFile {
	return entities.DependencyFile{Name: "go.mod", Directory: "/", Content: content, Role: entities.FileRoleManifest}
}

func goRequirement(text string) entities.Requirement {
	return entities.Requirement{File: "go.mod", Requirement: entities.StringPtr(text), Source: entities.DefaultSource("")}
}

func TestGoModSyntax(t *testing.T) {
	t.Parallel()

	t.Run("should update a single-line require directive", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := golang.NewGoModSyntax()
		dependency := entities.Dependency{Name: "github.com/pkg/errors", Version: "0.8.1"}
		previous := goRequirement("v0.8.1")

		// when
		declarations, err := syntax.Locate(goModFile(goMod), nil, dependency, previous)
		require.NoError(t, err)
		require.Len(t, declarations, 1)
		content, err := syntax.Patch(goMod, declarations[0], previous, previous.WithText("0.9.1"))

		// then
		require.NoError(t, err)
		assert.Equal(t, strings.Replace(goMod, "errors v0.8.1", "errors v0.9.1", 1), content)
	})

	t.Run("should update a require block entry and keep its comment", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := golang.NewGoModSyntax()
		dependency := entities.Dependency{Name: "github.com/sirupsen/logrus", Version: "1.9.0"}
		previous := goRequirement("1.9.0")

		// when
		declarations, err := syntax.Locate(goModFile(goMod), nil, dependency, previous)
		require.NoError(t, err)
		require.Len(t, declarations, 1)
		content, err := syntax.Patch(goMod, declarations[0], previous, previous.WithText("v1.9.3"))

		// then
		require.NoError(t, err)
		assert.Equal(t, strings.Replace(goMod, "logrus v1.9.0", "logrus v1.9.3", 1), content)
	})

	t.Run("should only rewrite the version token when the module path contains it", func(t *testing.T) {
		t.Parallel()

		// given
		content := "module example.com/app\n\nrequire example.com/lib/v1.2.0 v1.2.0\n"
		syntax := golang.NewGoModSyntax()
		dependency := entities.Dependency{Name: "example.com/lib/v1.2.0", Version: "1.2.0"}
		previous := goRequirement("v1.2.0")

		// when
		declarations, err := syntax.Locate(goModFile(content), nil, dependency, previous)
		require.NoError(t, err)
		require.Len(t, declarations, 1)
		patched, err := syntax.Patch(content, declarations[0], previous, previous.WithText("1.3.0"))

		// then
		require.NoError(t, err)
		assert.Equal(t, "module example.com/app\n\nrequire example.com/lib/v1.2.0 v1.3.0\n", patched)
	})

	t.Run("should not match a different version", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := golang.NewGoModSyntax()
		dependency := entities.Dependency{Name: "golang.org/x/text"}

		// when
		declarations, err := syntax.Locate(goModFile(goMod), nil, dependency, goRequirement("v0.3.8"))

		// then
		require.NoError(t, err)
		assert.Empty(t, declarations)
	})

	t.Run("should fail on an unparsable go.mod", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := golang.NewGoModSyntax()

		// when
		_, err := syntax.Locate(goModFile("require (\n"), nil, entities.Dependency{Name: "x"}, goRequirement("v1.0.0"))

		// then
		assert.Error(t, err)
	})

	t.Run("should only handle go.mod files", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := golang.NewGoModSyntax()

		// when
		handlesNested := syntax.Handles(entities.DependencyFile{Name: "tools/go.mod"})
		handlesSum := syntax.Handles(entities.DependencyFile{Name: "go.sum"})

		// then
		assert.True(t, handlesNested)
		assert.False(t, handlesSum)
	})
}
