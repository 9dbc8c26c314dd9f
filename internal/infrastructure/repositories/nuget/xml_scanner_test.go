//go:build unit

package nuget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanElements(t *testing.T) {
	t.Parallel()

	t.Run("should return exact spans of accepted elements", func(t *testing.T) {
		t.Parallel()

		// given
		content := "<?xml version=\"1.0\"?>\n<Project>\n  <!-- pinned -->\n" +
			"  <PropertyGroup><Foo>1.2.3</Foo></PropertyGroup>\n" +
			"  <ItemGroup><Foo Include=\"x\" /></ItemGroup>\n</Project>\n"

		// when
		elements, err := scanElements(content, func(name, _ string) bool { return name == "Foo" })

		// then
		require.NoError(t, err)
		require.Len(t, elements, 2)
		assert.Equal(t, "<Foo>1.2.3</Foo>", elements[0].span.Of(content))
		assert.Equal(t, "1.2.3", elements[0].inner.Of(content))
		assert.Equal(t, "PropertyGroup", elements[0].parent)
		assert.Equal(t, `<Foo Include="x" />`, elements[1].span.Of(content))
		assert.Empty(t, elements[1].inner.Of(content))
		assert.Equal(t, "ItemGroup", elements[1].parent)
	})

	t.Run("should filter on the parent element", func(t *testing.T) {
		t.Parallel()

		// given
		content := "<Project><PropertyGroup><Foo>1</Foo></PropertyGroup><ItemGroup><Foo>2</Foo></ItemGroup></Project>"

		// when
		elements, err := scanElements(content, func(name, parent string) bool {
			return name == "Foo" && parent == "ItemGroup"
		})

		// then
		require.NoError(t, err)
		require.Len(t, elements, 1)
		assert.Equal(t, "2", elements[0].inner.Of(content))
	})

	t.Run("should fail on a stray closing tag", func(t *testing.T) {
		t.Parallel()

		// given
		content := "</Project>"

		// when
		_, err := scanElements(content, func(string, string) bool { return true })

		// then
		assert.Error(t, err)
	})
}
