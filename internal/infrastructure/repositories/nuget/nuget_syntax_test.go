//go:build unit

package nuget_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/nuget"
)

const project = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <SerilogVersion>2.3.0</SerilogVersion>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Newtonsoft.Json" Version="12.0.1" />
    <PackageReference Include="Serilog" Version="$(SerilogVersion)" />
    <PackageReference Update="Polly">
      <Version>7.1.0</Version>
    </PackageReference>
  </ItemGroup>
  <ItemGroup Condition="'$(TargetFramework)' == 'net8.0'">
    <PackageReference Include="newtonsoft.json" Version="[12.0.1,13.0.0)" />
  </ItemGroup>
</Project>
`

func projectFile(content string) entities.DependencyFile {
	return entities.DependencyFile{Name: "App/App.csproj", Directory: "/", Content: content, Role: entities.FileRoleManifest}
}

func nugetRequirement(text string) entities.Requirement {
	return entities.Requirement{
		File:        "App/App.csproj",
		Requirement: entities.StringPtr(text),
		Source:      entities.DefaultSource(""),
	}
}

func TestNugetSyntax(t *testing.T) {
	t.Parallel()

	t.Run("should tell same-named declarations apart by requirement", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := nuget.NewNugetSyntax(nuget.NewNugetPropertyRepository())
		dependency := entities.Dependency{Name: "Newtonsoft.Json", Version: "12.0.1"}
		previous := nugetRequirement("[12.0.1,13.0.0)")
		updated := previous.WithText("[12.0.1,14.0.0)")

		// when
		declarations, err := syntax.Locate(projectFile(project), nil, dependency, previous)
		require.NoError(t, err)
		require.Len(t, declarations, 1)
		content, err := syntax.Patch(project, declarations[0], previous, updated)

		// then
		require.NoError(t, err)
		assert.Equal(t, strings.Replace(project, "[12.0.1,13.0.0)", "[12.0.1,14.0.0)", 1), content)
	})

	t.Run("should update an attribute version", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := nuget.NewNugetSyntax(nuget.NewNugetPropertyRepository())
		dependency := entities.Dependency{Name: "Newtonsoft.Json", Version: "12.0.1"}
		previous := nugetRequirement("12.0.1")
		updated := previous.WithText("13.0.3")

		// when
		declarations, err := syntax.Locate(projectFile(project), nil, dependency, previous)
		require.NoError(t, err)
		require.Len(t, declarations, 1)
		content, err := syntax.Patch(project, declarations[0], previous, updated)

		// then
		require.NoError(t, err)
		assert.Equal(t, strings.Replace(project, `Version="12.0.1"`, `Version="13.0.3"`, 1), content)
	})

	t.Run("should update a child element version of an Update declaration", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := nuget.NewNugetSyntax(nuget.NewNugetPropertyRepository())
		dependency := entities.Dependency{Name: "polly", Version: "7.1.0"}
		previous := nugetRequirement("7.1.0")
		updated := previous.WithText("7.2.4")

		// when
		declarations, err := syntax.Locate(projectFile(project), nil, dependency, previous)
		require.NoError(t, err)
		require.Len(t, declarations, 1)
		content, err := syntax.Patch(project, declarations[0], previous, updated)

		// then
		require.NoError(t, err)
		assert.Equal(t, strings.Replace(project, "<Version>7.1.0</Version>", "<Version>7.2.4</Version>", 1), content)
	})

	t.Run("should patch the property definition of a property version", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := nuget.NewNugetSyntax(nuget.NewNugetPropertyRepository())
		dependency := entities.Dependency{Name: "Serilog", Version: "2.3.0"}
		previous := nugetRequirement("2.3.0")
		updated := previous.WithText("2.12.0")

		// when
		declarations, err := syntax.Locate(projectFile(project), nil, dependency, previous)
		require.NoError(t, err)
		require.Len(t, declarations, 1)
		content, err := syntax.Patch(project, declarations[0], previous, updated)

		// then
		require.NoError(t, err)
		assert.Equal(t, "SerilogVersion", declarations[0].Property)
		assert.Equal(t,
			strings.Replace(project, "<SerilogVersion>2.3.0</SerilogVersion>", "<SerilogVersion>2.12.0</SerilogVersion>", 1),
			content)
	})

	t.Run("should resolve a property defined in a shared props file", func(t *testing.T) {
		t.Parallel()

		// given
		props := entities.DependencyFile{
			Name:    "Directory.Build.props",
			Content: "<Project>\n  <PropertyGroup>\n    <PollyVersion>7.1.0</PollyVersion>\n  </PropertyGroup>\n</Project>\n",
		}
		csproj := projectFile("<Project>\n  <ItemGroup>\n    <PackageReference Include=\"Polly\" Version=\"$(PollyVersion)\" />\n  </ItemGroup>\n</Project>\n")
		syntax := nuget.NewNugetSyntax(nuget.NewNugetPropertyRepository())
		dependency := entities.Dependency{Name: "Polly", Version: "7.1.0"}
		previous := nugetRequirement("7.1.0")
		previous.Metadata = map[string]string{entities.MetadataPropertyName: "PollyVersion"}

		// when
		inProject, err := syntax.Locate(csproj, []entities.DependencyFile{csproj, props}, dependency, previous)
		require.NoError(t, err)
		inProps, err := syntax.Locate(props, []entities.DependencyFile{csproj, props}, dependency, previous)
		require.NoError(t, err)

		// then
		require.Len(t, inProject, 1)
		assert.Nil(t, inProject[0].PropertySpan)
		require.Len(t, inProps, 1)
		require.NotNil(t, inProps[0].PropertySpan)
		assert.Equal(t, "7.1.0", inProps[0].PropertySpan.Of(props.Content))
	})

	t.Run("should yield nested declarations on their own and inside their parent", func(t *testing.T) {
		t.Parallel()

		// given
		nuspec := `<package><metadata><dependencies>` +
			`<Dependency Include="Outer" Version="1.0.0"><Dependency Include="Inner" Version="2.0.0" /></Dependency>` +
			`</dependencies></metadata></package>`
		file := entities.DependencyFile{Name: "App.nuspec", Content: nuspec}
		syntax := nuget.NewNugetSyntax(nuget.NewNugetPropertyRepository())
		requirement := entities.Requirement{File: "App.nuspec", Requirement: entities.StringPtr("2.0.0")}

		// when
		inner, err := syntax.Locate(file, nil, entities.Dependency{Name: "Inner"}, requirement)
		require.NoError(t, err)
		outer, err := syntax.Locate(file, nil, entities.Dependency{Name: "Outer"}, requirement.WithText("1.0.0"))
		require.NoError(t, err)

		// then
		require.Len(t, inner, 1)
		require.Len(t, outer, 1)
		assert.Equal(t, `<Dependency Include="Inner" Version="2.0.0" />`, inner[0].Span.Of(nuspec))
		assert.True(t, outer[0].Span.Start < inner[0].Span.Start && inner[0].Span.End < outer[0].Span.End)
	})

	t.Run("should only handle MSBuild and nuspec files", func(t *testing.T) {
		t.Parallel()

		// given
		syntax := nuget.NewNugetSyntax(nuget.NewNugetPropertyRepository())

		// when
		handlesProject := syntax.Handles(entities.DependencyFile{Name: "src/App.CSPROJ"})
		handlesProps := syntax.Handles(entities.DependencyFile{Name: "Directory.Packages.props"})
		handlesJSON := syntax.Handles(entities.DependencyFile{Name: "packages.lock.json"})

		// then
		assert.True(t, handlesProject)
		assert.True(t, handlesProps)
		assert.False(t, handlesJSON)
	})
}
