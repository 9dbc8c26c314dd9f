//go:build unit

package golang_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/golang"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

func TestProxyCatalogRepository(t *testing.T) {
	t.Parallel()

	t.Run("should list versions with the module path case-escaped", func(t *testing.T) {
		t.Parallel()

		// given
		mux := http.NewServeMux()
		mux.HandleFunc("/github.com/!burnt!sushi/toml/@v/list", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("v1.2.0\nv1.3.2\nv1.4.0\n"))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		catalog := golang.NewProxyCatalogRepositoryWithBaseURL(registryhttp.NewClient(), server.URL+"/")

		// when
		versions, err := catalog.ListVersions(context.Background(), entities.Dependency{Name: "github.com/BurntSushi/toml"}, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"v1.2.0", "v1.3.2", "v1.4.0"}, versions)
	})

	t.Run("should classify an unknown module as not resolvable", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(server.Close)
		catalog := golang.NewProxyCatalogRepositoryWithBaseURL(registryhttp.NewClient(), server.URL)

		// when
		_, err := catalog.ListVersions(context.Background(), entities.Dependency{Name: "example.com/missing"}, nil)

		// then
		_, class := entities.ClassOf(err)
		assert.Equal(t, entities.ErrorClassResolvability, class)
	})
}
