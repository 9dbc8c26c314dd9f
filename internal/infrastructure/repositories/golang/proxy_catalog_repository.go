package golang

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/module"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

const defaultProxy = "https://proxy.golang.org"

// ProxyCatalogRepository lists module versions from a Go module proxy.
type ProxyCatalogRepository struct {
	client  *registryhttp.Client
	baseURL string
}

// NewProxyCatalogRepository creates a catalog reading the first usable GOPROXY entry.
func NewProxyCatalogRepository(client *registryhttp.Client) *ProxyCatalogRepository {
	return &ProxyCatalogRepository{client: client, baseURL: proxyFromEnv(os.Getenv("GOPROXY"))}
}

// NewProxyCatalogRepositoryWithBaseURL creates a catalog reading the given proxy.
func NewProxyCatalogRepositoryWithBaseURL(client *registryhttp.Client, baseURL string) *ProxyCatalogRepository {
	return &ProxyCatalogRepository{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (it *ProxyCatalogRepository) ListVersions(
	ctx context.Context,
	dependency entities.Dependency,
	credentials []entities.Credential,
) ([]string, error) {
	escaped, err := module.EscapePath(dependency.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid module path %q: %w", dependency.Name, err)
	}

	body, err := it.client.GetText(ctx, it.baseURL+"/"+escaped+"/@v/list", credentials)
	if err != nil {
		return nil, err
	}
	return strings.Fields(body), nil
}

// proxyFromEnv picks the first real proxy from a GOPROXY list.
func proxyFromEnv(value string) string {
	for _, entry := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '|' }) {
		entry = strings.TrimSpace(entry)
		if entry == "" || entry == "direct" || entry == "off" {
			continue
		}
		return strings.TrimSuffix(entry, "/")
	}
	return defaultProxy
}
