//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// StubCatalogRepository implements repositories.CatalogRepository.
// Errs are returned one per call, in order; once exhausted the call succeeds with Versions.
type StubCatalogRepository struct {
	Versions []string
	Errs     []error

	CallCount int
}

var _ repositories.CatalogRepository = (*StubCatalogRepository)(nil)

func (s *StubCatalogRepository) ListVersions(
	_ context.Context,
	_ entities.Dependency,
	_ []entities.Credential,
) ([]string, error) {
	s.CallCount++
	if s.CallCount <= len(s.Errs) && s.Errs[s.CallCount-1] != nil {
		return nil, s.Errs[s.CallCount-1]
	}
	return s.Versions, nil
}
