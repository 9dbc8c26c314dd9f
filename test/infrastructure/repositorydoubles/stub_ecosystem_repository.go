//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// StubEcosystemRepository implements repositories.EcosystemRepository from plain fields.
type StubEcosystemRepository struct {
	EcosystemName       string
	Patterns            []string
	EcosystemDialect    entities.RequirementDialect
	CatalogRepo         repositories.CatalogRepository
	ResolverRepo        repositories.ResolverRepository
	DeclarationSyntaxes []repositories.DeclarationSyntax
	LockfileRepo        repositories.LockfileSyntax
	RegeneratorRepo     repositories.LockRegeneratorRepository
	PropertyRepo        repositories.PropertyRepository
}

var _ repositories.EcosystemRepository = (*StubEcosystemRepository)(nil)

func (s *StubEcosystemRepository) Name() string { return s.EcosystemName }

func (s *StubEcosystemRepository) FilePatterns() []string { return s.Patterns }

func (s *StubEcosystemRepository) Dialect() entities.RequirementDialect { return s.EcosystemDialect }

func (s *StubEcosystemRepository) Catalog() repositories.CatalogRepository { return s.CatalogRepo }

func (s *StubEcosystemRepository) Resolver() repositories.ResolverRepository { return s.ResolverRepo }

func (s *StubEcosystemRepository) Syntaxes() []repositories.DeclarationSyntax {
	return s.DeclarationSyntaxes
}

// Lockfile returns a nil interface when no lockfile syntax is configured.
func (s *StubEcosystemRepository) Lockfile() repositories.LockfileSyntax {
	if s.LockfileRepo == nil {
		return nil
	}
	return s.LockfileRepo
}

func (s *StubEcosystemRepository) LockRegenerator() repositories.LockRegeneratorRepository {
	if s.RegeneratorRepo == nil {
		return nil
	}
	return s.RegeneratorRepo
}

func (s *StubEcosystemRepository) Properties() repositories.PropertyRepository { return s.PropertyRepo }
