package repositories

import "github.com/rios0rios0/autobump/internal/domain/entities"

// EcosystemRepository bundles everything one package manager contributes to the pipeline.
// Lockfile, LockRegenerator and Properties may return nil when the ecosystem has none.
type EcosystemRepository interface {
	// Name returns the package manager identifier (e.g. "dep", "terraform").
	Name() string

	// FilePatterns returns the doublestar patterns of files the ecosystem reads.
	FilePatterns() []string

	Dialect() entities.RequirementDialect
	Catalog() CatalogRepository
	Resolver() ResolverRepository
	Syntaxes() []DeclarationSyntax
	Lockfile() LockfileSyntax
	LockRegenerator() LockRegeneratorRepository
	Properties() PropertyRepository
}
