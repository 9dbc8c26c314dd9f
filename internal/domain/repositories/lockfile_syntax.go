package repositories

import "github.com/rios0rios0/autobump/internal/domain/entities"

// LockfileSyntax finds the block a dependency owns inside a lockfile.
type LockfileSyntax interface {
	Handles(file entities.DependencyFile) bool

	// Identity is the key the lockfile uses for the dependency (e.g. a provider address).
	Identity(dependency entities.Dependency) string

	// LocateBlock returns the span of the block keyed by identity.
	LocateBlock(content, identity string) (entities.Span, bool)

	// VersionLine returns the line of block that carries the locked version.
	VersionLine(block string) string
}
