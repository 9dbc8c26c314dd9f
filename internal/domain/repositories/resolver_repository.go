package repositories

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// ResolveRequest is what an ecosystem's own solver needs to pick a version.
type ResolveRequest struct {
	// WorkDir is an exclusively owned directory holding the prepared files.
	WorkDir         string
	Dependency      entities.Dependency
	Files           []entities.DependencyFile
	Credentials     []entities.Credential
	Unlock          bool
	LatestAllowable string
	// IgnoredVersions are ranges, in the ecosystem's dialect, the selection must skip.
	IgnoredVersions []string
}

// ResolverRepository is the opaque, per-ecosystem constraint solver.
// It returns the selected version, or "" when it has nothing better than the current one.
type ResolverRepository interface {
	Resolve(ctx context.Context, request ResolveRequest) (string, error)
}
