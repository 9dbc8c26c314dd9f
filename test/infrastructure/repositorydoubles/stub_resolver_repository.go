//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// StubResolverRepository implements repositories.ResolverRepository.
// It captures the working copy it was given so tests can inspect the prepared files.
type StubResolverRepository struct {
	Version string
	// VersionFor overrides Version by unlock mode when set.
	VersionFor map[bool]string
	Err        error
	// Errs are returned one per call, in order, before Err applies.
	Errs []error

	Requests []repositories.ResolveRequest
	// WorkFiles maps file name to the content found in the working directory.
	WorkFiles []map[string]string
	WorkDirs  []string
}

var _ repositories.ResolverRepository = (*StubResolverRepository)(nil)

func (s *StubResolverRepository) Resolve(_ context.Context, request repositories.ResolveRequest) (string, error) {
	s.Requests = append(s.Requests, request)
	s.WorkDirs = append(s.WorkDirs, request.WorkDir)

	seen := make(map[string]string)
	for _, file := range request.Files {
		content, err := os.ReadFile(filepath.Join(request.WorkDir, filepath.FromSlash(file.Name)))
		if err == nil {
			seen[file.Name] = string(content)
		}
	}
	s.WorkFiles = append(s.WorkFiles, seen)

	if call := len(s.Requests); call <= len(s.Errs) && s.Errs[call-1] != nil {
		return "", s.Errs[call-1]
	}
	if s.Err != nil {
		return "", s.Err
	}
	if version, ok := s.VersionFor[request.Unlock]; ok {
		return version, nil
	}
	return s.Version, nil
}
