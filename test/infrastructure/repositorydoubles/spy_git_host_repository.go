//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// SpyGitHostRepository implements repositories.GitHostRepository as a configurable spy.
type SpyGitHostRepository struct {
	// --- identity ---
	HostName string

	// --- ListTags ---
	Tags        []entities.GitTag
	ListTagsErr error
	// ListTagsErrs are returned one per call, in order, before ListTagsErr applies.
	ListTagsErrs []error
	ListedURLs   []string

	// --- Compare ---
	// Comparisons is keyed by "base...head".
	Comparisons map[string]entities.Comparison
	CompareErr  error
	// CompareErrs are returned one per call, in order, before CompareErr applies.
	CompareErrs  []error
	CompareCalls []string
}

var _ repositories.GitHostRepository = (*SpyGitHostRepository)(nil)

func (s *SpyGitHostRepository) Name() string { return s.HostName }

func (s *SpyGitHostRepository) Matches(string) bool { return true }

func (s *SpyGitHostRepository) ListTags(
	_ context.Context,
	url string,
	_ []entities.Credential,
) ([]entities.GitTag, error) {
	s.ListedURLs = append(s.ListedURLs, url)
	if call := len(s.ListedURLs); call <= len(s.ListTagsErrs) && s.ListTagsErrs[call-1] != nil {
		return nil, s.ListTagsErrs[call-1]
	}
	return s.Tags, s.ListTagsErr
}

func (s *SpyGitHostRepository) Compare(
	_ context.Context,
	_ string,
	base, head string,
	_ []entities.Credential,
) (entities.Comparison, error) {
	key := base + "..." + head
	s.CompareCalls = append(s.CompareCalls, key)
	if call := len(s.CompareCalls); call <= len(s.CompareErrs) && s.CompareErrs[call-1] != nil {
		return entities.Comparison{}, s.CompareErrs[call-1]
	}
	if s.CompareErr != nil {
		return entities.Comparison{}, s.CompareErr
	}
	comparison, ok := s.Comparisons[key]
	if !ok {
		return entities.Comparison{}, fmt.Errorf("unexpected compare %s", key)
	}
	return comparison, nil
}
