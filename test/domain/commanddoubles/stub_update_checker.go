//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/autobump/internal/domain/commands"
)

// SpyUpdateChecker implements commands.UpdateChecker and records every request.
// It is safe for concurrent use.
type SpyUpdateChecker struct {
	Result commands.UpdateCheckResult
	Err    error
	// ResultFor overrides Result per dependency name when set.
	ResultFor map[string]commands.UpdateCheckResult

	mu       sync.Mutex
	requests []commands.UpdateCheckRequest
}

var _ commands.UpdateChecker = (*SpyUpdateChecker)(nil)

func (s *SpyUpdateChecker) Execute(
	_ context.Context,
	request commands.UpdateCheckRequest,
) (commands.UpdateCheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, request)
	if result, ok := s.ResultFor[request.Dependency.Name]; ok {
		return result, s.Err
	}
	return s.Result, s.Err
}

// Requests returns a copy of the recorded requests.
func (s *SpyUpdateChecker) Requests() []commands.UpdateCheckRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]commands.UpdateCheckRequest(nil), s.requests...)
}
