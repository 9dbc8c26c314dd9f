//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"

	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
)

// SpyCommandRunner implements process.CommandRunner and records every command.
// Outputs and Errs are keyed by the first argument (e.g. "get", "list").
type SpyCommandRunner struct {
	Outputs map[string]string
	Errs    map[string]error
	// OnRun runs before the output is returned, e.g. to write files into command.Dir.
	OnRun func(command process.Command) error

	Commands []process.Command
}

var _ process.CommandRunner = (*SpyCommandRunner)(nil)

func (s *SpyCommandRunner) Run(_ context.Context, command process.Command) (string, error) {
	s.Commands = append(s.Commands, command)
	key := ""
	if len(command.Args) > 0 {
		key = command.Args[0]
	}
	if err := s.Errs[key]; err != nil {
		return "", err
	}
	if s.OnRun != nil {
		if err := s.OnRun(command); err != nil {
			return "", err
		}
	}
	return s.Outputs[key], nil
}

// CommandLines returns the recorded commands as "binary arg arg" strings.
func (s *SpyCommandRunner) CommandLines() []string {
	lines := make([]string, 0, len(s.Commands))
	for _, command := range s.Commands {
		lines = append(lines, strings.TrimSpace(command.Binary+" "+strings.Join(command.Args, " ")))
	}
	return lines
}
