package golang

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
)

const goBinary = "go"

// GoResolverRepository lets the go command's minimal version selection pick the version.
type GoResolverRepository struct {
	runner process.CommandRunner
}

// NewGoResolverRepository creates a new GoResolverRepository.
func NewGoResolverRepository(runner process.CommandRunner) *GoResolverRepository {
	return &GoResolverRepository{runner: runner}
}

type listedModule struct {
	Path    string `json:"Path"`
	Version string `json:"Version"`
}

// Resolve asks for the latest allowable version when unlocking, then reads
// what the build list actually selected.
func (it *GoResolverRepository) Resolve(ctx context.Context, request repositories.ResolveRequest) (string, error) {
	name := request.Dependency.Name
	command := process.Command{
		Binary: goBinary,
		Dir:    request.WorkDir,
		Env:    append(process.GitCredentialEnv(request.Credentials), "GOFLAGS=-mod=mod", "GOTOOLCHAIN=local"),
		Host:   ModuleHost(name),
	}

	if request.Unlock && request.LatestAllowable != "" {
		target := entities.GoModulesDialect.FormatVersion(request.LatestAllowable)
		command.Args = []string{"get", name + "@" + target}
		if _, err := it.runner.Run(ctx, command); err != nil {
			return "", err
		}
	}

	command.Args = []string{"list", "-m", "-json", name}
	output, err := it.runner.Run(ctx, command)
	if err != nil {
		return "", err
	}

	var listed listedModule
	if decodeErr := json.Unmarshal([]byte(output), &listed); decodeErr != nil {
		return "", fmt.Errorf("failed to decode go list output for %q: %w", name, decodeErr)
	}
	logger.Debugf("[go_modules] build list selects %s@%s", listed.Path, listed.Version)
	return listed.Version, nil
}

// ModuleHost returns the host part of a module path.
func ModuleHost(modulePath string) string {
	return strings.SplitN(modulePath, "/", 2)[0]
}
