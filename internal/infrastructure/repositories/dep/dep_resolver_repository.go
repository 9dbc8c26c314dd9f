package dep

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
)

const (
	depBinary    = "dep"
	gopathDir    = ".gopath"
	projectPath  = "src/autobump/project"
	importerPackage = "autobumpimporter"
)

// DepResolverRepository lets dep's own solver pick the version and reads it back from Gopkg.lock.
type DepResolverRepository struct {
	runner process.CommandRunner
}

// NewDepResolverRepository creates a new DepResolverRepository.
func NewDepResolverRepository(runner process.CommandRunner) *DepResolverRepository {
	return &DepResolverRepository{runner: runner}
}

func (it *DepResolverRepository) Resolve(ctx context.Context, request repositories.ResolveRequest) (string, error) {
	name := request.Dependency.Name
	projectDir, env, err := gopathWorkspace(request.WorkDir, name)
	if err != nil {
		return "", err
	}

	args := []string{"ensure", "-no-vendor"}
	if request.Unlock {
		args = append(args, "-update", name)
	}
	if _, err = it.runner.Run(ctx, process.Command{
		Binary: depBinary,
		Args:   args,
		Dir:    projectDir,
		Env:    append(env, process.GitCredentialEnv(request.Credentials)...),
		Host:   hostOf(name),
	}); err != nil {
		return "", err
	}

	content, err := process.ReadWorkFile(projectDir, lockFile)
	if err != nil {
		return "", err
	}
	var document gopkgDocument
	if err = toml.Unmarshal([]byte(content), &document); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", lockFile, err)
	}
	for _, project := range document.Projects {
		if project.Name != name {
			continue
		}
		logger.Debugf("[dep] solver locked %s at version=%q revision=%q", name, project.Version, project.Revision)
		if project.Version != "" {
			return entities.TrimVersionPrefix(project.Version), nil
		}
		return project.Revision, nil
	}
	return "", nil
}

// DepLockRegeneratorRepository recomputes Gopkg.lock with "dep ensure -update".
type DepLockRegeneratorRepository struct {
	runner process.CommandRunner
}

// NewDepLockRegeneratorRepository creates a new DepLockRegeneratorRepository.
func NewDepLockRegeneratorRepository(runner process.CommandRunner) *DepLockRegeneratorRepository {
	return &DepLockRegeneratorRepository{runner: runner}
}

func (it *DepLockRegeneratorRepository) Regenerate(
	ctx context.Context,
	workDir string,
	lockfile entities.DependencyFile,
	identity string,
	credentials []entities.Credential,
) (string, error) {
	projectDir, env, err := gopathWorkspace(workDir, identity)
	if err != nil {
		return "", err
	}
	if _, err = it.runner.Run(ctx, process.Command{
		Binary: depBinary,
		Args:   []string{"ensure", "-no-vendor", "-update", identity},
		Dir:    projectDir,
		Env:    append(env, process.GitCredentialEnv(credentials)...),
		Host:   hostOf(identity),
	}); err != nil {
		return "", err
	}
	return process.ReadWorkFile(projectDir, lockfile.Name)
}

// gopathWorkspace mirrors workDir into a private GOPATH, since dep refuses to run
// outside of one, and adds an importer package importing the dependency so the solver
// keeps it in the lock.
func gopathWorkspace(workDir, importPath string) (string, []string, error) {
	gopath := filepath.Join(workDir, gopathDir)
	projectDir := filepath.Join(gopath, filepath.FromSlash(projectPath))

	err := filepath.WalkDir(workDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if path == gopath {
				return filepath.SkipDir
			}
			return nil
		}
		relative, relErr := filepath.Rel(workDir, path)
		if relErr != nil {
			return relErr
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		return writeFile(filepath.Join(projectDir, relative), data)
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to prepare GOPATH workspace: %w", err)
	}

	importer := fmt.Sprintf("package main\n\nimport _ %q\n\nfunc main() {}\n", importPath)
	if err = writeFile(filepath.Join(projectDir, importerPackage, "main.go"), []byte(importer)); err != nil {
		return "", nil, fmt.Errorf("failed to write the importer package: %w", err)
	}

	return projectDir, []string{"GOPATH=" + gopath, "GO111MODULE=off", "DEPNOLOCK=1"}, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func hostOf(importPath string) string {
	return strings.SplitN(importPath, "/", 2)[0]
}
