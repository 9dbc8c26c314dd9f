package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

const defaultFileMode = 0o644

//nolint:gochecknoglobals // lockfile names of the supported ecosystems
var lockfileNames = map[string]bool{
	"go.sum":              true,
	"Gopkg.lock":          true,
	".terraform.lock.hcl": true,
	"packages.lock.json":  true,
}

//nolint:gochecknoglobals // directories never holding declarations of the project itself
var skippedDirectories = map[string]bool{
	"vendor":       true,
	"node_modules": true,
}

var mainPackage = regexp.MustCompile(`(?m)^package main\b`)

// LocalDependencyFileRepository reads dependency files from disk and writes the
// updated ones back in place.
type LocalDependencyFileRepository struct{}

var _ repositories.DependencyFileRepository = (*LocalDependencyFileRepository)(nil)

// NewLocalDependencyFileRepository creates a new LocalDependencyFileRepository.
func NewLocalDependencyFileRepository() *LocalDependencyFileRepository {
	return &LocalDependencyFileRepository{}
}

// Load returns every file under directory matching one of the patterns, ordered by name.
func (it *LocalDependencyFileRepository) Load(
	ctx context.Context,
	directory string,
	patterns []string,
) ([]entities.DependencyFile, error) {
	root := os.DirFS(directory)
	seen := make(map[string]bool)
	var names []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(root, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to match %q in %q: %w", pattern, directory, err)
		}
		for _, name := range matches {
			if seen[name] || skipped(name) {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	files := make([]entities.DependencyFile, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(root, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		content := string(data)
		files = append(files, entities.DependencyFile{
			Name:      name,
			Directory: directory,
			Content:   content,
			Role:      roleOf(name, content),
		})
	}
	logger.Debugf("[files] loaded %d files from %s", len(files), directory)
	return files, nil
}

// Save writes each file back to its directory, keeping the existing permissions.
func (it *LocalDependencyFileRepository) Save(ctx context.Context, files []entities.DependencyFile) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(file.Directory, filepath.FromSlash(file.Name))
		mode := fs.FileMode(defaultFileMode)
		if info, err := os.Stat(target); err == nil {
			mode = info.Mode().Perm()
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %q: %w", target, err)
		}
		if err := os.WriteFile(target, []byte(file.Content), mode); err != nil {
			return fmt.Errorf("failed to write %q: %w", target, err)
		}
		logger.Infof("Updated %s", target)
	}
	return nil
}

func skipped(name string) bool {
	segments := strings.Split(path.Dir(name), "/")
	for _, segment := range segments {
		if segment == "." {
			continue
		}
		if strings.HasPrefix(segment, ".") || skippedDirectories[segment] {
			return true
		}
	}
	return false
}

func roleOf(name, content string) entities.FileRole {
	switch {
	case lockfileNames[path.Base(name)]:
		return entities.FileRoleLockfile
	case path.Ext(name) == ".go" && mainPackage.MatchString(content):
		return entities.FileRoleApplication
	default:
		return entities.FileRoleManifest
	}
}
