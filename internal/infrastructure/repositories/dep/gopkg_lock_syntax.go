package dep

import (
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const lockFile = "Gopkg.lock"

// GopkgLockSyntax addresses the [[projects]] entries of Gopkg.lock.
type GopkgLockSyntax struct{}

// NewGopkgLockSyntax creates a new GopkgLockSyntax.
func NewGopkgLockSyntax() *GopkgLockSyntax {
	return &GopkgLockSyntax{}
}

func (it *GopkgLockSyntax) Handles(file entities.DependencyFile) bool {
	return file.BaseName() == lockFile
}

func (it *GopkgLockSyntax) Identity(dependency entities.Dependency) string {
	return dependency.Name
}

func (it *GopkgLockSyntax) LocateBlock(content, identity string) (entities.Span, bool) {
	tables, err := scanTables(content, tableProjects)
	if err != nil {
		logger.Warnf("[dep] cannot read %s: %v", lockFile, err)
		return entities.Span{}, false
	}
	for _, table := range tables {
		if table.project.Name == identity {
			return table.span, true
		}
	}
	return entities.Span{}, false
}

// VersionLine returns the locked version, or the revision for projects locked to a branch.
func (it *GopkgLockSyntax) VersionLine(block string) string {
	revision := ""
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, keyVersion+" "), strings.HasPrefix(trimmed, keyVersion+"="):
			return trimmed
		case strings.HasPrefix(trimmed, keyRevision+" "), strings.HasPrefix(trimmed, keyRevision+"="):
			revision = trimmed
		}
	}
	return revision
}
