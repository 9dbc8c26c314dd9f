package repositories

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// DependencyFileRepository reads and writes dependency files on local storage.
type DependencyFileRepository interface {
	Load(ctx context.Context, directory string, patterns []string) ([]entities.DependencyFile, error)
	Save(ctx context.Context, files []entities.DependencyFile) error
}
