package repositories

import "github.com/rios0rios0/autobump/internal/domain/entities"

// PropertyRepository resolves manifest-level placeholders such as "$(SerilogVersion)".
type PropertyRepository interface {
	// Resolve returns the literal value of the placeholder visible from file, ok is false when absent.
	Resolve(name string, file entities.DependencyFile, files []entities.DependencyFile) (string, bool)
}
