package repositories

import "github.com/rios0rios0/autobump/internal/domain/entities"

// DeclarationSyntax locates and patches dependency declarations in raw file text.
// Every ecosystem file format is one implementation.
type DeclarationSyntax interface {
	// Handles returns true if the file is written in this syntax.
	Handles(file entities.DependencyFile) bool

	// Locate returns every declaration of the dependency in file whose original
	// requirement matches exactly. files carries the rest of the set for indirections.
	Locate(
		file entities.DependencyFile,
		files []entities.DependencyFile,
		dependency entities.Dependency,
		requirement entities.Requirement,
	) ([]entities.Declaration, error)

	// Patch rewrites one located declaration from previous to updated and returns the new content.
	Patch(
		content string,
		declaration entities.Declaration,
		previous, updated entities.Requirement,
	) (string, error)
}
