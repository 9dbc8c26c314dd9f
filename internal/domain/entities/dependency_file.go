package entities

import "path"

// FileRole tags what a dependency file is used for.
type FileRole string

const (
	FileRoleManifest    FileRole = "manifest"
	FileRoleLockfile    FileRole = "lockfile"
	FileRoleApplication FileRole = "application"
)

// DependencyFile is a declaration file carried as raw text.
// Content is never regenerated from a parsed model; edits are substring replacements.
type DependencyFile struct {
	Name      string // path relative to Directory
	Directory string
	Content   string
	Role      FileRole
}

// BaseName returns the last element of the file name.
func (f DependencyFile) BaseName() string {
	return path.Base(f.Name)
}

// WithContent returns a copy of the file carrying new content.
func (f DependencyFile) WithContent(content string) DependencyFile {
	f.Content = content
	return f
}

// FindFile returns the file with the given name.
func FindFile(files []DependencyFile, name string) (DependencyFile, bool) {
	for _, file := range files {
		if file.Name == name {
			return file, true
		}
	}
	return DependencyFile{}, false
}

// HasApplicationFile reports whether any file marks the project as an application.
func HasApplicationFile(files []DependencyFile) bool {
	for _, file := range files {
		if file.Role == FileRoleApplication {
			return true
		}
	}
	return false
}

// ReplaceFile returns a copy of files where the entry with the same name is swapped for file.
func ReplaceFile(files []DependencyFile, file DependencyFile) []DependencyFile {
	result := make([]DependencyFile, len(files))
	for i, existing := range files {
		if existing.Name == file.Name {
			result[i] = file
			continue
		}
		result[i] = existing
	}
	return result
}
