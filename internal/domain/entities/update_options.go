package entities

// UpdateOptions holds runtime options for one batch of update requests.
type UpdateOptions struct {
	DryRun         bool
	Verbose        bool
	PackageManager string // if set, only process updates for this package manager
	Dependency     string // if set, only process updates for this dependency
}
