package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	constructors := []interface{}{
		NewLatestVersionCommand,
		NewFilePreparerCommand,
		NewVersionResolverCommand,
		NewRequirementsUpdaterCommand,
		NewFileUpdaterCommand,
		NewUpdateCheckerCommand,
		NewRunCommand,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	bindings := []interface{}{
		func(impl *LatestVersionCommand) LatestVersionFinder { return impl },
		func(impl *FilePreparerCommand) FilePreparer { return impl },
		func(impl *VersionResolverCommand) VersionResolver { return impl },
		func(impl *RequirementsUpdaterCommand) RequirementsUpdater { return impl },
		func(impl *FileUpdaterCommand) FileUpdater { return impl },
		func(impl *UpdateCheckerCommand) UpdateChecker { return impl },
		func(impl *RunCommand) Run { return impl },
	}
	for _, binding := range bindings {
		if err := container.Provide(binding); err != nil {
			return err
		}
	}

	return nil
}
