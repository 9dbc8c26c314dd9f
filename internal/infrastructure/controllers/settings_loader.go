package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// loadSettings reads the file named by --config, or the first one found in the default locations.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w (specify one with --config or create autobump.yaml)", err)
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}

func updateOptions(cmd *cobra.Command) entities.UpdateOptions {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	packageManager, _ := cmd.Flags().GetString("package-manager")
	dependency, _ := cmd.Flags().GetString("dependency")
	return entities.UpdateOptions{
		DryRun:         dryRun,
		Verbose:        verbose,
		PackageManager: packageManager,
		Dependency:     dependency,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("package-manager", "", "Only process updates for this package manager (dep, go_modules, terraform, nuget)")
	cmd.Flags().String("dependency", "", "Only process updates for this dependency name")
}
