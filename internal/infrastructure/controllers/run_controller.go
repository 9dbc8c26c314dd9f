package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// RunController handles the "run" subcommand (batch mode).
type RunController struct {
	command commands.Run
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Upgrade the configured dependencies",
		Long: `Read the configuration file and process every update request in it:
find the latest version, resolve the latest version the ecosystem accepts,
rewrite the requirements and write the patched dependency files back.

With --dry-run nothing is written.`,
	}
}

// Execute runs the batch update mode.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	logger.Info("Starting autobump run...")
	report, err := it.command.Execute(ctx, settings, updateOptions(cmd))
	if err != nil {
		logger.Errorf("Run failed: %v", err)
		return
	}
	if report.Errors() > 0 {
		logger.Warnf("%d update requests failed", report.Errors())
	}
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	addFilterFlags(cmd)
}
