package controllers

import (
	"context"
	"fmt"
	"io"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// CheckController handles the "check" subcommand: a dry run that prints what would change.
type CheckController struct {
	command commands.Run
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Run) *CheckController {
	return &CheckController{command: command}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check",
		Short: "Report available upgrades without writing files",
		Long: `Process every configured update request like "run" does, but never write
any file. Prints one line per request with the latest version, the latest
resolvable version and the files that would change.`,
	}
}

// Execute runs the pipeline in dry-run mode and prints the report.
func (it *CheckController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	opts := updateOptions(cmd)
	opts.DryRun = true
	report, err := it.command.Execute(ctx, settings, opts)
	if err != nil {
		logger.Errorf("Check failed: %v", err)
		return
	}
	printReport(cmd.OutOrStdout(), report)
}

// AddFlags adds the check-specific flags to the given Cobra command.
func (it *CheckController) AddFlags(cmd *cobra.Command) {
	addFilterFlags(cmd)
}

func printReport(out io.Writer, report commands.RunReport) {
	for _, outcome := range report.Outcomes {
		if outcome.Err != nil {
			_, _ = fmt.Fprintf(out, "%s (%s): error: %v\n", outcome.Dependency, outcome.PackageManager, outcome.Err)
			continue
		}
		result := outcome.Result
		files := make([]string, 0, len(result.UpdatedFiles))
		for _, file := range result.UpdatedFiles {
			files = append(files, file.Name)
		}
		changes := "up to date"
		if len(files) > 0 {
			changes = "would update " + strings.Join(files, ", ")
		}
		_, _ = fmt.Fprintf(out, "%s (%s): latest=%s resolvable=%s strategy=%s: %s\n",
			outcome.Dependency, outcome.PackageManager,
			result.LatestVersion, result.LatestResolvableVersion, result.Strategy, changes)
	}
}
