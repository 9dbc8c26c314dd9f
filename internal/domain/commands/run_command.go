package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
)

// Run is the interface for the run command (batch mode).
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, opts entities.UpdateOptions) (RunReport, error)
}

// RunReport holds one outcome per processed update request, in configuration order.
type RunReport struct {
	Outcomes []UpdateOutcome
}

// UpdateOutcome is the result of one update request.
type UpdateOutcome struct {
	RequestID      string
	Dependency     string
	PackageManager string
	Directory      string
	Result         UpdateCheckResult
	Written        bool
	Err            error
}

// Errors counts the failed outcomes.
func (r RunReport) Errors() int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			count++
		}
	}
	return count
}

// RunCommand processes every configured update request. Requests on different
// directories run concurrently up to the configured limit; requests on the same
// directory run one after the other, so each loads what the previous one wrote.
type RunCommand struct {
	ecosystems *infraRepos.EcosystemRegistry
	files      repositories.DependencyFileRepository
	checker    UpdateChecker
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(
	ecosystems *infraRepos.EcosystemRegistry,
	files repositories.DependencyFileRepository,
	checker UpdateChecker,
) *RunCommand {
	return &RunCommand{ecosystems: ecosystems, files: files, checker: checker}
}

// Execute runs all selected update requests and reports each of them.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts entities.UpdateOptions,
) (RunReport, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	var selected []entities.UpdateConfig
	for _, update := range settings.Updates {
		if opts.PackageManager != "" && update.PackageManager != opts.PackageManager {
			continue
		}
		if opts.Dependency != "" && update.Dependency.Name != opts.Dependency {
			continue
		}
		selected = append(selected, update)
	}

	outcomes := make([]UpdateOutcome, len(selected))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(settings.Concurrency, 1))
	for _, indexes := range groupByDirectory(selected) {
		group.Go(func() error {
			for _, i := range indexes {
				outcomes[i] = it.processUpdate(groupCtx, selected[i], settings.Credentials, opts)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return RunReport{}, fmt.Errorf("failed to run updates: %w", err)
	}

	report := RunReport{Outcomes: outcomes}
	logger.Infof(
		"Run complete: %d updates processed, %d with changes, %d errors",
		len(outcomes), countChanged(outcomes), report.Errors(),
	)
	return report, nil
}

func (it *RunCommand) processUpdate(
	ctx context.Context,
	update entities.UpdateConfig,
	credentials []entities.Credential,
	opts entities.UpdateOptions,
) UpdateOutcome {
	outcome := UpdateOutcome{
		RequestID:      uuid.NewString(),
		Dependency:     update.Dependency.Name,
		PackageManager: update.PackageManager,
		Directory:      update.Directory,
	}
	log := logger.WithFields(logger.Fields{
		"request_id":      outcome.RequestID,
		"dependency":      outcome.Dependency,
		"package_manager": outcome.PackageManager,
	})

	ecosystem := it.ecosystems.Get(update.PackageManager)
	if ecosystem == nil {
		outcome.Err = fmt.Errorf("unsupported package manager %q", update.PackageManager)
		log.Errorf("Skipping update: %v", outcome.Err)
		return outcome
	}

	patterns := update.Files
	if len(patterns) == 0 {
		patterns = ecosystem.FilePatterns()
	}
	files, err := it.files.Load(ctx, update.Directory, patterns)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to load dependency files: %w", err)
		log.Errorf("Failed to load files from %s: %v", update.Directory, err)
		return outcome
	}

	strategy, err := entities.ParseUpdateStrategy(update.Strategy)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	result, err := it.checker.Execute(ctx, UpdateCheckRequest{
		Dependency:      update.ToDependency(),
		Files:           files,
		Credentials:     credentials,
		IgnoredVersions: update.IgnoredVersions,
		RaiseOnIgnored:  update.RaiseOnIgnored,
		Strategy:        strategy,
	})
	if err != nil {
		outcome.Err = err
		log.Errorf("Update failed: %v", err)
		return outcome
	}
	outcome.Result = result

	log.Infof("latest=%q resolvable=%q strategy=%s changed_files=%d",
		result.LatestVersion, result.LatestResolvableVersion, result.Strategy, len(result.UpdatedFiles))

	if !result.CanUpdate() || opts.DryRun {
		return outcome
	}
	if saveErr := it.files.Save(ctx, result.UpdatedFiles); saveErr != nil {
		outcome.Err = fmt.Errorf("failed to write updated files: %w", saveErr)
		log.Errorf("Failed to write files: %v", saveErr)
		return outcome
	}
	outcome.Written = true
	return outcome
}

// groupByDirectory returns the indexes of the updates sharing a directory, groups
// and members both in configuration order.
func groupByDirectory(updates []entities.UpdateConfig) [][]int {
	var groups [][]int
	positions := make(map[string]int)
	for i, update := range updates {
		directory := filepath.Clean(update.Directory)
		position, ok := positions[directory]
		if !ok {
			position = len(groups)
			positions[directory] = position
			groups = append(groups, nil)
		}
		groups[position] = append(groups[position], i)
	}
	return groups
}

func countChanged(outcomes []UpdateOutcome) int {
	count := 0
	for _, outcome := range outcomes {
		if outcome.Result.CanUpdate() {
			count++
		}
	}
	return count
}
