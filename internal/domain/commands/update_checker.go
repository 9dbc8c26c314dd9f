package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
)

// UpdateChecker runs the whole pipeline for one dependency.
type UpdateChecker interface {
	Execute(ctx context.Context, request UpdateCheckRequest) (UpdateCheckResult, error)
}

// UpdateCheckRequest is one update request; every entity in it is built fresh by the caller.
type UpdateCheckRequest struct {
	Dependency      entities.Dependency
	Files           []entities.DependencyFile
	Credentials     []entities.Credential
	IgnoredVersions []string
	RaiseOnIgnored  bool
	// Strategy may be empty: applications bump, libraries widen.
	Strategy entities.UpdateStrategy
}

// UpdateCheckResult reports every value the pipeline computed.
type UpdateCheckResult struct {
	LatestVersion                       string
	LatestResolvableVersion             string
	LatestResolvableVersionWithNoUnlock string
	Strategy                            entities.UpdateStrategy
	UpdatedRequirements                 []entities.Requirement
	UpdatedFiles                        []entities.DependencyFile
}

// CanUpdate is true when the pipeline produced file changes.
func (r UpdateCheckResult) CanUpdate() bool {
	return len(r.UpdatedFiles) > 0
}

// UpdateCheckerCommand wires the pipeline stages together:
// latest version -> resolvable version -> requirements -> files.
type UpdateCheckerCommand struct {
	ecosystems *infraRepos.EcosystemRegistry
	finder     LatestVersionFinder
	resolver   VersionResolver
	rewriter   RequirementsUpdater
	updater    FileUpdater
}

// NewUpdateCheckerCommand creates a new UpdateCheckerCommand.
func NewUpdateCheckerCommand(
	ecosystems *infraRepos.EcosystemRegistry,
	finder LatestVersionFinder,
	resolver VersionResolver,
	rewriter RequirementsUpdater,
	updater FileUpdater,
) *UpdateCheckerCommand {
	return &UpdateCheckerCommand{
		ecosystems: ecosystems,
		finder:     finder,
		resolver:   resolver,
		rewriter:   rewriter,
		updater:    updater,
	}
}

// Execute returns the computed versions, requirements and, when anything moved, the changed files.
func (it *UpdateCheckerCommand) Execute(
	ctx context.Context,
	request UpdateCheckRequest,
) (UpdateCheckResult, error) {
	dependency := request.Dependency
	ecosystem := it.ecosystems.Get(dependency.PackageManager)
	if ecosystem == nil {
		return UpdateCheckResult{}, fmt.Errorf("unsupported package manager %q", dependency.PackageManager)
	}
	if err := requireFiles(dependency, request.Files); err != nil {
		return UpdateCheckResult{}, err
	}

	latest, err := it.finder.Execute(ctx, LatestVersionRequest{
		Ecosystem:       ecosystem,
		Dependency:      dependency,
		Credentials:     request.Credentials,
		IgnoredVersions: request.IgnoredVersions,
		RaiseOnIgnored:  request.RaiseOnIgnored,
	})
	if err != nil {
		return UpdateCheckResult{}, err
	}

	resolveRequest := ResolveVersionRequest{
		Ecosystem:         ecosystem,
		Dependency:        dependency,
		Files:             request.Files,
		Credentials:       request.Credentials,
		LatestVersion:     latest,
		UnlockRequirement: true,
		IgnoredVersions:   request.IgnoredVersions,
	}
	resolution, err := it.resolver.Execute(ctx, resolveRequest)
	if err != nil {
		return UpdateCheckResult{}, err
	}
	resolveRequest.UnlockRequirement = false
	noUnlock, err := it.resolver.Execute(ctx, resolveRequest)
	if err != nil {
		return UpdateCheckResult{}, err
	}

	strategy := request.Strategy
	if strategy == "" {
		strategy = entities.DefaultStrategy(request.Files)
	}
	requirements, err := it.rewriter.Execute(RequirementsRequest{
		Dialect:                 ecosystem.Dialect(),
		DependencyName:          dependency.Name,
		CurrentVersion:          dependency.Version,
		Requirements:            dependency.Requirements,
		Strategy:                strategy,
		LatestVersion:           latest,
		LatestResolvableVersion: resolution.Version,
		ResolvedTag:             resolution.Tag,
	})
	if err != nil {
		return UpdateCheckResult{}, err
	}

	result := UpdateCheckResult{
		LatestVersion:                       latest,
		LatestResolvableVersion:             resolution.Version,
		LatestResolvableVersionWithNoUnlock: noUnlock.Version,
		Strategy:                            strategy,
		UpdatedRequirements:                 requirements,
	}

	if !it.needsFileUpdate(ecosystem.Lockfile() != nil, request, requirements, resolution.Version) {
		logger.Debugf("[checker] %s is up to date at %q", dependency.Name, dependency.Version)
		return result, nil
	}

	updatedDependency := dependency
	updatedDependency.Version = resolution.Version
	updatedDependency.PreviousRequirements = dependency.Requirements
	updatedDependency.Requirements = requirements
	files, err := it.updater.Execute(ctx, FileUpdateRequest{
		Ecosystem:   ecosystem,
		Dependency:  updatedDependency,
		Files:       request.Files,
		Credentials: request.Credentials,
	})
	if err != nil {
		return UpdateCheckResult{}, err
	}
	result.UpdatedFiles = files

	return result, nil
}

func (it *UpdateCheckerCommand) needsFileUpdate(
	hasLockfileSyntax bool,
	request UpdateCheckRequest,
	requirements []entities.Requirement,
	resolvable string,
) bool {
	for i, requirement := range requirements {
		if !requirement.Equal(request.Dependency.Requirements[i]) {
			return true
		}
	}
	if !hasLockfileSyntax || resolvable == "" || entities.SameVersion(resolvable, request.Dependency.Version) {
		return false
	}
	for _, file := range request.Files {
		if file.Role == entities.FileRoleLockfile {
			return true
		}
	}
	return false
}
