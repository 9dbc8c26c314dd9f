package commands

import (
	"fmt"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// RequirementsUpdater rewrites requirement text and sources for a strategy.
type RequirementsUpdater interface {
	Execute(request RequirementsRequest) ([]entities.Requirement, error)
}

// RequirementsRequest holds the requirements and the versions computed for them.
type RequirementsRequest struct {
	Dialect                 entities.RequirementDialect
	DependencyName          string
	CurrentVersion          string
	Requirements            []entities.Requirement
	Strategy                entities.UpdateStrategy
	LatestVersion           string
	LatestResolvableVersion string
	// ResolvedTag is the tag a Git-sourced resolution came from.
	ResolvedTag string
}

// RequirementsUpdaterCommand implements RequirementsUpdater.
type RequirementsUpdaterCommand struct{}

// NewRequirementsUpdaterCommand creates a new RequirementsUpdaterCommand.
func NewRequirementsUpdaterCommand() *RequirementsUpdaterCommand {
	return &RequirementsUpdaterCommand{}
}

// Execute returns a new requirements slice in the same order as the input.
func (it *RequirementsUpdaterCommand) Execute(request RequirementsRequest) ([]entities.Requirement, error) {
	switch request.Strategy {
	case entities.StrategyWidenRanges, entities.StrategyBumpVersions,
		entities.StrategyBumpVersionsIfNecessary, entities.StrategyLockfileOnly:
	default:
		return nil, fmt.Errorf("unknown update strategy %q", request.Strategy)
	}

	updated := make([]entities.Requirement, 0, len(request.Requirements))
	for _, requirement := range request.Requirements {
		if requirement.Source.IsGit() {
			updated = append(updated, it.updateGitRequirement(request, requirement))
			continue
		}
		updated = append(updated, it.updateRequirement(request, requirement))
	}
	return updated, nil
}

func (it *RequirementsUpdaterCommand) updateRequirement(
	request RequirementsRequest,
	requirement entities.Requirement,
) entities.Requirement {
	resolvable := request.LatestResolvableVersion
	if request.Strategy == entities.StrategyLockfileOnly ||
		requirement.Requirement == nil ||
		!entities.IsVersion(resolvable) {
		return requirement
	}

	dialect := request.Dialect
	text := requirement.Text()
	switch request.Strategy {
	case entities.StrategyWidenRanges:
		if dialect.Admits(text, resolvable) {
			return requirement
		}
		return requirement.WithText(dialect.Widen(text, resolvable))
	case entities.StrategyBumpVersions:
		if entities.SameVersion(resolvable, request.CurrentVersion) {
			return requirement
		}
		return requirement.WithText(dialect.Bump(text, resolvable))
	default:
		if dialect.Admits(text, resolvable) {
			return requirement
		}
		return requirement.WithText(dialect.Bump(text, resolvable))
	}
}

// updateGitRequirement switches a branch pin to the registry once a release supersedes it,
// or to the release tag when the ecosystem keeps Git sources, and moves a tag pin to the newer tag.
func (it *RequirementsUpdaterCommand) updateGitRequirement(
	request RequirementsRequest,
	requirement entities.Requirement,
) entities.Requirement {
	if request.Strategy == entities.StrategyLockfileOnly {
		return requirement
	}

	source := requirement.Source
	resolvable := request.LatestResolvableVersion
	switch {
	case source.Branch != "" && entities.IsVersion(resolvable) &&
		!entities.SameVersion(resolvable, request.CurrentVersion):
		updated := requirement
		if request.Dialect.KeepsGitSource {
			if request.ResolvedTag == "" {
				return requirement
			}
			updated.Source.Branch = ""
			updated.Source.Ref = request.ResolvedTag
			return updated
		}
		updated.Source = entities.DefaultSource(request.DependencyName)
		return updated.WithText(request.Dialect.Compatible(resolvable))
	case source.Ref != "" && request.ResolvedTag != "" && request.ResolvedTag != source.Ref:
		updated := requirement
		updated.Source.Ref = request.ResolvedTag
		return updated
	default:
		return requirement
	}
}
