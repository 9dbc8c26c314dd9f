package commands

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// LatestVersionFinder picks the best upgrade target from the published versions.
type LatestVersionFinder interface {
	Execute(ctx context.Context, request LatestVersionRequest) (string, error)
}

// LatestVersionRequest holds the inputs of one lookup.
type LatestVersionRequest struct {
	Ecosystem       repositories.EcosystemRepository
	Dependency      entities.Dependency
	Credentials     []entities.Credential
	IgnoredVersions []string
	RaiseOnIgnored  bool
}

// LatestVersionCommand implements LatestVersionFinder over an ecosystem catalog.
type LatestVersionCommand struct{}

// NewLatestVersionCommand creates a new LatestVersionCommand.
func NewLatestVersionCommand() *LatestVersionCommand {
	return &LatestVersionCommand{}
}

// Execute returns the latest version, or the current one when nothing qualifies.
func (it *LatestVersionCommand) Execute(ctx context.Context, request LatestVersionRequest) (string, error) {
	dependency := request.Dependency

	// pseudo-versions have no ordering, nothing can be "later"
	if entities.IsPseudoVersion(dependency.Version) {
		logger.Debugf("[catalog] %s is pinned to pseudo-version %s", dependency.Name, dependency.Version)
		return dependency.Version, nil
	}

	values, err := it.listVersions(ctx, request)
	if err != nil {
		return "", err
	}

	candidates := make([]entities.VersionCandidate, 0, len(values))
	for _, value := range values {
		if candidate, ok := entities.NewVersionCandidate(value); ok {
			candidates = append(candidates, candidate)
		}
	}

	filtered := filterPrereleases(candidates, dependency.Version)
	unignored, err := filterIgnored(filtered, request.IgnoredVersions, request.Ecosystem.Dialect())
	if err != nil {
		return "", err
	}

	if request.RaiseOnIgnored &&
		len(filterLowerThanCurrent(unignored, dependency.Version)) == 0 &&
		len(filterLowerThanCurrent(filtered, dependency.Version)) > 0 {
		return "", &entities.UpdateError{Kind: entities.ErrAllVersionsIgnored, Dependency: dependency.Name}
	}

	latest, ok := maxCandidate(unignored)
	if !ok {
		logger.Debugf("[catalog] no candidate left for %s, staying at %q", dependency.Name, dependency.Version)
		return dependency.Version, nil
	}

	logger.Debugf("[catalog] latest version of %s is %s", dependency.Name, latest.Value)
	return latest.Value, nil
}

func (it *LatestVersionCommand) listVersions(ctx context.Context, request LatestVersionRequest) ([]string, error) {
	dependency := request.Dependency
	catalog := request.Ecosystem.Catalog()

	values, err := withTransientRetry(ctx, "listing versions of "+dependency.Name, func() ([]string, error) {
		return catalog.ListVersions(ctx, dependency, request.Credentials)
	})
	if err != nil {
		return nil, entities.TranslateCollaboratorError(err, dependency.Name, request.Credentials)
	}
	return values, nil
}

// filterPrereleases drops prereleases unless the current version is one.
func filterPrereleases(candidates []entities.VersionCandidate, current string) []entities.VersionCandidate {
	if entities.IsPrerelease(current) {
		return candidates
	}
	result := make([]entities.VersionCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.IsPrerelease {
			result = append(result, candidate)
		}
	}
	return result
}

func filterIgnored(
	candidates []entities.VersionCandidate,
	ignored []string,
	dialect entities.RequirementDialect,
) ([]entities.VersionCandidate, error) {
	constraints := make([]*semver.Constraints, 0, len(ignored))
	for _, ignoredRange := range ignored {
		constraint, err := dialect.Constraint(ignoredRange)
		if err != nil {
			return nil, fmt.Errorf("invalid ignored version range %q: %w", ignoredRange, err)
		}
		constraints = append(constraints, constraint)
	}

	result := make([]entities.VersionCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		matched := false
		for _, constraint := range constraints {
			if constraint.Check(candidate.Semver()) {
				matched = true
				break
			}
		}
		if !matched {
			result = append(result, candidate)
		}
	}
	return result, nil
}

// filterLowerThanCurrent keeps candidates above the current version; everything
// is kept when the current version is not comparable.
func filterLowerThanCurrent(candidates []entities.VersionCandidate, current string) []entities.VersionCandidate {
	currentCandidate, ok := entities.NewVersionCandidate(current)
	if !ok {
		return candidates
	}
	result := make([]entities.VersionCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if currentCandidate.LessThan(candidate) {
			result = append(result, candidate)
		}
	}
	return result
}

func maxCandidate(candidates []entities.VersionCandidate) (entities.VersionCandidate, bool) {
	if len(candidates) == 0 {
		return entities.VersionCandidate{}, false
	}
	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if best.LessThan(candidate) {
			best = candidate
		}
	}
	return best, true
}
