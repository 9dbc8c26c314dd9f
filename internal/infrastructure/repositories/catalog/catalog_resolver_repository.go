package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// CatalogResolverRepository resolves ecosystems whose tool has no solver of its own:
// the selected version is the highest published one every prepared requirement admits.
type CatalogResolverRepository struct {
	catalog repositories.CatalogRepository
	dialect entities.RequirementDialect
}

// NewCatalogResolverRepository creates a resolver over the given catalog.
func NewCatalogResolverRepository(
	catalog repositories.CatalogRepository,
	dialect entities.RequirementDialect,
) *CatalogResolverRepository {
	return &CatalogResolverRepository{catalog: catalog, dialect: dialect}
}

func (it *CatalogResolverRepository) Resolve(ctx context.Context, request repositories.ResolveRequest) (string, error) {
	dependency := request.Dependency
	values, err := it.catalog.ListVersions(ctx, dependency, request.Credentials)
	if err != nil {
		return "", err
	}
	ignored, err := it.ignoredConstraints(request.IgnoredVersions)
	if err != nil {
		return "", err
	}

	allowPrerelease := entities.IsPrerelease(dependency.Version)
	var best *entities.VersionCandidate
	for _, value := range values {
		candidate, ok := entities.NewVersionCandidate(value)
		if !ok || (candidate.IsPrerelease && !allowPrerelease) {
			continue
		}
		if isIgnored(ignored, candidate) || !it.admitted(request, candidate.Value) {
			continue
		}
		if best == nil || best.LessThan(candidate) {
			best = &candidate
		}
	}

	if best == nil {
		logger.Debugf("[resolver] no published version of %s satisfies its requirements", dependency.Name)
		return "", nil
	}
	return best.Value, nil
}

func (it *CatalogResolverRepository) admitted(request repositories.ResolveRequest, version string) bool {
	if request.Unlock && request.LatestAllowable != "" {
		ceiling, ok := entities.NewVersionCandidate(request.LatestAllowable)
		candidate, _ := entities.NewVersionCandidate(version)
		if ok && ceiling.LessThan(candidate) {
			return false
		}
	}
	for _, requirement := range request.Dependency.Requirements {
		if requirement.Source.IsGit() || requirement.Requirement == nil {
			continue
		}
		if !it.dialect.Admits(requirement.Text(), version) {
			return false
		}
	}
	return true
}

func (it *CatalogResolverRepository) ignoredConstraints(ranges []string) ([]*semver.Constraints, error) {
	constraints := make([]*semver.Constraints, 0, len(ranges))
	for _, ignoredRange := range ranges {
		constraint, err := it.dialect.Constraint(ignoredRange)
		if err != nil {
			return nil, fmt.Errorf("invalid ignored version range %q: %w", ignoredRange, err)
		}
		constraints = append(constraints, constraint)
	}
	return constraints, nil
}

func isIgnored(constraints []*semver.Constraints, candidate entities.VersionCandidate) bool {
	for _, constraint := range constraints {
		if constraint.Check(candidate.Semver()) {
			return true
		}
	}
	return false
}
