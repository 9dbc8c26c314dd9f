package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
)

// VersionResolver finds the version the ecosystem would actually select.
type VersionResolver interface {
	Execute(ctx context.Context, request ResolveVersionRequest) (Resolution, error)
}

// ResolveVersionRequest holds the inputs of one resolution.
type ResolveVersionRequest struct {
	Ecosystem   repositories.EcosystemRepository
	Dependency  entities.Dependency
	Files       []entities.DependencyFile
	Credentials []entities.Credential
	// LatestVersion bounds the unlocked requirement.
	LatestVersion     string
	UnlockRequirement bool
	RemoveGitSource   bool
	IgnoredVersions   []string
}

// Resolution is the resolvable version and, for Git sources, the tag it came from.
type Resolution struct {
	Version string
	Tag     string
}

// VersionResolverCommand implements VersionResolver.
type VersionResolverCommand struct {
	preparer FilePreparer
	hosts    *infraRepos.GitHostRegistry
}

// NewVersionResolverCommand creates a new VersionResolverCommand.
func NewVersionResolverCommand(preparer FilePreparer, hosts *infraRepos.GitHostRegistry) *VersionResolverCommand {
	return &VersionResolverCommand{preparer: preparer, hosts: hosts}
}

// Execute returns the resolvable version, or the current one when nothing better is reachable.
func (it *VersionResolverCommand) Execute(ctx context.Context, request ResolveVersionRequest) (Resolution, error) {
	dependency := request.Dependency
	current := Resolution{Version: dependency.Version}

	if source, ok := dependency.GitSource(); ok && !request.RemoveGitSource {
		if !request.UnlockRequirement {
			return current, nil
		}
		return it.resolveGit(ctx, request, source)
	}

	if dependency.IsIndirect() {
		logger.Debugf("[resolver] %s is indirect, keeping %q", dependency.Name, dependency.Version)
		return current, nil
	}

	prepared, err := it.preparer.Execute(PrepareRequest{
		Ecosystem:              request.Ecosystem,
		Dependency:             dependency,
		Files:                  request.Files,
		UnlockRequirement:      request.UnlockRequirement,
		RemoveGitSource:        request.RemoveGitSource,
		LatestAllowableVersion: request.LatestVersion,
	})
	if err != nil {
		return Resolution{}, err
	}

	scoped := dependency
	scoped.Requirements = prepared.Requirements

	var selected string
	err = inWorkspace(prepared.Files, func(dir string) error {
		version, resolveErr := withTransientRetry(ctx, "resolving "+dependency.Name, func() (string, error) {
			return request.Ecosystem.Resolver().Resolve(ctx, repositories.ResolveRequest{
				WorkDir:         dir,
				Dependency:      scoped,
				Files:           prepared.Files,
				Credentials:     request.Credentials,
				Unlock:          request.UnlockRequirement,
				LatestAllowable: request.LatestVersion,
				IgnoredVersions: request.IgnoredVersions,
			})
		})
		selected = version
		return resolveErr
	})
	if err != nil {
		return Resolution{}, entities.TranslateCollaboratorError(err, dependency.Name, request.Credentials)
	}

	if selected == "" {
		return current, nil
	}
	logger.Debugf("[resolver] %s resolves to %s (unlock=%t)", dependency.Name, selected, request.UnlockRequirement)
	return Resolution{Version: selected}, nil
}

func (it *VersionResolverCommand) resolveGit(
	ctx context.Context,
	request ResolveVersionRequest,
	source entities.Source,
) (Resolution, error) {
	dependency := request.Dependency
	current := Resolution{Version: dependency.Version}

	url := source.URL
	if url == "" {
		url = "https://" + dependency.Name
	}
	host := it.hosts.For(url)
	if host == nil {
		logger.Warnf("[resolver] no git host serves %s, keeping %q", url, dependency.Version)
		return current, nil
	}

	_, tagShaped := entities.ShapeOfTag(source.Ref)
	if source.Branch == "" && (source.Ref == "" || !tagShaped) {
		return current, nil
	}

	tags, err := withTransientRetry(ctx, "listing tags of "+url, func() ([]entities.GitTag, error) {
		return host.ListTags(ctx, url, request.Credentials)
	})
	if err != nil {
		return Resolution{}, entities.TranslateCollaboratorError(err, dependency.Name, request.Credentials)
	}
	if source.Branch != "" {
		return it.resolveBranch(ctx, host, url, tags, request, source)
	}
	return it.resolveTag(ctx, host, url, tags, request, source)
}

// resolveBranch lets the latest release supersede a branch pin when the release is not behind the branch tip.
func (it *VersionResolverCommand) resolveBranch(
	ctx context.Context,
	host repositories.GitHostRepository,
	url string,
	tags []entities.GitTag,
	request ResolveVersionRequest,
	source entities.Source,
) (Resolution, error) {
	dependency := request.Dependency
	current := Resolution{Version: dependency.Version}

	release, ok := latestRelease(tags)
	if !ok {
		return current, nil
	}

	comparison, err := compare(ctx, host, url, source.Branch, release.Name, request.Credentials)
	if err != nil {
		return Resolution{}, entities.TranslateCollaboratorError(err, dependency.Name, request.Credentials)
	}
	if !comparison.NotBehind() {
		logger.Debugf("[resolver] %s is behind branch %s, keeping the branch pin", release.Name, source.Branch)
		return current, nil
	}

	return Resolution{Version: entities.TrimVersionPrefix(release.Name), Tag: release.Name}, nil
}

// resolveTag picks the newer tag of the same shape that is not behind the pin. Tags are opaque: only the
// host's compare decides which one is newer.
func (it *VersionResolverCommand) resolveTag(
	ctx context.Context,
	host repositories.GitHostRepository,
	url string,
	tags []entities.GitTag,
	request ResolveVersionRequest,
	source entities.Source,
) (Resolution, error) {
	dependency := request.Dependency
	shape, _ := entities.ShapeOfTag(source.Ref)

	var best *entities.GitTag
	bestAhead := 0
	for i, tag := range tags {
		if tag.Name == source.Ref {
			continue
		}
		if tagShape, ok := entities.ShapeOfTag(tag.Name); !ok || tagShape != shape {
			continue
		}
		comparison, err := compare(ctx, host, url, source.Ref, tag.Name, request.Credentials)
		if err != nil {
			return Resolution{}, entities.TranslateCollaboratorError(err, dependency.Name, request.Credentials)
		}
		if !comparison.NotBehind() {
			continue
		}
		if best == nil || comparison.AheadBy > bestAhead {
			best = &tags[i]
			bestAhead = comparison.AheadBy
		}
	}

	if best == nil {
		return Resolution{Version: dependency.Version}, nil
	}
	if entities.IsCommitSha(dependency.Version) {
		return Resolution{Version: best.CommitSHA, Tag: best.Name}, nil
	}
	return Resolution{Version: best.Name, Tag: best.Name}, nil
}

func compare(
	ctx context.Context,
	host repositories.GitHostRepository,
	url, base, head string,
	credentials []entities.Credential,
) (entities.Comparison, error) {
	return withTransientRetry(ctx, "comparing "+base+"..."+head, func() (entities.Comparison, error) {
		return host.Compare(ctx, url, base, head, credentials)
	})
}

func latestRelease(tags []entities.GitTag) (entities.GitTag, bool) {
	var best entities.GitTag
	var bestCandidate entities.VersionCandidate
	found := false
	for _, tag := range tags {
		candidate, ok := entities.NewVersionCandidate(tag.Name)
		if !ok || candidate.IsPrerelease {
			continue
		}
		if !found || bestCandidate.LessThan(candidate) {
			best, bestCandidate, found = tag, candidate, true
		}
	}
	return best, found
}
