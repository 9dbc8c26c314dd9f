package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

const (
	hostName    = "github"
	defaultHost = "github.com"
	perPage     = 100
)

// GitHubHostRepository implements repositories.GitHostRepository on top of the GitHub REST API.
type GitHubHostRepository struct {
	baseURL *url.URL
}

// NewGitHubHostRepository creates a host talking to api.github.com.
func NewGitHubHostRepository() *GitHubHostRepository {
	return &GitHubHostRepository{}
}

// NewGitHubHostRepositoryWithBaseURL creates a host talking to another API root,
// such as a GitHub Enterprise server.
func NewGitHubHostRepositoryWithBaseURL(baseURL string) (*GitHubHostRepository, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
	}
	return &GitHubHostRepository{baseURL: parsed}, nil
}

func (it *GitHubHostRepository) Name() string { return hostName }

func (it *GitHubHostRepository) Matches(rawURL string) bool {
	return strings.Contains(rawURL, defaultHost)
}

// ListTags lists every tag of the repository, following pagination.
func (it *GitHubHostRepository) ListTags(
	ctx context.Context,
	rawURL string,
	credentials []entities.Credential,
) ([]entities.GitTag, error) {
	owner, repo, err := ParseRepository(rawURL)
	if err != nil {
		return nil, err
	}
	client := it.client(credentials)

	var allTags []entities.GitTag
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		tags, resp, listErr := client.Repositories.ListTags(ctx, owner, repo, opts)
		if listErr != nil {
			return nil, classify(fmt.Errorf("failed to list tags of %s/%s: %w", owner, repo, listErr))
		}

		for _, tag := range tags {
			allTags = append(allTags, entities.GitTag{
				Name:      tag.GetName(),
				CommitSHA: tag.GetCommit().GetSHA(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.Debugf("[github] %s/%s has %d tags", owner, repo, len(allTags))
	return allTags, nil
}

// Compare reports how head relates to base.
func (it *GitHubHostRepository) Compare(
	ctx context.Context,
	rawURL, base, head string,
	credentials []entities.Credential,
) (entities.Comparison, error) {
	owner, repo, err := ParseRepository(rawURL)
	if err != nil {
		return entities.Comparison{}, err
	}

	comparison, _, err := it.client(credentials).Repositories.CompareCommits(
		ctx, owner, repo, base, head, &gh.ListOptions{PerPage: perPage},
	)
	if err != nil {
		return entities.Comparison{}, classify(fmt.Errorf("failed to compare %s...%s: %w", base, head, err))
	}

	commits := make([]string, 0, len(comparison.Commits))
	for _, commit := range comparison.Commits {
		commits = append(commits, commit.GetSHA())
	}
	return entities.Comparison{
		Status:   entities.ComparisonStatus(comparison.GetStatus()),
		AheadBy:  comparison.GetAheadBy(),
		BehindBy: comparison.GetBehindBy(),
		Commits:  commits,
	}, nil
}

func (it *GitHubHostRepository) client(credentials []entities.Credential) *gh.Client {
	client := gh.NewClient(nil)
	if credential, ok := entities.CredentialFor(credentials, defaultHost); ok && credential.Password != "" {
		client = client.WithAuthToken(credential.Password)
	}
	if it.baseURL != nil {
		client.BaseURL = it.baseURL
	}
	return client
}

// ParseRepository extracts owner and repository from an https, ssh or module-style location.
func ParseRepository(rawURL string) (string, string, error) {
	location := strings.TrimPrefix(rawURL, "git::")
	location = strings.TrimPrefix(location, "git@"+defaultHost+":")
	if parsed, err := url.Parse(location); err == nil && parsed.Host != "" {
		location = parsed.Path
	}
	location = strings.TrimPrefix(location, defaultHost)
	if index := strings.IndexAny(location, "?#"); index >= 0 {
		location = location[:index]
	}

	segments := strings.Split(strings.Trim(location, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("cannot parse a GitHub repository from %q", rawURL)
	}
	return segments[0], strings.TrimSuffix(segments[1], ".git"), nil
}

func classify(err error) error {
	var (
		errorResponse *gh.ErrorResponse
		rateLimitErr  *gh.RateLimitError
		abuseErr      *gh.AbuseRateLimitError
		netErr        net.Error
	)
	switch {
	case errors.As(err, &rateLimitErr), errors.As(err, &abuseErr):
		return entities.NewTransientError(defaultHost, err)
	case errors.As(err, &errorResponse) && errorResponse.Response != nil:
		if classified := registryhttp.CheckStatus(defaultHost, errorResponse.Response.StatusCode); classified != nil {
			var collaboratorErr *entities.CollaboratorError
			if errors.As(classified, &collaboratorErr) {
				collaboratorErr.Err = err
				return collaboratorErr
			}
		}
		return err
	case errors.As(err, &netErr):
		return entities.NewTransientError(defaultHost, err)
	default:
		return err
	}
}
