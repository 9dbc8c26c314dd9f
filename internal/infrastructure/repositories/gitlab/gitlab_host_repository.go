package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

const (
	hostName    = "gitlab"
	defaultHost = "gitlab.com"
	perPage     = 100
)

// GitLabHostRepository implements repositories.GitHostRepository on top of the GitLab REST API.
type GitLabHostRepository struct {
	baseURL string
}

// NewGitLabHostRepository creates a host talking to gitlab.com.
func NewGitLabHostRepository() *GitLabHostRepository {
	return &GitLabHostRepository{}
}

// NewGitLabHostRepositoryWithBaseURL creates a host talking to a self-managed instance.
func NewGitLabHostRepositoryWithBaseURL(baseURL string) *GitLabHostRepository {
	return &GitLabHostRepository{baseURL: baseURL}
}

func (it *GitLabHostRepository) Name() string { return hostName }

func (it *GitLabHostRepository) Matches(rawURL string) bool {
	return strings.Contains(rawURL, defaultHost)
}

// ListTags lists every tag of the project, following pagination.
func (it *GitLabHostRepository) ListTags(
	ctx context.Context,
	rawURL string,
	credentials []entities.Credential,
) ([]entities.GitTag, error) {
	pid, err := ProjectPath(rawURL)
	if err != nil {
		return nil, err
	}
	client, err := it.client(credentials)
	if err != nil {
		return nil, err
	}

	var allTags []entities.GitTag
	opts := &gl.ListTagsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
	}
	for {
		tags, resp, listErr := client.Tags.ListTags(pid, opts, gl.WithContext(ctx))
		if listErr != nil {
			return nil, classify(fmt.Errorf("failed to list tags of %s: %w", pid, listErr))
		}

		for _, tag := range tags {
			sha := ""
			if tag.Commit != nil {
				sha = tag.Commit.ID
			}
			allTags = append(allTags, entities.GitTag{Name: tag.Name, CommitSHA: sha})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.Debugf("[gitlab] %s has %d tags", pid, len(allTags))
	return allTags, nil
}

// Compare reports how head relates to base. GitLab only lists the commits the
// target has over the source, so the behind count is a second, reversed compare.
func (it *GitLabHostRepository) Compare(
	ctx context.Context,
	rawURL, base, head string,
	credentials []entities.Credential,
) (entities.Comparison, error) {
	pid, err := ProjectPath(rawURL)
	if err != nil {
		return entities.Comparison{}, err
	}
	client, err := it.client(credentials)
	if err != nil {
		return entities.Comparison{}, err
	}

	ahead, _, err := client.Repositories.Compare(pid, &gl.CompareOptions{
		From: gl.Ptr(base),
		To:   gl.Ptr(head),
	}, gl.WithContext(ctx))
	if err != nil {
		return entities.Comparison{}, classify(fmt.Errorf("failed to compare %s...%s: %w", base, head, err))
	}
	behind, _, err := client.Repositories.Compare(pid, &gl.CompareOptions{
		From: gl.Ptr(head),
		To:   gl.Ptr(base),
	}, gl.WithContext(ctx))
	if err != nil {
		return entities.Comparison{}, classify(fmt.Errorf("failed to compare %s...%s: %w", head, base, err))
	}

	commits := make([]string, 0, len(ahead.Commits))
	for _, commit := range ahead.Commits {
		commits = append(commits, commit.ID)
	}
	return entities.Comparison{
		Status:   entities.StatusFromCounts(len(ahead.Commits), len(behind.Commits)),
		AheadBy:  len(ahead.Commits),
		BehindBy: len(behind.Commits),
		Commits:  commits,
	}, nil
}

func (it *GitLabHostRepository) client(credentials []entities.Credential) (*gl.Client, error) {
	token := ""
	if credential, ok := entities.CredentialFor(credentials, defaultHost); ok {
		token = credential.Password
	}
	var options []gl.ClientOptionFunc
	if it.baseURL != "" {
		options = append(options, gl.WithBaseURL(it.baseURL))
	}
	client, err := gl.NewClient(token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return client, nil
}

// ProjectPath extracts the "group/subgroup/project" path GitLab uses as project ID.
func ProjectPath(rawURL string) (string, error) {
	location := strings.TrimPrefix(rawURL, "git::")
	location = strings.TrimPrefix(location, "git@"+defaultHost+":")
	if parsed, err := url.Parse(location); err == nil && parsed.Host != "" {
		location = parsed.Path
	}
	location = strings.TrimPrefix(location, defaultHost)
	if index := strings.IndexAny(location, "?#"); index >= 0 {
		location = location[:index]
	}
	if index := strings.Index(location, "//"); index >= 0 {
		location = location[:index]
	}

	path := strings.TrimSuffix(strings.Trim(location, "/"), ".git")
	if !strings.Contains(path, "/") {
		return "", fmt.Errorf("cannot parse a GitLab project from %q", rawURL)
	}
	return path, nil
}

func classify(err error) error {
	var (
		errorResponse *gl.ErrorResponse
		netErr        net.Error
	)
	switch {
	case errors.As(err, &errorResponse) && errorResponse.Response != nil:
		classified := registryhttp.CheckStatus(defaultHost, errorResponse.Response.StatusCode)
		var collaboratorErr *entities.CollaboratorError
		if errors.As(classified, &collaboratorErr) {
			collaboratorErr.Err = err
			return collaboratorErr
		}
		return err
	case errors.As(err, &netErr):
		return entities.NewTransientError(defaultHost, err)
	default:
		return err
	}
}
