package azuredevops

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/registryhttp"
)

const (
	hostName       = "azuredevops"
	defaultHost    = "dev.azure.com"
	sshHost        = "ssh.dev.azure.com"
	defaultBaseURL = "https://" + defaultHost
	apiVersion     = "7.0"
	patUser        = "pat"
	tagsPrefix     = "refs/tags/"
	headsPrefix    = "refs/heads/"
)

var commitSHA = regexp.MustCompile(`^[0-9a-f]{40}$`)

// AzureDevOpsHostRepository implements repositories.GitHostRepository on top of the Azure Repos REST API.
type AzureDevOpsHostRepository struct {
	client  *registryhttp.Client
	baseURL string
}

// NewAzureDevOpsHostRepository creates a host talking to dev.azure.com.
func NewAzureDevOpsHostRepository(client *registryhttp.Client) *AzureDevOpsHostRepository {
	return &AzureDevOpsHostRepository{client: client, baseURL: defaultBaseURL}
}

// NewAzureDevOpsHostRepositoryWithBaseURL creates a host talking to another API root.
func NewAzureDevOpsHostRepositoryWithBaseURL(client *registryhttp.Client, baseURL string) *AzureDevOpsHostRepository {
	return &AzureDevOpsHostRepository{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (it *AzureDevOpsHostRepository) Name() string { return hostName }

func (it *AzureDevOpsHostRepository) Matches(rawURL string) bool {
	return strings.Contains(rawURL, defaultHost)
}

// Location addresses one repository inside an organization and project.
type Location struct {
	Organization string
	Project      string
	Repository   string
}

type refsResponse struct {
	Value []struct {
		Name           string `json:"name"`
		ObjectID       string `json:"objectId"`
		PeeledObjectID string `json:"peeledObjectId"`
	} `json:"value"`
}

type commitDiffsResponse struct {
	AheadCount  int `json:"aheadCount"`
	BehindCount int `json:"behindCount"`
}

// ListTags lists every tag of the repository, preferring the peeled commit of annotated tags.
func (it *AzureDevOpsHostRepository) ListTags(
	ctx context.Context,
	rawURL string,
	credentials []entities.Credential,
) ([]entities.GitTag, error) {
	location, err := ParseLocation(rawURL)
	if err != nil {
		return nil, err
	}

	var refs refsResponse
	if err = it.client.GetJSON(ctx, it.refsURL(location, "tags/"), it.credentials(credentials), &refs); err != nil {
		return nil, fmt.Errorf("failed to list tags of %s/%s: %w", location.Project, location.Repository, err)
	}

	tags := make([]entities.GitTag, 0, len(refs.Value))
	for _, ref := range refs.Value {
		sha := ref.PeeledObjectID
		if sha == "" {
			sha = ref.ObjectID
		}
		tags = append(tags, entities.GitTag{Name: strings.TrimPrefix(ref.Name, tagsPrefix), CommitSHA: sha})
	}

	logger.Debugf("[azuredevops] %s/%s has %d tags", location.Project, location.Repository, len(tags))
	return tags, nil
}

// Compare resolves both revisions to commits, since the diff endpoint needs to
// know whether each side is a branch or a tag, and reads the ahead and behind counts.
func (it *AzureDevOpsHostRepository) Compare(
	ctx context.Context,
	rawURL, base, head string,
	credentials []entities.Credential,
) (entities.Comparison, error) {
	location, err := ParseLocation(rawURL)
	if err != nil {
		return entities.Comparison{}, err
	}
	apiCredentials := it.credentials(credentials)

	var refs refsResponse
	if err = it.client.GetJSON(ctx, it.refsURL(location, ""), apiCredentials, &refs); err != nil {
		return entities.Comparison{}, fmt.Errorf("failed to list refs of %s/%s: %w", location.Project, location.Repository, err)
	}
	commits := make(map[string]string, len(refs.Value))
	for _, ref := range refs.Value {
		sha := ref.PeeledObjectID
		if sha == "" {
			sha = ref.ObjectID
		}
		commits[ref.Name] = sha
	}

	baseCommit, err := revisionCommit(commits, base)
	if err != nil {
		return entities.Comparison{}, entities.NewResolvabilityError(defaultHost, err)
	}
	headCommit, err := revisionCommit(commits, head)
	if err != nil {
		return entities.Comparison{}, entities.NewResolvabilityError(defaultHost, err)
	}

	query := url.Values{}
	query.Set("baseVersion", baseCommit)
	query.Set("baseVersionType", "commit")
	query.Set("targetVersion", headCommit)
	query.Set("targetVersionType", "commit")
	query.Set("api-version", apiVersion)
	diffsURL := fmt.Sprintf("%s/diffs/commits?%s", it.repositoryURL(location), query.Encode())

	var diffs commitDiffsResponse
	if err = it.client.GetJSON(ctx, diffsURL, apiCredentials, &diffs); err != nil {
		return entities.Comparison{}, fmt.Errorf("failed to compare %s...%s: %w", base, head, err)
	}

	return entities.Comparison{
		Status:   entities.StatusFromCounts(diffs.AheadCount, diffs.BehindCount),
		AheadBy:  diffs.AheadCount,
		BehindBy: diffs.BehindCount,
	}, nil
}

func (it *AzureDevOpsHostRepository) repositoryURL(location Location) string {
	return fmt.Sprintf("%s/%s/%s/_apis/git/repositories/%s",
		it.baseURL,
		url.PathEscape(location.Organization),
		url.PathEscape(location.Project),
		url.PathEscape(location.Repository),
	)
}

func (it *AzureDevOpsHostRepository) refsURL(location Location, filter string) string {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	query.Set("peelTags", "true")
	query.Set("api-version", apiVersion)
	return fmt.Sprintf("%s/refs?%s", it.repositoryURL(location), query.Encode())
}

// credentials rebinds the dev.azure.com credential to the API host. Azure Repos
// takes a personal access token as the password of any basic auth user.
func (it *AzureDevOpsHostRepository) credentials(credentials []entities.Credential) []entities.Credential {
	credential, ok := entities.CredentialFor(credentials, defaultHost)
	if !ok || credential.Password == "" {
		return nil
	}
	if credential.Username == "" {
		credential.Username = patUser
	}
	parsed, err := url.Parse(it.baseURL)
	if err == nil {
		credential.Host = parsed.Host
	}
	return []entities.Credential{credential}
}

func revisionCommit(commits map[string]string, revision string) (string, error) {
	if commitSHA.MatchString(revision) {
		return revision, nil
	}
	for _, name := range []string{tagsPrefix + revision, headsPrefix + revision, revision} {
		if sha, ok := commits[name]; ok {
			return sha, nil
		}
	}
	return "", fmt.Errorf("revision %q not found", revision)
}

// ParseLocation reads the organization, project and repository from an Azure Repos
// clone URL, in either its https or its ssh form.
func ParseLocation(rawURL string) (Location, error) {
	location := strings.TrimPrefix(rawURL, "git::")
	if index := strings.IndexAny(location, "?#"); index >= 0 {
		location = location[:index]
	}

	var parts []string
	switch {
	case strings.HasPrefix(location, "git@"+sshHost+":"):
		path := strings.TrimPrefix(location, "git@"+sshHost+":")
		if index := strings.Index(path, "//"); index >= 0 {
			path = path[:index]
		}
		parts = strings.Split(strings.TrimPrefix(path, "v3/"), "/")
	default:
		if !strings.Contains(location, "://") {
			location = "https://" + location
		}
		parsed, err := url.Parse(location)
		if err != nil {
			return Location{}, fmt.Errorf("cannot parse an Azure Repos URL from %q: %w", rawURL, err)
		}
		path := strings.Trim(parsed.Path, "/")
		if index := strings.Index(path, "//"); index >= 0 {
			path = path[:index]
		}
		parts = strings.Split(strings.Replace(path, "/_git/", "/", 1), "/")
	}

	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Location{}, fmt.Errorf("cannot parse an Azure Repos repository from %q", rawURL)
	}
	return Location{
		Organization: parts[0],
		Project:      parts[1],
		Repository:   strings.TrimSuffix(parts[2], ".git"),
	}, nil
}
