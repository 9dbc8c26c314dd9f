package gittags

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const (
	hostName       = "git"
	peeledSuffix   = "^{}"
	defaultUser    = "x-access-token"
	remoteName     = "origin"
	remoteRefsBase = "refs/remotes/origin/"
)

// GitHostRepository speaks the plain git protocol. It serves every URL no
// API-backed host claims: tags come from ls-remote, comparisons from an
// in-memory clone.
type GitHostRepository struct{}

// NewGitHostRepository creates a new GitHostRepository.
func NewGitHostRepository() *GitHostRepository {
	return &GitHostRepository{}
}

func (it *GitHostRepository) Name() string { return hostName }

func (it *GitHostRepository) Matches(string) bool { return true }

// ListTags lists the remote tags, preferring the peeled commit of annotated tags.
func (it *GitHostRepository) ListTags(
	ctx context.Context,
	rawURL string,
	credentials []entities.Credential,
) ([]entities.GitTag, error) {
	remoteURL, host := NormalizeURL(rawURL)
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: remoteName,
		URLs: []string{remoteURL},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: authFor(credentials, host)})
	if err != nil {
		return nil, classify(host, credentials, fmt.Errorf("failed to list refs of %q: %w", remoteURL, err))
	}

	var order []string
	commits := make(map[string]string)
	for _, ref := range refs {
		if !ref.Name().IsTag() {
			continue
		}
		name := ref.Name().Short()
		if strings.HasSuffix(name, peeledSuffix) {
			commits[strings.TrimSuffix(name, peeledSuffix)] = ref.Hash().String()
			continue
		}
		if _, seen := commits[name]; !seen {
			order = append(order, name)
			commits[name] = ref.Hash().String()
		}
	}

	tags := make([]entities.GitTag, 0, len(order))
	for _, name := range order {
		tags = append(tags, entities.GitTag{Name: name, CommitSHA: commits[name]})
	}
	logger.Debugf("[git] %s has %d tags", remoteURL, len(tags))
	return tags, nil
}

// Compare clones the repository into memory and counts the commits each side
// has that the other lacks.
func (it *GitHostRepository) Compare(
	ctx context.Context,
	rawURL, base, head string,
	credentials []entities.Credential,
) (entities.Comparison, error) {
	remoteURL, host := NormalizeURL(rawURL)
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:        remoteURL,
		Auth:       authFor(credentials, host),
		NoCheckout: true,
		Tags:       git.AllTags,
	})
	if err != nil {
		return entities.Comparison{}, classify(host, credentials, fmt.Errorf("failed to clone %q: %w", remoteURL, err))
	}

	baseCommits, err := ancestry(repo, base)
	if err != nil {
		return entities.Comparison{}, entities.NewResolvabilityError(host, err)
	}
	headCommits, err := ancestry(repo, head)
	if err != nil {
		return entities.Comparison{}, entities.NewResolvabilityError(host, err)
	}

	var commits []string
	for _, hash := range headCommits.order {
		if !baseCommits.seen[hash] {
			commits = append(commits, hash)
		}
	}
	behindBy := 0
	for _, hash := range baseCommits.order {
		if !headCommits.seen[hash] {
			behindBy++
		}
	}

	return entities.Comparison{
		Status:   entities.StatusFromCounts(len(commits), behindBy),
		AheadBy:  len(commits),
		BehindBy: behindBy,
		Commits:  commits,
	}, nil
}

type history struct {
	order []string
	seen  map[string]bool
}

func ancestry(repo *git.Repository, revision string) (history, error) {
	hash, err := resolve(repo, revision)
	if err != nil {
		return history{}, err
	}
	iter, err := repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return history{}, fmt.Errorf("failed to walk %q: %w", revision, err)
	}
	result := history{seen: make(map[string]bool)}
	err = iter.ForEach(func(commit *object.Commit) error {
		sha := commit.Hash.String()
		result.order = append(result.order, sha)
		result.seen[sha] = true
		return nil
	})
	if err != nil {
		return history{}, fmt.Errorf("failed to walk %q: %w", revision, err)
	}
	return result, nil
}

func resolve(repo *git.Repository, revision string) (plumbing.Hash, error) {
	for _, candidate := range []string{revision, remoteRefsBase + revision} {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err == nil {
			return *hash, nil
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("revision %q not found", revision)
}

// NormalizeURL turns dependency-style locations into a fetchable https URL and
// returns the host credentials are looked up by.
func NormalizeURL(rawURL string) (string, string) {
	remoteURL := strings.TrimPrefix(rawURL, "git::")
	if strings.HasPrefix(remoteURL, "git@") {
		host := strings.SplitN(strings.TrimPrefix(remoteURL, "git@"), ":", 2)[0]
		return remoteURL, host
	}
	if !strings.Contains(remoteURL, "://") {
		remoteURL = "https://" + remoteURL
	}
	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return remoteURL, ""
	}
	parsed.RawQuery = ""
	return parsed.String(), parsed.Host
}

func authFor(credentials []entities.Credential, host string) transport.AuthMethod {
	credential, ok := entities.CredentialFor(credentials, host)
	if !ok || credential.Password == "" {
		return nil
	}
	username := credential.Username
	if username == "" {
		username = defaultUser
	}
	return &http.BasicAuth{Username: username, Password: credential.Password}
}

// classify treats a host that demands credentials nobody supplied as unreachable
// rather than as a failed login.
func classify(host string, credentials []entities.Credential, err error) error {
	_, supplied := entities.CredentialFor(credentials, host)
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return entities.NewResolvabilityError(host, err)
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed):
		if !supplied {
			return entities.NewResolvabilityError(host, err)
		}
		return entities.NewAuthenticationError(host, err)
	case errors.As(err, &netErr):
		return entities.NewTransientError(host, err)
	default:
		return err
	}
}
