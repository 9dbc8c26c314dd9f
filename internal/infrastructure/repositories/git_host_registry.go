package repositories

import (
	domainRepos "github.com/rios0rios0/autobump/internal/domain/repositories"
)

// GitHostRegistry holds the git hosts in lookup order; the first host that
// matches a URL serves it.
type GitHostRegistry struct {
	hosts []domainRepos.GitHostRepository
}

// NewGitHostRegistry creates an empty git host registry.
func NewGitHostRegistry() *GitHostRegistry {
	return &GitHostRegistry{}
}

// Register appends a host to the lookup order.
func (r *GitHostRegistry) Register(host domainRepos.GitHostRepository) {
	r.hosts = append(r.hosts, host)
}

// For returns the host serving url, or nil when none matches.
func (r *GitHostRegistry) For(url string) domainRepos.GitHostRepository {
	for _, host := range r.hosts {
		if host.Matches(url) {
			return host
		}
	}
	return nil
}

// Names returns the registered host names in lookup order.
func (r *GitHostRegistry) Names() []string {
	names := make([]string, 0, len(r.hosts))
	for _, host := range r.hosts {
		names = append(names, host.Name())
	}
	return names
}
