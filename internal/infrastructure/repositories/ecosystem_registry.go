package repositories

import (
	"sort"

	domainRepos "github.com/rios0rios0/autobump/internal/domain/repositories"
)

// EcosystemRegistry manages all registered package-manager ecosystems.
type EcosystemRegistry struct {
	ecosystems map[string]domainRepos.EcosystemRepository
}

// NewEcosystemRegistry creates an empty ecosystem registry.
func NewEcosystemRegistry() *EcosystemRegistry {
	return &EcosystemRegistry{
		ecosystems: make(map[string]domainRepos.EcosystemRepository),
	}
}

// Register adds an ecosystem under its name.
func (r *EcosystemRegistry) Register(ecosystem domainRepos.EcosystemRepository) {
	r.ecosystems[ecosystem.Name()] = ecosystem
}

// Get returns the ecosystem with the given name, or nil if not registered.
func (r *EcosystemRegistry) Get(name string) domainRepos.EcosystemRepository {
	return r.ecosystems[name]
}

// Names returns the registered ecosystem names, sorted.
func (r *EcosystemRegistry) Names() []string {
	names := make([]string, 0, len(r.ecosystems))
	for name := range r.ecosystems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
