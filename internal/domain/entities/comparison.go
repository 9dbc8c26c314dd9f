package entities

// ComparisonStatus is the relation of a head ref to a base ref.
type ComparisonStatus string

const (
	ComparisonAhead     ComparisonStatus = "ahead"
	ComparisonBehind    ComparisonStatus = "behind"
	ComparisonIdentical ComparisonStatus = "identical"
	ComparisonDiverged  ComparisonStatus = "diverged"
)

// Comparison is what a git host reports for compare(base, head).
type Comparison struct {
	Status   ComparisonStatus
	AheadBy  int
	BehindBy int
	Commits  []string
}

// NotBehind is true when head contains everything base has.
func (c Comparison) NotBehind() bool {
	return c.Status == ComparisonAhead || c.Status == ComparisonIdentical
}

// StatusFromCounts derives the status from ahead/behind commit counts.
func StatusFromCounts(aheadBy, behindBy int) ComparisonStatus {
	switch {
	case aheadBy == 0 && behindBy == 0:
		return ComparisonIdentical
	case behindBy == 0:
		return ComparisonAhead
	case aheadBy == 0:
		return ComparisonBehind
	default:
		return ComparisonDiverged
	}
}

// GitTag is a tag and the commit it points to.
type GitTag struct {
	Name      string
	CommitSHA string
}

// Credential authenticates against one host.
type Credential struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// CredentialFor returns the first credential for host.
func CredentialFor(credentials []Credential, host string) (Credential, bool) {
	for _, credential := range credentials {
		if credential.Host == host {
			return credential, true
		}
	}
	return Credential{}, false
}
