package entities

import "fmt"

// UpdateStrategy decides how requirement text is rewritten.
type UpdateStrategy string

const (
	StrategyWidenRanges             UpdateStrategy = "widen_ranges"
	StrategyBumpVersions            UpdateStrategy = "bump_versions"
	StrategyBumpVersionsIfNecessary UpdateStrategy = "bump_versions_if_necessary"
	StrategyLockfileOnly            UpdateStrategy = "lockfile_only"
)

// ParseUpdateStrategy accepts the configuration spelling of a strategy; "" means "pick one".
func ParseUpdateStrategy(value string) (UpdateStrategy, error) {
	switch strategy := UpdateStrategy(value); strategy {
	case "", StrategyWidenRanges, StrategyBumpVersions, StrategyBumpVersionsIfNecessary, StrategyLockfileOnly:
		return strategy, nil
	default:
		return "", fmt.Errorf("unknown update strategy %q", value)
	}
}

// DefaultStrategy is bump_versions for applications and widen_ranges for libraries.
func DefaultStrategy(files []DependencyFile) UpdateStrategy {
	if HasApplicationFile(files) {
		return StrategyBumpVersions
	}
	return StrategyWidenRanges
}
