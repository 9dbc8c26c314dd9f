package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	configHelpers "github.com/rios0rios0/gitforge/pkg/config/domain/helpers"
	globalEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	appName             = "autobump"
	defaultConcurrency  = 4
	gitSourceCredential = "git_source"
)

//nolint:gochecknoglobals // read-only lookup table
var envCredentialHosts = []struct {
	host    string
	service globalEntities.ServiceType
}{
	{host: "github.com", service: globalEntities.GITHUB},
	{host: "gitlab.com", service: globalEntities.GITLAB},
	{host: "dev.azure.com", service: globalEntities.AZUREDEVOPS},
}

// Settings is the top-level configuration for autobump.
type Settings struct {
	Concurrency int            `yaml:"concurrency"`
	Credentials []Credential   `yaml:"credentials"`
	Updates     []UpdateConfig `yaml:"updates"`
}

// UpdateConfig describes one update request: a dependency inside one directory.
type UpdateConfig struct {
	PackageManager  string           `yaml:"package_manager"`
	Directory       string           `yaml:"directory"`
	Files           []string         `yaml:"files"` // glob patterns, defaults per ecosystem
	Strategy        string           `yaml:"strategy"`
	IgnoredVersions []string         `yaml:"ignored_versions"`
	RaiseOnIgnored  bool             `yaml:"raise_on_ignored"`
	Dependency      DependencyConfig `yaml:"dependency"`
}

// DependencyConfig is the caller-supplied dependency record.
type DependencyConfig struct {
	Name         string              `yaml:"name"`
	Version      string              `yaml:"version"`
	Requirements []RequirementConfig `yaml:"requirements"`
}

// RequirementConfig is a caller-supplied declaration of the dependency.
type RequirementConfig struct {
	File        string            `yaml:"file"`
	Requirement *string           `yaml:"requirement"`
	Groups      []string          `yaml:"groups"`
	Source      SourceConfig      `yaml:"source"`
	Metadata    map[string]string `yaml:"metadata"`
}

// SourceConfig is the yaml shape of Source.
type SourceConfig struct {
	Type     string `yaml:"type"` // "default" (or empty) and "git"
	Registry string `yaml:"registry"`
	URL      string `yaml:"url"`
	Branch   string `yaml:"branch"`
	Ref      string `yaml:"ref"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment variables
// and resolving credential file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	for i := range settings.Credentials {
		settings.Credentials[i].Password = resolveSecret(settings.Credentials[i].Password)
	}
	settings.Credentials = withEnvCredentials(settings.Credentials)
	if settings.Concurrency <= 0 {
		settings.Concurrency = defaultConcurrency
	}

	// relative directories are anchored at the config file
	baseDir := filepath.Dir(path)
	for i := range settings.Updates {
		if dir := settings.Updates[i].Directory; dir == "" || !filepath.IsAbs(dir) {
			settings.Updates[i].Directory = filepath.Join(baseDir, dir)
		}
	}

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	path, err := configHelpers.FindConfigFile(appName)
	if err != nil {
		return "", fmt.Errorf("failed to find a %s configuration file: %w", appName, err)
	}
	return path, nil
}

// withEnvCredentials adds a credential for every hosted forge that has none
// configured but whose token is exported in the environment (GITHUB_TOKEN, ...).
func withEnvCredentials(credentials []Credential) []Credential {
	for _, forge := range envCredentialHosts {
		if _, ok := CredentialFor(credentials, forge.host); ok {
			continue
		}
		token := configHelpers.ResolveTokenFromEnv(forge.service)
		if token == "" {
			continue
		}
		logger.Debugf("Using %s from the environment for %s", configHelpers.TokenEnvHint(forge.service), forge.host)
		credentials = append(credentials, Credential{Type: gitSourceCredential, Host: forge.host, Password: token})
	}
	return credentials
}

// resolveSecret expands ${VAR} references and, if the result is a path to an
// existing file, reads the secret from it.
func resolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func validate(settings *Settings) error {
	if len(settings.Updates) == 0 {
		return errors.New("at least one update must be configured")
	}

	for i, credential := range settings.Credentials {
		if credential.Host == "" {
			return fmt.Errorf("credentials[%d].host is required", i)
		}
	}

	for i, update := range settings.Updates {
		if update.PackageManager == "" {
			return fmt.Errorf("updates[%d].package_manager is required", i)
		}
		if update.Dependency.Name == "" {
			return fmt.Errorf("updates[%d].dependency.name is required", i)
		}
		if _, err := ParseUpdateStrategy(update.Strategy); err != nil {
			return fmt.Errorf("updates[%d].strategy: %w", i, err)
		}
		for j, requirement := range update.Dependency.Requirements {
			if requirement.File == "" {
				return fmt.Errorf("updates[%d].dependency.requirements[%d].file is required", i, j)
			}
			if requirement.Source.Type == string(SourceTypeGit) && requirement.Source.Branch != "" &&
				requirement.Source.Ref != "" {
				return fmt.Errorf(
					"updates[%d].dependency.requirements[%d].source: branch and ref are mutually exclusive",
					i, j,
				)
			}
		}
	}

	return nil
}

// ToDependency builds a fresh Dependency record for one update request.
func (c UpdateConfig) ToDependency() Dependency {
	requirements := make([]Requirement, 0, len(c.Dependency.Requirements))
	for _, requirement := range c.Dependency.Requirements {
		source := DefaultSource(requirement.Source.Registry)
		if requirement.Source.Type == string(SourceTypeGit) {
			source = GitSource(requirement.Source.URL, requirement.Source.Branch, requirement.Source.Ref)
		}
		requirements = append(requirements, Requirement{
			File:        requirement.File,
			Requirement: requirement.Requirement,
			Groups:      requirement.Groups,
			Source:      source,
			Metadata:    requirement.Metadata,
		})
	}
	return Dependency{
		Name:           c.Dependency.Name,
		Version:        c.Dependency.Version,
		Requirements:   requirements,
		PackageManager: c.PackageManager,
	}
}
