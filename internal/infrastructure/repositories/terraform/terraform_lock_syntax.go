package terraform

import (
	"context"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/process"
)

const (
	lockFile        = ".terraform.lock.hcl"
	terraformBinary = "terraform"

	credentialTypeRegistry = "terraform_registry"
)

//nolint:gochecknoglobals // platforms recorded in regenerated lockfiles
var lockPlatforms = []string{"linux_amd64", "linux_arm64", "darwin_amd64", "darwin_arm64", "windows_amd64"}

// TerraformLockSyntax addresses provider blocks of .terraform.lock.hcl.
type TerraformLockSyntax struct{}

// NewTerraformLockSyntax creates a new LockfileSyntax.
func NewTerraformLockSyntax() *TerraformLockSyntax {
	return &TerraformLockSyntax{}
}

func (it *TerraformLockSyntax) Handles(file entities.DependencyFile) bool {
	return file.BaseName() == lockFile
}

// Identity is the fully qualified provider address, "registry.terraform.io/hashicorp/aws".
func (it *TerraformLockSyntax) Identity(dependency entities.Dependency) string {
	if _, _, ok := splitRegistryAddress(dependency.Name, 2); ok && strings.Count(dependency.Name, "/") == 2 {
		return dependency.Name
	}
	host := defaultRegistryHost
	for _, requirement := range dependency.Requirements {
		if requirement.Source.Registry != "" {
			host = requirement.Source.Registry
			break
		}
	}
	return host + "/" + dependency.Name
}

func (it *TerraformLockSyntax) LocateBlock(content, identity string) (entities.Span, bool) {
	body, err := parseBody(lockFile, content)
	if err != nil {
		logger.Warnf("[terraform] cannot read %s: %v", lockFile, err)
		return entities.Span{}, false
	}
	for _, block := range body.Blocks {
		if block.Type == blockProvider && len(block.Labels) == 1 && block.Labels[0] == identity {
			return spanOf(block.Range()), true
		}
	}
	return entities.Span{}, false
}

func (it *TerraformLockSyntax) VersionLine(block string) string {
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, attributeVersion+" ") || strings.HasPrefix(trimmed, attributeVersion+"=") {
			return trimmed
		}
	}
	return ""
}

// TerraformLockRegeneratorRepository records the provider again with "terraform providers lock".
type TerraformLockRegeneratorRepository struct {
	runner process.CommandRunner
}

// NewTerraformLockRegeneratorRepository creates a new LockRegeneratorRepository.
func NewTerraformLockRegeneratorRepository(runner process.CommandRunner) *TerraformLockRegeneratorRepository {
	return &TerraformLockRegeneratorRepository{runner: runner}
}

func (it *TerraformLockRegeneratorRepository) Regenerate(
	ctx context.Context,
	workDir string,
	lockfile entities.DependencyFile,
	identity string,
	credentials []entities.Credential,
) (string, error) {
	args := []string{"providers", "lock"}
	for _, platform := range lockPlatforms {
		args = append(args, "-platform="+platform)
	}
	args = append(args, identity)

	host, _, _ := strings.Cut(identity, "/")
	if _, err := it.runner.Run(ctx, process.Command{
		Binary: terraformBinary,
		Args:   args,
		Dir:    workDir,
		Env:    append(process.GitCredentialEnv(credentials), registryTokenEnv(credentials)...),
		Host:   host,
	}); err != nil {
		return "", err
	}
	return process.ReadWorkFile(workDir, lockfile.Name)
}

// registryTokenEnv exposes registry credentials the way terraform reads them:
// TF_TOKEN_<host> with dots turned into underscores.
func registryTokenEnv(credentials []entities.Credential) []string {
	var env []string
	for _, credential := range credentials {
		if credential.Type != credentialTypeRegistry || credential.Host == "" || credential.Password == "" {
			continue
		}
		name := "TF_TOKEN_" + strings.NewReplacer(".", "_", "-", "__").Replace(credential.Host)
		env = append(env, name+"="+credential.Password)
	}
	return env
}
