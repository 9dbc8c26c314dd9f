package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// Command is one invocation of an ecosystem tool.
type Command struct {
	// Binary is the tool name, looked up on PATH and in common install locations.
	Binary string
	Args   []string
	Dir    string
	Env    []string
	// Host is reported on classified failures.
	Host string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Binary + " " + strings.Join(c.Args, " "))
}

// CommandRunner executes ecosystem tools.
type CommandRunner interface {
	Run(ctx context.Context, command Command) (string, error)
}

//nolint:gochecknoglobals // well-known install locations
var fallbackLocations = map[string][]string{
	"go":        {"/usr/local/go/bin/go", "/usr/bin/go", "/snap/bin/go", "~/.goenv/shims/go"},
	"dep":       {"~/go/bin/dep", "/usr/local/bin/dep"},
	"terraform": {"/usr/local/bin/terraform", "/usr/bin/terraform", "~/.tfenv/bin/terraform"},
}

// Runner executes ecosystem tools and classifies their failures.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the command and returns its standard output.
func (r *Runner) Run(ctx context.Context, command Command) (string, error) {
	binary, err := FindBinary(command.Binary, fallbackLocations[command.Binary]...)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, binary, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Env = append(cmd.Env, command.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("[process] running %q in %s", command.String(), command.Dir)
	if err = cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		output := stderr.String()
		logger.Debugf("[process] %q failed:\n%s", command.String(), output)
		return "", Classify(command.Host, output, fmt.Errorf("%s: %w: %s", command.String(), err, strings.TrimSpace(output)))
	}
	return stdout.String(), nil
}

//nolint:gochecknoglobals // fixed output signatures
var (
	transientMarkers = []string{
		"i/o timeout", "connection reset", "connection refused", "tls handshake timeout",
		"502 bad gateway", "503 service unavailable", "504 gateway", "temporary failure",
		"too many requests", "internal server error", "eof",
	}
	authenticationMarkers = []string{
		"401 unauthorized", "403 forbidden", "authentication failed", "authentication required",
		"could not read username", "terminal prompts disabled", "permission denied (publickey)",
		"invalid credentials",
	}
	resolvabilityMarkers = []string{
		"404 not found", "410 gone", "not found", "unknown revision", "no matching versions",
		"does not exist", "could not resolve", "repository not found", "no such host",
		"no available releases match", "invalid version", "unrecognized import path",
		"no go-import meta tags",
	}
)

// Classify maps tool output onto a collaborator error class.
func Classify(host, output string, err error) error {
	lower := strings.ToLower(output)
	switch {
	case containsAny(lower, transientMarkers):
		return entities.NewTransientError(host, err)
	case containsAny(lower, authenticationMarkers):
		return entities.NewAuthenticationError(host, err)
	case containsAny(lower, resolvabilityMarkers):
		return entities.NewResolvabilityError(host, err)
	default:
		return err
	}
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// FindBinary looks the tool up on PATH, then in the given fallback locations.
func FindBinary(name string, fallbacks ...string) (string, error) {
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	home, _ := os.UserHomeDir()
	for _, candidate := range fallbacks {
		if strings.HasPrefix(candidate, "~/") && home != "" {
			candidate = filepath.Join(home, candidate[2:])
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not in PATH or common locations", ErrBinaryNotFound, name)
}

// GitCredentialEnv rewrites https URLs of every credentialed host so git
// authenticates without prompting.
func GitCredentialEnv(credentials []entities.Credential) []string {
	var env []string
	count := 0
	for _, credential := range credentials {
		if credential.Host == "" || credential.Password == "" {
			continue
		}
		username := credential.Username
		if username == "" {
			username = "x-access-token"
		}
		index := strconv.Itoa(count)
		env = append(env,
			"GIT_CONFIG_KEY_"+index+"=url.https://"+username+":"+credential.Password+"@"+credential.Host+"/.insteadOf",
			"GIT_CONFIG_VALUE_"+index+"=https://"+credential.Host+"/",
		)
		count++
	}
	if count == 0 {
		return nil
	}
	return append(env, "GIT_CONFIG_COUNT="+strconv.Itoa(count))
}

// ErrBinaryNotFound is returned by ecosystems whose tool is not installed.
var ErrBinaryNotFound = errors.New("binary not found")

// ReadWorkFile reads a file a tool rewrote inside its working directory.
func ReadWorkFile(workDir, name string) (string, error) {
	content, err := os.ReadFile(filepath.Join(workDir, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("failed to read regenerated %q: %w", name, err)
	}
	return string(content), nil
}
