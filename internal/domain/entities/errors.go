package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDependencyFileNotFound             = errors.New("dependency file not found")
	ErrPrivateSourceAuthenticationFailure = errors.New("private source authentication failure")
	ErrDependencyNotResolvable            = errors.New("dependency not resolvable")
	ErrAllVersionsIgnored                 = errors.New("all versions ignored")
	ErrAmbiguousDeclaration               = errors.New("ambiguous declaration")
	ErrNoChangeDetected                   = errors.New("no change detected")
	ErrTransientNetwork                   = errors.New("transient network failure")
)

// UpdateError is what the pipeline surfaces to callers: a taxonomy kind plus
// enough context for a human-readable report. The wrapped cause is reachable
// through errors.Is/As but is not part of the message.
type UpdateError struct {
	Kind                error
	Dependency          string
	File                string
	Host                string
	CredentialsSupplied bool
	Err                 error
}

func (e *UpdateError) Error() string {
	parts := []string{e.Kind.Error()}
	if e.Dependency != "" {
		parts = append(parts, fmt.Sprintf("dependency %q", e.Dependency))
	}
	if e.File != "" {
		parts = append(parts, fmt.Sprintf("file %q", e.File))
	}
	if e.Host != "" {
		host := fmt.Sprintf("host %q", e.Host)
		if errors.Is(e.Kind, ErrDependencyNotResolvable) && !e.CredentialsSupplied {
			host += " (no credentials supplied)"
		}
		parts = append(parts, host)
	}
	return strings.Join(parts, ", ")
}

func (e *UpdateError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorClass is how a collaborator classifies its own failure.
type ErrorClass int

const (
	ErrorClassOther ErrorClass = iota
	ErrorClassTransient
	ErrorClassResolvability
	ErrorClassAuthentication
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassTransient:
		return "transient"
	case ErrorClassResolvability:
		return "resolvability"
	case ErrorClassAuthentication:
		return "authentication"
	default:
		return "other"
	}
}

// CollaboratorError is returned by catalogs, hosts and external tools so the domain
// can decide on retries and translation without looking at message text.
type CollaboratorError struct {
	Class ErrorClass
	Host  string
	Err   error
}

func NewTransientError(host string, err error) *CollaboratorError {
	return &CollaboratorError{Class: ErrorClassTransient, Host: host, Err: err}
}

func NewResolvabilityError(host string, err error) *CollaboratorError {
	return &CollaboratorError{Class: ErrorClassResolvability, Host: host, Err: err}
}

func NewAuthenticationError(host string, err error) *CollaboratorError {
	return &CollaboratorError{Class: ErrorClassAuthentication, Host: host, Err: err}
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failure on %q: %v", e.Class, e.Host, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// Is lets transient collaborator failures match ErrTransientNetwork.
func (e *CollaboratorError) Is(target error) bool {
	return target == ErrTransientNetwork && e.Class == ErrorClassTransient
}

// ClassOf returns the class of err, ErrorClassOther when it is not a collaborator error.
func ClassOf(err error) (*CollaboratorError, ErrorClass) {
	var collaboratorErr *CollaboratorError
	if errors.As(err, &collaboratorErr) {
		return collaboratorErr, collaboratorErr.Class
	}
	return nil, ErrorClassOther
}

// TranslateCollaboratorError maps a classified failure into the update taxonomy.
// Transient failures that reach this point have exhausted their retries and surface
// as their underlying cause.
func TranslateCollaboratorError(err error, dependency string, credentials []Credential) error {
	collaboratorErr, class := ClassOf(err)
	switch class {
	case ErrorClassResolvability:
		_, supplied := CredentialFor(credentials, collaboratorErr.Host)
		return &UpdateError{
			Kind:                ErrDependencyNotResolvable,
			Dependency:          dependency,
			Host:                collaboratorErr.Host,
			CredentialsSupplied: supplied,
			Err:                 collaboratorErr.Err,
		}
	case ErrorClassAuthentication:
		return &UpdateError{
			Kind:       ErrPrivateSourceAuthenticationFailure,
			Dependency: dependency,
			Host:       collaboratorErr.Host,
			Err:        collaboratorErr.Err,
		}
	case ErrorClassTransient:
		return collaboratorErr.Err
	default:
		return err
	}
}
