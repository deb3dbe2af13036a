package githubapi

import "fmt"

const (
	repositoryLookupErrorTemplateConstant = "failed to resolve repository %s: %v"
	forkCreationErrorTemplateConstant     = "failed to ensure fork of %s: %v"
	requestCreationErrorTemplateConstant  = "failed to open %s against %s: %v"
)

// RepositoryLookupError reports a failure to resolve repository metadata.
type RepositoryLookupError struct {
	FullName string
	Cause    error
}

// Error describes the lookup failure.
func (lookupError *RepositoryLookupError) Error() string {
	return fmt.Sprintf(repositoryLookupErrorTemplateConstant, lookupError.FullName, lookupError.Cause)
}

// Unwrap exposes the underlying cause.
func (lookupError *RepositoryLookupError) Unwrap() error {
	return lookupError.Cause
}

// ForkCreationError reports a failure to create or resolve a fork.
type ForkCreationError struct {
	FullName string
	Cause    error
}

// Error describes the fork failure.
func (forkError *ForkCreationError) Error() string {
	return fmt.Sprintf(forkCreationErrorTemplateConstant, forkError.FullName, forkError.Cause)
}

// Unwrap exposes the underlying cause.
func (forkError *ForkCreationError) Unwrap() error {
	return forkError.Cause
}

// RequestCreationError reports a failure to open a pull request or issue.
type RequestCreationError struct {
	Kind     string
	FullName string
	Cause    error
}

// Error describes the creation failure.
func (creationError *RequestCreationError) Error() string {
	return fmt.Sprintf(requestCreationErrorTemplateConstant, creationError.Kind, creationError.FullName, creationError.Cause)
}

// Unwrap exposes the underlying cause.
func (creationError *RequestCreationError) Unwrap() error {
	return creationError.Cause
}
