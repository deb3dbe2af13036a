package gitrepo

import (
	"errors"
	"strings"
)

const (
	authorEmailRequiredMessageConstant = "author email must be provided with author name"
)

// ErrAuthorEmailRequired indicates an author name was supplied without an email.
var ErrAuthorEmailRequired = errors.New(authorEmailRequiredMessageConstant)

// CommitIdentity optionally overrides the author recorded on workflow commits.
// The zero value leaves the repository's configured identity untouched.
type CommitIdentity struct {
	AuthorName  string
	AuthorEmail string
}

// Validate confirms the identity pair is usable: an author name demands an
// accompanying author email.
func (identity CommitIdentity) Validate() error {
	hasAuthorName := len(strings.TrimSpace(identity.AuthorName)) > 0
	hasAuthorEmail := len(strings.TrimSpace(identity.AuthorEmail)) > 0
	if hasAuthorName && !hasAuthorEmail {
		return ErrAuthorEmailRequired
	}
	return nil
}

// IsConfigured reports whether the identity overrides the default author.
func (identity CommitIdentity) IsConfigured() bool {
	return len(strings.TrimSpace(identity.AuthorName)) > 0 && len(strings.TrimSpace(identity.AuthorEmail)) > 0
}
