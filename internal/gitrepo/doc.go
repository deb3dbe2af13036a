// Package gitrepo contains helpers for manipulating local Git repositories.
//
// It exposes RepositoryManager for the clone, branch, commit, and push
// operations that the batch workflow performs, along with CommitIdentity for
// optional author overrides. Every operation runs through execshell with an
// explicit working directory and structured argument vectors.
package gitrepo
