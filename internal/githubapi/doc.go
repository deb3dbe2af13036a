// Package githubapi wraps the GitHub REST API for the batch workflow.
//
// Client resolves repository metadata, ensures forks, and opens draft pull
// requests and issues through google/go-github. It also probes the raw-content
// host for file existence checks that callers can use inside mutation
// callbacks.
package githubapi
