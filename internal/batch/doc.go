// Package batch orchestrates a change proposal across many repositories.
//
// Orchestrator walks a repository list sequentially: it resolves metadata,
// ensures a fork, prepares a workspace on a feature branch, runs the
// configured Workflow, commits, pushes, and opens a draft pull request.
// IssueOrchestrator is the lighter sibling that only opens issues. Both report
// a RepositoryOutcome per repository instead of failing the whole run on
// routine per-repository errors.
package batch
