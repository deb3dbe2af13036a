package batch

// OutcomeCode classifies what happened to a single repository during a run.
type OutcomeCode string

// Outcome codes reported by the orchestrators.
const (
	OutcomePullRequestOpened       OutcomeCode = "pull-request-opened"
	OutcomeDryRunSucceeded         OutcomeCode = "dry-run-succeeded"
	OutcomeSkippedBranchExists     OutcomeCode = "skipped-branch-exists"
	OutcomeSkippedMutationDeclined OutcomeCode = "skipped-mutation-declined"
	OutcomeSetupFailed             OutcomeCode = "setup-failed"
	OutcomeForkFailed              OutcomeCode = "fork-failed"
	OutcomeCloneFailed             OutcomeCode = "clone-failed"
	OutcomeMutationFailed          OutcomeCode = "mutation-failed"
	OutcomeCommitFailed            OutcomeCode = "commit-failed"
	OutcomePublishFailed           OutcomeCode = "publish-failed"
	OutcomeIssueOpened             OutcomeCode = "issue-opened"
	OutcomeIssueFailed             OutcomeCode = "issue-failed"
)

// RepositoryOutcome records the result for one repository.
type RepositoryOutcome struct {
	RepositoryName string
	Code           OutcomeCode
	PullRequestURL string
	IssueURL       string
	FailureCause   error
}
