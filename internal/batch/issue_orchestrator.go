package batch

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/astrofrog/batchpr/internal/githubapi"
)

const (
	issueClientMissingMessageConstant = "issue client not configured"
	issueTitleMissingMessageConstant  = "issue title must be provided"
	issueOpenedLogMessageConstant     = "issue opened"
	issueFailedLogMessageConstant     = "issue creation failed"
	logFieldIssueURLConstant          = "issue_url"
)

// Issue orchestrator construction sentinels.
var (
	ErrIssueClientNotConfigured = errors.New(issueClientMissingMessageConstant)
	ErrIssueTitleNotConfigured  = errors.New(issueTitleMissingMessageConstant)
)

// IssueClient covers the hosting operations the issue orchestrator performs.
type IssueClient interface {
	GetRepository(executionContext context.Context, fullName string) (githubapi.Repository, error)
	OpenIssue(executionContext context.Context, repository githubapi.Repository, title string, body string) (githubapi.Issue, error)
}

// IssueDependencies wires an IssueOrchestrator.
type IssueDependencies struct {
	Logger  *zap.Logger
	Client  IssueClient
	Sleeper Sleeper
}

// IssueRunOptions controls a single issue run.
type IssueRunOptions struct {
	Repositories []string
	Delay        time.Duration
	Title        string
	Body         string
}

// IssueOrchestrator opens the same issue on every listed repository. Failures
// are recorded per repository and never stop the run.
type IssueOrchestrator struct {
	logger  *zap.Logger
	client  IssueClient
	sleeper Sleeper
}

// NewIssueOrchestrator validates the dependencies and returns an orchestrator.
func NewIssueOrchestrator(dependencies IssueDependencies) (*IssueOrchestrator, error) {
	if dependencies.Client == nil {
		return nil, ErrIssueClientNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sleeper := dependencies.Sleeper
	if sleeper == nil {
		sleeper = SystemSleeper{}
	}

	return &IssueOrchestrator{logger: logger, client: dependencies.Client, sleeper: sleeper}, nil
}

// Run opens the configured issue on each repository sequentially.
func (orchestrator *IssueOrchestrator) Run(executionContext context.Context, options IssueRunOptions) ([]RepositoryOutcome, error) {
	if len(strings.TrimSpace(options.Title)) == 0 {
		return nil, ErrIssueTitleNotConfigured
	}

	outcomes := make([]RepositoryOutcome, 0, len(options.Repositories))
	for repositoryIndex, repositoryFullName := range options.Repositories {
		if repositoryIndex > 0 && options.Delay > 0 {
			orchestrator.sleeper.Sleep(options.Delay)
		}
		outcomes = append(outcomes, orchestrator.openIssue(executionContext, repositoryFullName, options.Title, options.Body))
	}
	return outcomes, nil
}

func (orchestrator *IssueOrchestrator) openIssue(executionContext context.Context, repositoryFullName string, title string, body string) RepositoryOutcome {
	repository, lookupError := orchestrator.client.GetRepository(executionContext, repositoryFullName)
	if lookupError != nil {
		return orchestrator.issueFailure(repositoryFullName, lookupError)
	}

	issue, creationError := orchestrator.client.OpenIssue(executionContext, repository, title, body)
	if creationError != nil {
		return orchestrator.issueFailure(repositoryFullName, creationError)
	}

	orchestrator.logger.Info(
		issueOpenedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryFullName),
		zap.String(logFieldIssueURLConstant, issue.HTMLURL),
	)
	return RepositoryOutcome{RepositoryName: repositoryFullName, Code: OutcomeIssueOpened, IssueURL: issue.HTMLURL}
}

func (orchestrator *IssueOrchestrator) issueFailure(repositoryFullName string, failure error) RepositoryOutcome {
	orchestrator.logger.Error(
		issueFailedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryFullName),
		zap.Error(failure),
	)
	return RepositoryOutcome{RepositoryName: repositoryFullName, Code: OutcomeIssueFailed, FailureCause: failure}
}
