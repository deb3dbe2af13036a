package batch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/astrofrog/batchpr/internal/githubapi"
	"github.com/astrofrog/batchpr/internal/gitrepo"
	"github.com/astrofrog/batchpr/internal/workspace"
)

const (
	repositoryClientMissingMessageConstant   = "repository client not configured"
	workspaceBuilderMissingMessageConstant   = "workspace builder not configured"
	gitManagerMissingMessageConstant         = "git repository manager not configured"
	workflowMissingMessageConstant           = "workflow not configured"
	temporaryDirectoryPatternConstant        = "batchpr-"
	headReferenceSeparatorConstant           = ":"
	repositoryStartedLogMessageConstant      = "processing repository"
	repositorySkippedLogMessageConstant      = "feature branch already exists"
	mutationDeclinedLogMessageConstant       = "mutation declined; terminating batch"
	pullRequestOpenedLogMessageConstant      = "pull request opened"
	dryRunLogMessageConstant                 = "dry run; skipping push and pull request"
	repositoryFailedLogMessageConstant       = "repository processing failed"
	directoryRestoreFailedLogMessageConstant = "failed to restore working directory"
	logFieldRepositoryConstant               = "repository"
	logFieldBranchConstant                   = "branch"
	logFieldPullRequestURLConstant           = "pull_request_url"
	logFieldOutcomeConstant                  = "outcome"
	logFieldDirectoryConstant                = "directory"
)

// Orchestrator construction sentinels.
var (
	ErrRepositoryClientNotConfigured = errors.New(repositoryClientMissingMessageConstant)
	ErrWorkspaceBuilderNotConfigured = errors.New(workspaceBuilderMissingMessageConstant)
	ErrGitManagerNotConfigured       = errors.New(gitManagerMissingMessageConstant)
	ErrWorkflowNotConfigured         = errors.New(workflowMissingMessageConstant)
)

// RepositoryClient covers the hosting operations the orchestrator performs.
type RepositoryClient interface {
	GetRepository(executionContext context.Context, fullName string) (githubapi.Repository, error)
	GetAuthenticatedUser(executionContext context.Context) (githubapi.Account, error)
	EnsureFork(executionContext context.Context, repository githubapi.Repository, account githubapi.Account) (githubapi.Repository, error)
	OpenPullRequest(executionContext context.Context, repository githubapi.Repository, headReference string, title string, body string) (githubapi.PullRequest, error)
	AuthenticatedCloneURL(repository githubapi.Repository, login string) (string, error)
}

// WorkspaceBuilder prepares checkouts for the workflow.
type WorkspaceBuilder interface {
	Build(executionContext context.Context, request workspace.BuildRequest) (workspace.BuildOutcome, error)
}

// CommitPublisher covers the git operations that happen after the workflow.
type CommitPublisher interface {
	Commit(executionContext context.Context, repositoryPath string, commitMessage string, identity gitrepo.CommitIdentity) error
	PushBranch(executionContext context.Context, repositoryPath string, remoteURL string, branchName string) error
}

// Dependencies wires an Orchestrator.
type Dependencies struct {
	Logger              *zap.Logger
	Client              RepositoryClient
	WorkspaceBuilder    WorkspaceBuilder
	GitManager          CommitPublisher
	Workflow            Workflow
	Sleeper             Sleeper
	DirectoryController DirectoryController
	Identity            gitrepo.CommitIdentity
}

// RunOptions controls a single batch run.
type RunOptions struct {
	Repositories []string
	Delay        time.Duration
	DryRun       bool
}

// Orchestrator drives the propose workflow across a repository list.
type Orchestrator struct {
	logger      *zap.Logger
	client      RepositoryClient
	builder     WorkspaceBuilder
	gitManager  CommitPublisher
	workflow    Workflow
	sleeper     Sleeper
	directories DirectoryController
	identity    gitrepo.CommitIdentity
}

// NewOrchestrator validates the dependencies, including the commit identity,
// before any network or git work can happen.
func NewOrchestrator(dependencies Dependencies) (*Orchestrator, error) {
	if dependencies.Client == nil {
		return nil, ErrRepositoryClientNotConfigured
	}
	if dependencies.WorkspaceBuilder == nil {
		return nil, ErrWorkspaceBuilderNotConfigured
	}
	if dependencies.GitManager == nil {
		return nil, ErrGitManagerNotConfigured
	}
	if dependencies.Workflow == nil {
		return nil, ErrWorkflowNotConfigured
	}
	if identityError := dependencies.Identity.Validate(); identityError != nil {
		return nil, identityError
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sleeper := dependencies.Sleeper
	if sleeper == nil {
		sleeper = SystemSleeper{}
	}
	directories := dependencies.DirectoryController
	if directories == nil {
		directories = OSDirectoryController{}
	}

	return &Orchestrator{
		logger:      logger,
		client:      dependencies.Client,
		builder:     dependencies.WorkspaceBuilder,
		gitManager:  dependencies.GitManager,
		workflow:    dependencies.Workflow,
		sleeper:     sleeper,
		directories: directories,
		identity:    dependencies.Identity,
	}, nil
}

// Run processes the repositories sequentially with the configured delay
// between them. Routine per-repository failures are recorded and the run
// continues; a declined mutation stops the run after its outcome is recorded,
// and mutation or commit errors abort the run with the error returned
// alongside the outcomes gathered so far.
func (orchestrator *Orchestrator) Run(executionContext context.Context, options RunOptions) ([]RepositoryOutcome, error) {
	originalDirectory, directoryError := orchestrator.directories.CurrentDirectory()
	if directoryError != nil {
		return nil, directoryError
	}

	account, accountError := orchestrator.client.GetAuthenticatedUser(executionContext)
	if accountError != nil {
		return nil, accountError
	}

	outcomes := make([]RepositoryOutcome, 0, len(options.Repositories))
	for repositoryIndex, repositoryFullName := range options.Repositories {
		if repositoryIndex > 0 && options.Delay > 0 {
			orchestrator.sleeper.Sleep(options.Delay)
		}

		outcome, haltError := orchestrator.processRepository(executionContext, repositoryFullName, account, originalDirectory, options.DryRun)
		outcomes = append(outcomes, outcome)
		if haltError != nil {
			return outcomes, haltError
		}
		if outcome.Code == OutcomeSkippedMutationDeclined {
			orchestrator.logger.Warn(
				mutationDeclinedLogMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryFullName),
			)
			break
		}
	}
	return outcomes, nil
}

func (orchestrator *Orchestrator) processRepository(executionContext context.Context, repositoryFullName string, account githubapi.Account, originalDirectory string, dryRun bool) (RepositoryOutcome, error) {
	orchestrator.logger.Info(
		repositoryStartedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryFullName),
		zap.String(logFieldBranchConstant, orchestrator.workflow.BranchName()),
	)

	repository, lookupError := orchestrator.client.GetRepository(executionContext, repositoryFullName)
	if lookupError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomeSetupFailed, lookupError), nil
	}

	fork, forkError := orchestrator.client.EnsureFork(executionContext, repository, account)
	if forkError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomeForkFailed, forkError), nil
	}
	forkCloneURL, cloneURLError := orchestrator.client.AuthenticatedCloneURL(fork, account.Login)
	if cloneURLError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomeForkFailed, cloneURLError), nil
	}

	rootDirectory, temporaryDirectoryError := orchestrator.directories.CreateTemporaryDirectory(temporaryDirectoryPatternConstant)
	if temporaryDirectoryError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomeCloneFailed, temporaryDirectoryError), nil
	}

	buildOutcome, buildError := orchestrator.builder.Build(executionContext, workspace.BuildRequest{
		RootDirectory:    rootDirectory,
		RepositoryName:   repository.Name,
		ForkCloneURL:     forkCloneURL,
		UpstreamCloneURL: repository.CloneURL,
		DefaultBranch:    repository.DefaultBranch,
		BranchName:       orchestrator.workflow.BranchName(),
	})
	if buildError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomeCloneFailed, buildError), nil
	}
	if buildOutcome.BranchAlreadyExists {
		orchestrator.logger.Info(
			repositorySkippedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryFullName),
			zap.String(logFieldBranchConstant, orchestrator.workflow.BranchName()),
		)
		return RepositoryOutcome{RepositoryName: repositoryFullName, Code: OutcomeSkippedBranchExists}, nil
	}

	repositoryWorkspace := buildOutcome.Workspace
	if changeError := orchestrator.directories.ChangeDirectory(repositoryWorkspace.Directory); changeError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomeCloneFailed, changeError), nil
	}
	defer func() {
		if restoreError := orchestrator.directories.ChangeDirectory(originalDirectory); restoreError != nil {
			orchestrator.logger.Warn(
				directoryRestoreFailedLogMessageConstant,
				zap.String(logFieldDirectoryConstant, originalDirectory),
				zap.Error(restoreError),
			)
		}
	}()

	approved, workflowError := orchestrator.workflow.ProcessRepository(executionContext, repositoryWorkspace)
	if workflowError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomeMutationFailed, workflowError), workflowError
	}
	if !approved {
		return RepositoryOutcome{RepositoryName: repositoryFullName, Code: OutcomeSkippedMutationDeclined}, nil
	}

	commitError := orchestrator.gitManager.Commit(executionContext, repositoryWorkspace.Directory, orchestrator.workflow.CommitMessage(), orchestrator.identity)
	if commitError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomeCommitFailed, commitError), commitError
	}

	if dryRun {
		orchestrator.logger.Info(
			dryRunLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryFullName),
		)
		return RepositoryOutcome{RepositoryName: repositoryFullName, Code: OutcomeDryRunSucceeded}, nil
	}

	pushError := orchestrator.gitManager.PushBranch(executionContext, repositoryWorkspace.Directory, forkCloneURL, orchestrator.workflow.BranchName())
	if pushError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomePublishFailed, pushError), nil
	}

	headReference := account.Login + headReferenceSeparatorConstant + orchestrator.workflow.BranchName()
	pullRequest, pullRequestError := orchestrator.client.OpenPullRequest(
		executionContext,
		repository,
		headReference,
		orchestrator.workflow.PullRequestTitle(),
		orchestrator.workflow.PullRequestBody(),
	)
	if pullRequestError != nil {
		return orchestrator.failureOutcome(repositoryFullName, OutcomePublishFailed, pullRequestError), nil
	}

	orchestrator.logger.Info(
		pullRequestOpenedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryFullName),
		zap.String(logFieldPullRequestURLConstant, pullRequest.HTMLURL),
	)
	return RepositoryOutcome{
		RepositoryName: repositoryFullName,
		Code:           OutcomePullRequestOpened,
		PullRequestURL: pullRequest.HTMLURL,
	}, nil
}

func (orchestrator *Orchestrator) failureOutcome(repositoryFullName string, code OutcomeCode, failure error) RepositoryOutcome {
	orchestrator.logger.Error(
		repositoryFailedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryFullName),
		zap.String(logFieldOutcomeConstant, string(code)),
		zap.Error(failure),
	)
	return RepositoryOutcome{RepositoryName: repositoryFullName, Code: code, FailureCause: failure}
}
