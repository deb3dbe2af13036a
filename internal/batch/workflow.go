package batch

import (
	"context"
	"errors"
	"strings"

	"github.com/astrofrog/batchpr/internal/execshell"
	"github.com/astrofrog/batchpr/internal/workspace"
)

const (
	scriptPathMissingMessageConstant     = "mutation script path must be provided"
	branchNameMissingMessageConstant     = "branch name must be provided"
	commitMessageMissingMessageConstant  = "commit message must be provided"
	titleMissingMessageConstant          = "pull request title must be provided"
	scriptExecutorMissingMessageConstant = "script executor not configured"
)

// Sentinel errors for workflow construction.
var (
	ErrScriptPathNotConfigured     = errors.New(scriptPathMissingMessageConstant)
	ErrBranchNameNotConfigured     = errors.New(branchNameMissingMessageConstant)
	ErrCommitMessageNotConfigured  = errors.New(commitMessageMissingMessageConstant)
	ErrTitleNotConfigured          = errors.New(titleMissingMessageConstant)
	ErrScriptExecutorNotConfigured = errors.New(scriptExecutorMissingMessageConstant)
)

// Workflow supplies the mutation and the metadata attached to its proposal.
// ProcessRepository returns false without an error to decline the mutation
// for the current repository.
type Workflow interface {
	ProcessRepository(executionContext context.Context, repositoryWorkspace *workspace.Workspace) (bool, error)
	BranchName() string
	CommitMessage() string
	PullRequestTitle() string
	PullRequestBody() string
}

// ScriptExecutor runs arbitrary commands; satisfied by execshell.ShellExecutor.
type ScriptExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// ScriptWorkflowOptions configures a ScriptWorkflow.
type ScriptWorkflowOptions struct {
	ScriptPath      string
	ScriptArguments []string
	Branch          string
	Message         string
	Title           string
	Body            string
}

// ScriptWorkflow implements Workflow by running a configured executable inside
// each workspace. A zero exit approves the mutation; a non-zero exit declines
// it; a launch failure is a real error.
type ScriptWorkflow struct {
	executor        ScriptExecutor
	scriptPath      string
	scriptArguments []string
	branch          string
	message         string
	title           string
	body            string
}

// NewScriptWorkflow validates the options and returns a ScriptWorkflow.
func NewScriptWorkflow(executor ScriptExecutor, options ScriptWorkflowOptions) (*ScriptWorkflow, error) {
	if executor == nil {
		return nil, ErrScriptExecutorNotConfigured
	}
	if len(strings.TrimSpace(options.ScriptPath)) == 0 {
		return nil, ErrScriptPathNotConfigured
	}
	if len(strings.TrimSpace(options.Branch)) == 0 {
		return nil, ErrBranchNameNotConfigured
	}
	if len(strings.TrimSpace(options.Message)) == 0 {
		return nil, ErrCommitMessageNotConfigured
	}
	if len(strings.TrimSpace(options.Title)) == 0 {
		return nil, ErrTitleNotConfigured
	}

	return &ScriptWorkflow{
		executor:        executor,
		scriptPath:      options.ScriptPath,
		scriptArguments: append([]string{}, options.ScriptArguments...),
		branch:          options.Branch,
		message:         options.Message,
		title:           options.Title,
		body:            options.Body,
	}, nil
}

// ProcessRepository runs the script with the workspace as working directory.
func (workflow *ScriptWorkflow) ProcessRepository(executionContext context.Context, repositoryWorkspace *workspace.Workspace) (bool, error) {
	scriptCommand := execshell.ShellCommand{
		Name: execshell.CommandName(workflow.scriptPath),
		Details: execshell.CommandDetails{
			Arguments:        append([]string{}, workflow.scriptArguments...),
			WorkingDirectory: repositoryWorkspace.Directory,
		},
	}

	_, executionError := workflow.executor.Execute(executionContext, scriptCommand)
	if executionError == nil {
		return true, nil
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		return false, nil
	}
	return false, executionError
}

// BranchName returns the feature branch the workflow proposes on.
func (workflow *ScriptWorkflow) BranchName() string {
	return workflow.branch
}

// CommitMessage returns the commit message for approved mutations.
func (workflow *ScriptWorkflow) CommitMessage() string {
	return workflow.message
}

// PullRequestTitle returns the proposal title.
func (workflow *ScriptWorkflow) PullRequestTitle() string {
	return workflow.title
}

// PullRequestBody returns the proposal body.
func (workflow *ScriptWorkflow) PullRequestBody() string {
	return workflow.body
}
