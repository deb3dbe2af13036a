package batch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astrofrog/batchpr/internal/batch"
	"github.com/astrofrog/batchpr/internal/execshell"
	"github.com/astrofrog/batchpr/internal/workspace"
)

const (
	scriptPathConstant         = "/usr/local/bin/apply-change"
	scriptArgumentConstant     = "--strict"
	workspaceDirectoryConstant = "/tmp/batchpr-1/example"
)

type stubScriptExecutor struct {
	executedCommands []execshell.ShellCommand
	executionError   error
}

func (executor *stubScriptExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.executedCommands = append(executor.executedCommands, command)
	if executor.executionError != nil {
		return execshell.ExecutionResult{}, executor.executionError
	}
	return execshell.ExecutionResult{}, nil
}

func scriptWorkflowOptionsFixture() batch.ScriptWorkflowOptions {
	return batch.ScriptWorkflowOptions{
		ScriptPath:      scriptPathConstant,
		ScriptArguments: []string{scriptArgumentConstant},
		Branch:          featureBranchConstant,
		Message:         commitMessageConstant,
		Title:           pullRequestTitleConstant,
		Body:            pullRequestBodyConstant,
	}
}

func TestNewScriptWorkflowValidatesOptions(testInstance *testing.T) {
	executor := &stubScriptExecutor{}

	testCases := []struct {
		name          string
		mutate        func(options *batch.ScriptWorkflowOptions)
		expectedError error
	}{
		{
			name:          "missing_script",
			mutate:        func(options *batch.ScriptWorkflowOptions) { options.ScriptPath = " " },
			expectedError: batch.ErrScriptPathNotConfigured,
		},
		{
			name:          "missing_branch",
			mutate:        func(options *batch.ScriptWorkflowOptions) { options.Branch = "" },
			expectedError: batch.ErrBranchNameNotConfigured,
		},
		{
			name:          "missing_message",
			mutate:        func(options *batch.ScriptWorkflowOptions) { options.Message = "" },
			expectedError: batch.ErrCommitMessageNotConfigured,
		},
		{
			name:          "missing_title",
			mutate:        func(options *batch.ScriptWorkflowOptions) { options.Title = "" },
			expectedError: batch.ErrTitleNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			options := scriptWorkflowOptionsFixture()
			testCase.mutate(&options)
			_, workflowError := batch.NewScriptWorkflow(executor, options)
			require.ErrorIs(subtestInstance, workflowError, testCase.expectedError)
		})
	}

	_, workflowError := batch.NewScriptWorkflow(nil, scriptWorkflowOptionsFixture())
	require.ErrorIs(testInstance, workflowError, batch.ErrScriptExecutorNotConfigured)
}

func TestScriptWorkflowRunsScriptInsideWorkspace(testInstance *testing.T) {
	executor := &stubScriptExecutor{}
	workflow, workflowError := batch.NewScriptWorkflow(executor, scriptWorkflowOptionsFixture())
	require.NoError(testInstance, workflowError)

	approved, processError := workflow.ProcessRepository(context.Background(), &workspace.Workspace{Directory: workspaceDirectoryConstant})
	require.NoError(testInstance, processError)
	require.True(testInstance, approved)

	require.Len(testInstance, executor.executedCommands, 1)
	executedCommand := executor.executedCommands[0]
	require.Equal(testInstance, scriptPathConstant, string(executedCommand.Name))
	require.Equal(testInstance, []string{scriptArgumentConstant}, executedCommand.Details.Arguments)
	require.Equal(testInstance, workspaceDirectoryConstant, executedCommand.Details.WorkingDirectory)
}

func TestScriptWorkflowDeclinesOnNonZeroExit(testInstance *testing.T) {
	executor := &stubScriptExecutor{executionError: execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandName(scriptPathConstant)},
		Result:  execshell.ExecutionResult{ExitCode: 3},
	}}
	workflow, workflowError := batch.NewScriptWorkflow(executor, scriptWorkflowOptionsFixture())
	require.NoError(testInstance, workflowError)

	approved, processError := workflow.ProcessRepository(context.Background(), &workspace.Workspace{Directory: workspaceDirectoryConstant})
	require.NoError(testInstance, processError)
	require.False(testInstance, approved)
}

func TestScriptWorkflowSurfacesLaunchFailures(testInstance *testing.T) {
	launchFailure := execshell.CommandExecutionError{
		Command: execshell.ShellCommand{Name: execshell.CommandName(scriptPathConstant)},
		Cause:   errors.New("permission denied"),
	}
	executor := &stubScriptExecutor{executionError: launchFailure}
	workflow, workflowError := batch.NewScriptWorkflow(executor, scriptWorkflowOptionsFixture())
	require.NoError(testInstance, workflowError)

	approved, processError := workflow.ProcessRepository(context.Background(), &workspace.Workspace{Directory: workspaceDirectoryConstant})
	require.Error(testInstance, processError)
	require.False(testInstance, approved)
}

func TestScriptWorkflowExposesProposalMetadata(testInstance *testing.T) {
	workflow, workflowError := batch.NewScriptWorkflow(&stubScriptExecutor{}, scriptWorkflowOptionsFixture())
	require.NoError(testInstance, workflowError)

	require.Equal(testInstance, featureBranchConstant, workflow.BranchName())
	require.Equal(testInstance, commitMessageConstant, workflow.CommitMessage())
	require.Equal(testInstance, pullRequestTitleConstant, workflow.PullRequestTitle())
	require.Equal(testInstance, pullRequestBodyConstant, workflow.PullRequestBody())
}
