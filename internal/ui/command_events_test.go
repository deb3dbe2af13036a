package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/astrofrog/batchpr/internal/execshell"
	"github.com/astrofrog/batchpr/internal/ui"
)

const (
	testCloneArgumentConstant      = "clone"
	testWorkspacePathConstant      = "/tmp/workspaces/demo"
	testFailureOutputConstant      = "fatal: repository not found"
	testExecutionFailureConstant   = "executable file not found"
	quietSuccessCaseNameConstant   = "quiet_success"
	verboseSuccessCaseNameConstant = "verbose_success"
)

func buildTestCommand() execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{testCloneArgumentConstant},
			WorkingDirectory: testWorkspacePathConstant,
		},
	}
}

func TestConsoleCommandEventLoggerSuccessVerbosity(testInstance *testing.T) {
	testCases := []struct {
		name             string
		verbose          bool
		expectedLogCount int
	}{
		{name: quietSuccessCaseNameConstant, verbose: false, expectedLogCount: 0},
		{name: verboseSuccessCaseNameConstant, verbose: true, expectedLogCount: 2},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.InfoLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore), testCase.verbose)

			command := buildTestCommand()
			eventLogger.CommandStarted(command)
			eventLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})

			require.Len(testInstance, observedLogs.All(), testCase.expectedLogCount)
		})
	}
}

func TestConsoleCommandEventLoggerReportsFailures(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.InfoLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore), false)

	command := buildTestCommand()
	eventLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 128, StandardError: testFailureOutputConstant})

	loggedEntries := observedLogs.All()
	require.Len(testInstance, loggedEntries, 1)
	require.Equal(testInstance, zap.WarnLevel, loggedEntries[0].Level)
	require.Contains(testInstance, loggedEntries[0].Message, testFailureOutputConstant)
	require.Contains(testInstance, loggedEntries[0].Message, testWorkspacePathConstant)
}

func TestConsoleCommandEventLoggerReportsExecutionFailures(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.InfoLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore), false)

	eventLogger.CommandExecutionFailed(buildTestCommand(), errors.New(testExecutionFailureConstant))

	loggedEntries := observedLogs.All()
	require.Len(testInstance, loggedEntries, 1)
	require.Equal(testInstance, zap.ErrorLevel, loggedEntries[0].Level)
	require.Contains(testInstance, loggedEntries[0].Message, testExecutionFailureConstant)
}
