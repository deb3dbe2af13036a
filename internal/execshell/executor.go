package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedTemplateConstant             = "command %q failed with exit code %d%s"
	commandExecutionFailedTemplateConstant    = "command %q failed: %s"
	capturedOutputSuffixTemplateConstant      = ": %s"
	commandLabelJoinSeparatorConstant         = " "
	commandStartedLogMessageConstant          = "executing command"
	commandCompletedLogMessageConstant        = "command completed"
	commandFailedLogMessageConstant           = "command failed"
	logFieldCommandConstant                   = "command"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldOutputConstant                    = "output"
)

// CommandName identifies a supported executable.
type CommandName string

// Supported executable enumerations.
const (
	CommandGit CommandName = CommandName("git")
)

// CommandDetails describes a single tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand combines a CommandName with specific invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CombinedOutput merges standard output and standard error for diagnostics.
func (result ExecutionResult) CombinedOutput() string {
	segments := make([]string, 0, 2)
	trimmedStandardOutput := strings.TrimSpace(result.StandardOutput)
	if len(trimmedStandardOutput) > 0 {
		segments = append(segments, trimmedStandardOutput)
	}
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) > 0 {
		segments = append(segments, trimmedStandardError)
	}
	return strings.Join(segments, "\n")
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command, its exit code, and the captured output.
func (failure CommandFailedError) Error() string {
	outputSuffix := ""
	combinedOutput := failure.Result.CombinedOutput()
	if len(combinedOutput) > 0 {
		outputSuffix = fmt.Sprintf(capturedOutputSuffixTemplateConstant, combinedOutput)
	}
	return fmt.Sprintf(commandFailedTemplateConstant, failure.Command.Label(), failure.Result.ExitCode, outputSuffix)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, failure.Command.Label(), failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// Label renders the command as the invoked executable followed by its arguments.
func (command ShellCommand) Label() string {
	labelParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(labelParts, commandLabelJoinSeparatorConstant)
}

// ShellExecutor coordinates command execution with structured logging and
// lifecycle observation. Successful commands log quietly at debug level;
// failures carry the failing command and its captured output.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor from the provided collaborators.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, runner: runner, observer: noopCommandEventObserver{}}, nil
}

// RegisterObserver installs a lifecycle observer; nil restores the no-op observer.
func (executor *ShellExecutor) RegisterObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.observer = noopCommandEventObserver{}
		return
	}
	executor.observer = observer
}

// Execute runs the supplied command and classifies the result by exit code.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.observer.CommandStarted(command)
	executor.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandConstant, command.Label()),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, executionError := executor.runner.Run(executionContext, command)
	if executionError != nil {
		executor.observer.CommandExecutionFailed(command, executionError)
		executor.logger.Error(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandConstant, command.Label()),
			zap.Error(executionError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: executionError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Error(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandConstant, command.Label()),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
			zap.String(logFieldOutputConstant, executionResult.CombinedOutput()),
		)
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandConstant, command.Label()),
		zap.String(logFieldOutputConstant, executionResult.CombinedOutput()),
	)
	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}
