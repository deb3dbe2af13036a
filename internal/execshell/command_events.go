package execshell

// CommandEventObserver receives lifecycle notifications for executed commands.
// Observers run synchronously on the executing goroutine. CommandExecutionFailed
// reports launch failures that never produced an ExecutionResult.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver keeps the executor's observer slot non-nil until an
// observer is registered.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand)                    {}
func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}
func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error)     {}
