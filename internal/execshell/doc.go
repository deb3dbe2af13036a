// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines abstractions used throughout batchpr
// to run git and caller-supplied mutation scripts in a testable manner. All
// invocations carry explicit argument vectors; no shell interpretation occurs.
package execshell
