package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/astrofrog/batchpr/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	cloneFailureTemplateConstant                = "failed to clone %s: %w"
	checkoutFailureTemplateConstant             = "failed to checkout %q: %w"
	remoteAdditionFailureTemplateConstant       = "failed to add remote %s: %w"
	fetchFailureTemplateConstant                = "failed to fetch remote %s: %w"
	branchCreationFailureTemplateConstant       = "failed to create branch %q: %w"
	submoduleFailureTemplateConstant            = "failed to prepare submodules: %w"
	stageFailureTemplateConstant                = "failed to stage %s: %w"
	removalFailureTemplateConstant              = "failed to remove %s: %w"
	commitFailureTemplateConstant               = "failed to commit changes: %w"
	pushFailureTemplateConstant                 = "failed to push branch %q: %w"
	gitCloneSubcommandConstant                  = "clone"
	gitCloneDepthFlagConstant                   = "--depth"
	gitCloneDepthValueConstant                  = "1"
	gitCheckoutSubcommandConstant               = "checkout"
	gitCheckoutNewBranchFlagConstant            = "-b"
	gitRemoteSubcommandConstant                 = "remote"
	gitRemoteAddSubcommandConstant              = "add"
	gitFetchSubcommandConstant                  = "fetch"
	gitSubmoduleSubcommandConstant              = "submodule"
	gitSubmoduleInitSubcommandConstant          = "init"
	gitSubmoduleUpdateSubcommandConstant        = "update"
	gitAddSubcommandConstant                    = "add"
	gitRemoveSubcommandConstant                 = "rm"
	gitCommitSubcommandConstant                 = "commit"
	gitConfigurationFlagConstant                = "-c"
	gitMessageFlagConstant                      = "-m"
	gitPushSubcommandConstant                   = "push"
	gitUserNameConfigurationTemplateConstant    = "user.name=%s"
	gitUserEmailConfigurationTemplateConstant   = "user.email=%s"
	pathJoinSeparatorConstant                   = ", "
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
)

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs local git operations for the batch workflow.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CloneShallow clones the repository at cloneURL into targetDirectory with depth 1.
// Only a fresh branch off the upstream tip is needed, never full history.
func (manager *RepositoryManager) CloneShallow(executionContext context.Context, cloneURL string, targetDirectory string) error {
	cloneError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, gitCloneDepthFlagConstant, gitCloneDepthValueConstant, cloneURL, targetDirectory},
	})
	if cloneError != nil {
		return fmt.Errorf(cloneFailureTemplateConstant, cloneURL, cloneError)
	}
	return nil
}

// CheckoutReference checks out the provided branch or remote reference.
func (manager *RepositoryManager) CheckoutReference(executionContext context.Context, repositoryPath string, reference string) error {
	checkoutError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, reference},
		WorkingDirectory: repositoryPath,
	})
	if checkoutError != nil {
		return fmt.Errorf(checkoutFailureTemplateConstant, reference, checkoutError)
	}
	return nil
}

// CreateBranch creates and checks out a new local branch at the current HEAD.
func (manager *RepositoryManager) CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	creationError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, gitCheckoutNewBranchFlagConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	if creationError != nil {
		return fmt.Errorf(branchCreationFailureTemplateConstant, branchName, creationError)
	}
	return nil
}

// AddRemote registers remoteURL under remoteName.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	additionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL},
		WorkingDirectory: repositoryPath,
	})
	if additionError != nil {
		return fmt.Errorf(remoteAdditionFailureTemplateConstant, remoteName, additionError)
	}
	return nil
}

// FetchRemote retrieves refs from the named remote.
func (manager *RepositoryManager) FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	fetchError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitFetchSubcommandConstant, remoteName},
		WorkingDirectory: repositoryPath,
	})
	if fetchError != nil {
		return fmt.Errorf(fetchFailureTemplateConstant, remoteName, fetchError)
	}
	return nil
}

// PrepareSubmodules initializes and updates submodules; a no-op when the
// repository declares none.
func (manager *RepositoryManager) PrepareSubmodules(executionContext context.Context, repositoryPath string) error {
	initializationError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitSubmoduleSubcommandConstant, gitSubmoduleInitSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	if initializationError != nil {
		return fmt.Errorf(submoduleFailureTemplateConstant, initializationError)
	}

	updateError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitSubmoduleSubcommandConstant, gitSubmoduleUpdateSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	if updateError != nil {
		return fmt.Errorf(submoduleFailureTemplateConstant, updateError)
	}
	return nil
}

// StageFiles adds the provided paths to the git staging area.
func (manager *RepositoryManager) StageFiles(executionContext context.Context, repositoryPath string, paths ...string) error {
	stageError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        append([]string{gitAddSubcommandConstant}, paths...),
		WorkingDirectory: repositoryPath,
	})
	if stageError != nil {
		return fmt.Errorf(stageFailureTemplateConstant, strings.Join(paths, pathJoinSeparatorConstant), stageError)
	}
	return nil
}

// RemoveFiles removes the provided paths from version control.
func (manager *RepositoryManager) RemoveFiles(executionContext context.Context, repositoryPath string, paths ...string) error {
	removalError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        append([]string{gitRemoveSubcommandConstant}, paths...),
		WorkingDirectory: repositoryPath,
	})
	if removalError != nil {
		return fmt.Errorf(removalFailureTemplateConstant, strings.Join(paths, pathJoinSeparatorConstant), removalError)
	}
	return nil
}

// Commit records the staged changes, optionally overriding the commit author.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, commitMessage string, identity CommitIdentity) error {
	commitArguments := []string{}
	if identity.IsConfigured() {
		commitArguments = append(commitArguments,
			gitConfigurationFlagConstant, fmt.Sprintf(gitUserNameConfigurationTemplateConstant, identity.AuthorName),
			gitConfigurationFlagConstant, fmt.Sprintf(gitUserEmailConfigurationTemplateConstant, identity.AuthorEmail),
		)
	}
	commitArguments = append(commitArguments, gitCommitSubcommandConstant, gitMessageFlagConstant, commitMessage)

	commitError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        commitArguments,
		WorkingDirectory: repositoryPath,
	})
	if commitError != nil {
		return fmt.Errorf(commitFailureTemplateConstant, commitError)
	}
	return nil
}

// PushBranch pushes branchName to the repository at remoteURL.
func (manager *RepositoryManager) PushBranch(executionContext context.Context, repositoryPath string, remoteURL string, branchName string) error {
	pushError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, remoteURL, branchName},
		WorkingDirectory: repositoryPath,
	})
	if pushError != nil {
		return fmt.Errorf(pushFailureTemplateConstant, branchName, pushError)
	}
	return nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, details execshell.CommandDetails) error {
	if details.EnvironmentVariables == nil {
		details.EnvironmentVariables = map[string]string{}
	}
	details.EnvironmentVariables[gitTerminalPromptEnvironmentNameConstant] = gitTerminalPromptEnvironmentDisableConstant
	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	return executionError
}
