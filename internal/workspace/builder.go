package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/astrofrog/batchpr/internal/execshell"
)

const (
	gitManagerMissingMessageConstant      = "git repository manager not configured"
	originBranchReferenceTemplateConstant = "origin/%s"
	upstreamBranchReferenceTemplate       = "upstream/%s"
	upstreamRemoteNameConstant            = "upstream"
	branchProbeFailureTemplateConstant    = "failed to probe branch %q: %w"
)

// ErrGitManagerNotConfigured indicates the builder was constructed without a
// repository manager.
var ErrGitManagerNotConfigured = errors.New(gitManagerMissingMessageConstant)

// GitManager covers the repository operations the builder performs.
type GitManager interface {
	StagingManager
	CloneShallow(executionContext context.Context, cloneURL string, targetDirectory string) error
	CheckoutReference(executionContext context.Context, repositoryPath string, reference string) error
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error
	PrepareSubmodules(executionContext context.Context, repositoryPath string) error
}

// BuildRequest names everything required to prepare one workspace.
type BuildRequest struct {
	RootDirectory    string
	RepositoryName   string
	ForkCloneURL     string
	UpstreamCloneURL string
	DefaultBranch    string
	BranchName       string
}

// BuildOutcome reports the result of a build. Exactly one of Workspace or
// BranchAlreadyExists is meaningful: an existing feature branch on the fork is
// a routine skip, not an error.
type BuildOutcome struct {
	Workspace           *Workspace
	BranchAlreadyExists bool
}

// Builder prepares workspaces through a GitManager.
type Builder struct {
	gitManager GitManager
}

// NewBuilder constructs a Builder around the provided manager.
func NewBuilder(gitManager GitManager) (*Builder, error) {
	if gitManager == nil {
		return nil, ErrGitManagerNotConfigured
	}
	return &Builder{gitManager: gitManager}, nil
}

// Build clones the fork, probes for the feature branch, and otherwise creates
// the branch off the upstream default branch and prepares submodules. The
// probe runs before any upstream remote work so an existing branch costs no
// extra network calls.
func (builder *Builder) Build(executionContext context.Context, request BuildRequest) (BuildOutcome, error) {
	targetDirectory := filepath.Join(request.RootDirectory, request.RepositoryName)

	if cloneError := builder.gitManager.CloneShallow(executionContext, request.ForkCloneURL, targetDirectory); cloneError != nil {
		return BuildOutcome{}, cloneError
	}

	branchExists, probeError := builder.probeFeatureBranch(executionContext, targetDirectory, request.BranchName)
	if probeError != nil {
		return BuildOutcome{}, probeError
	}
	if branchExists {
		return BuildOutcome{BranchAlreadyExists: true}, nil
	}

	if remoteError := builder.gitManager.AddRemote(executionContext, targetDirectory, upstreamRemoteNameConstant, request.UpstreamCloneURL); remoteError != nil {
		return BuildOutcome{}, remoteError
	}
	if fetchError := builder.gitManager.FetchRemote(executionContext, targetDirectory, upstreamRemoteNameConstant); fetchError != nil {
		return BuildOutcome{}, fetchError
	}
	upstreamReference := fmt.Sprintf(upstreamBranchReferenceTemplate, request.DefaultBranch)
	if checkoutError := builder.gitManager.CheckoutReference(executionContext, targetDirectory, upstreamReference); checkoutError != nil {
		return BuildOutcome{}, checkoutError
	}
	if branchError := builder.gitManager.CreateBranch(executionContext, targetDirectory, request.BranchName); branchError != nil {
		return BuildOutcome{}, branchError
	}
	if submoduleError := builder.gitManager.PrepareSubmodules(executionContext, targetDirectory); submoduleError != nil {
		return BuildOutcome{}, submoduleError
	}

	preparedWorkspace := &Workspace{
		Directory:      targetDirectory,
		RepositoryName: request.RepositoryName,
		BranchName:     request.BranchName,
		stagingManager: builder.gitManager,
	}
	return BuildOutcome{Workspace: preparedWorkspace}, nil
}

// probeFeatureBranch checks out origin/<branch>. A clean checkout means the
// branch already exists on the fork. A git exit failure means the branch is
// absent; only launch failures surface as errors.
func (builder *Builder) probeFeatureBranch(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	originReference := fmt.Sprintf(originBranchReferenceTemplateConstant, branchName)
	checkoutError := builder.gitManager.CheckoutReference(executionContext, repositoryPath, originReference)
	if checkoutError == nil {
		return true, nil
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(checkoutError, &commandFailure) {
		return false, nil
	}
	return false, fmt.Errorf(branchProbeFailureTemplateConstant, branchName, checkoutError)
}
