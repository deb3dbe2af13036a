package workspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	copySourceOpenFailureTemplateConstant        = "failed to open %s: %w"
	copyDestinationCreateFailureTemplateConstant = "failed to create %s: %w"
	copyContentFailureTemplateConstant           = "failed to copy %s: %w"
	copiedFilePermissionsConstant                = 0o644
)

// StagingManager covers the git staging operations a workspace offers to
// mutation callbacks.
type StagingManager interface {
	StageFiles(executionContext context.Context, repositoryPath string, paths ...string) error
	RemoveFiles(executionContext context.Context, repositoryPath string, paths ...string) error
}

// Workspace is a prepared checkout on the feature branch. Directory is the
// repository root; all helper paths are relative to it.
type Workspace struct {
	Directory      string
	RepositoryName string
	BranchName     string

	stagingManager StagingManager
}

// Stage adds the provided repository-relative paths to the staging area.
func (workspaceInstance *Workspace) Stage(executionContext context.Context, paths ...string) error {
	return workspaceInstance.stagingManager.StageFiles(executionContext, workspaceInstance.Directory, paths...)
}

// Remove deletes the provided repository-relative paths from version control.
func (workspaceInstance *Workspace) Remove(executionContext context.Context, paths ...string) error {
	return workspaceInstance.stagingManager.RemoveFiles(executionContext, workspaceInstance.Directory, paths...)
}

// CopyFile copies an external file to a repository-relative destination and
// stages the result.
func (workspaceInstance *Workspace) CopyFile(executionContext context.Context, sourcePath string, destinationPath string) error {
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		return fmt.Errorf(copySourceOpenFailureTemplateConstant, sourcePath, openError)
	}
	defer func() {
		_ = sourceFile.Close()
	}()

	absoluteDestination := filepath.Join(workspaceInstance.Directory, destinationPath)
	destinationFile, createError := os.OpenFile(absoluteDestination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, copiedFilePermissionsConstant)
	if createError != nil {
		return fmt.Errorf(copyDestinationCreateFailureTemplateConstant, absoluteDestination, createError)
	}
	defer func() {
		_ = destinationFile.Close()
	}()

	if _, copyError := io.Copy(destinationFile, sourceFile); copyError != nil {
		return fmt.Errorf(copyContentFailureTemplateConstant, destinationPath, copyError)
	}
	return workspaceInstance.Stage(executionContext, destinationPath)
}
