package batch

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/astrofrog/batchpr/internal/execshell"
	"github.com/astrofrog/batchpr/internal/githubapi"
	"github.com/astrofrog/batchpr/internal/githubauth"
	"github.com/astrofrog/batchpr/internal/gitrepo"
	"github.com/astrofrog/batchpr/internal/ui"
	"github.com/astrofrog/batchpr/internal/workspace"
)

const (
	proposeCommandUseConstant              = "propose [owner/name ...]"
	proposeCommandShortDescriptionConstant = "Propose a scripted change across repositories"
	proposeCommandLongDescriptionConstant  = "propose forks each repository, runs the configured script inside a fresh branch synchronized with the upstream default branch, commits the staged changes, pushes the branch, and opens a draft pull request. The script must stage its own changes with git add or git rm; a non-zero script exit skips the repository and stops the batch."
	branchFlagNameConstant                 = "branch"
	branchFlagDescriptionConstant          = "Feature branch name created on each fork"
	messageFlagNameConstant                = "message"
	messageFlagDescriptionConstant         = "Commit message for the staged changes"
	titleFlagNameConstant                  = "title"
	titleFlagDescriptionConstant           = "Pull request title"
	bodyFlagNameConstant                   = "body"
	bodyFlagDescriptionConstant            = "Pull request body"
	scriptFlagNameConstant                 = "script"
	scriptFlagDescriptionConstant          = "Executable run inside each workspace"
	scriptArgumentFlagNameConstant         = "script-arg"
	scriptArgumentFlagDescriptionConstant  = "Argument passed to the script; repeat for multiple arguments"
	delayFlagNameConstant                  = "delay"
	delayFlagDescriptionConstant           = "Seconds to wait between repositories"
	dryRunFlagNameConstant                 = "dry-run"
	dryRunFlagDescriptionConstant          = "Commit locally but skip the push and pull request"
	authorNameFlagNameConstant             = "author-name"
	authorNameFlagDescriptionConstant      = "Override the commit author name"
	authorEmailFlagNameConstant            = "author-email"
	authorEmailFlagDescriptionConstant     = "Override the commit author email"
	missingRepositoriesMessageConstant     = "at least one repository is required; pass owner/name arguments or configure repositories"
	missingTokenMessageConstant            = "github token is required; set BATCHPR_TOKEN, GH_TOKEN, or GITHUB_TOKEN"
	outcomeOpenedTemplateConstant          = "OPENED: %s (%s)\n"
	outcomeDryRunTemplateConstant          = "DRY-RUN: %s\n"
	outcomeBranchExistsTemplateConstant    = "SKIPPED: %s (branch exists)\n"
	outcomeDeclinedTemplateConstant        = "DECLINED: %s\n"
	outcomeFailedTemplateConstant          = "FAILED: %s (%s)\n"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ProposeCommandBuilder assembles the propose command. The collaborator
// fields exist for tests; production wiring leaves them nil.
type ProposeCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() ProposeConfiguration
	RepositoryClient             RepositoryClient
	CommandRunner                execshell.CommandRunner
	Sleeper                      Sleeper
	DirectoryController          DirectoryController
	EnvironmentVariables         map[string]string
}

// Build constructs the propose command.
func (builder *ProposeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   proposeCommandUseConstant,
		Short: proposeCommandShortDescriptionConstant,
		Long:  proposeCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	command.Flags().String(branchFlagNameConstant, "", branchFlagDescriptionConstant)
	command.Flags().String(messageFlagNameConstant, "", messageFlagDescriptionConstant)
	command.Flags().String(titleFlagNameConstant, "", titleFlagDescriptionConstant)
	command.Flags().String(bodyFlagNameConstant, "", bodyFlagDescriptionConstant)
	command.Flags().String(scriptFlagNameConstant, "", scriptFlagDescriptionConstant)
	command.Flags().StringArray(scriptArgumentFlagNameConstant, nil, scriptArgumentFlagDescriptionConstant)
	command.Flags().Float64(delayFlagNameConstant, defaultDelaySecondsConstant, delayFlagDescriptionConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)
	command.Flags().String(authorNameFlagNameConstant, "", authorNameFlagDescriptionConstant)
	command.Flags().String(authorEmailFlagNameConstant, "", authorEmailFlagDescriptionConstant)

	return command, nil
}

func (builder *ProposeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	applyStringFlag(command, branchFlagNameConstant, &configuration.BranchName)
	applyStringFlag(command, messageFlagNameConstant, &configuration.CommitMessage)
	applyStringFlag(command, titleFlagNameConstant, &configuration.Title)
	applyStringFlag(command, bodyFlagNameConstant, &configuration.Body)
	applyStringFlag(command, scriptFlagNameConstant, &configuration.ScriptPath)
	applyStringArrayFlag(command, scriptArgumentFlagNameConstant, &configuration.ScriptArguments)
	applyStringFlag(command, authorNameFlagNameConstant, &configuration.AuthorName)
	applyStringFlag(command, authorEmailFlagNameConstant, &configuration.AuthorEmail)
	applyFloatFlag(command, delayFlagNameConstant, &configuration.DelaySeconds)
	applyBoolFlag(command, dryRunFlagNameConstant, &configuration.DryRun)

	repositories := arguments
	if len(repositories) == 0 {
		repositories = configuration.Repositories
	}
	if len(repositories) == 0 {
		return errors.New(missingRepositoriesMessageConstant)
	}

	logger := resolveLogger(builder.LoggerProvider)
	shellExecutor, executorError := builder.buildShellExecutor(logger)
	if executorError != nil {
		return executorError
	}

	scriptWorkflow, workflowError := NewScriptWorkflow(shellExecutor, ScriptWorkflowOptions{
		ScriptPath:      configuration.ScriptPath,
		ScriptArguments: configuration.ScriptArguments,
		Branch:          configuration.BranchName,
		Message:         configuration.CommitMessage,
		Title:           configuration.Title,
		Body:            configuration.Body,
	})
	if workflowError != nil {
		return workflowError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return managerError
	}
	workspaceBuilder, builderError := workspace.NewBuilder(repositoryManager)
	if builderError != nil {
		return builderError
	}

	repositoryClient, clientError := builder.resolveRepositoryClient()
	if clientError != nil {
		return clientError
	}

	orchestrator, orchestratorError := NewOrchestrator(Dependencies{
		Logger:              logger,
		Client:              repositoryClient,
		WorkspaceBuilder:    workspaceBuilder,
		GitManager:          repositoryManager,
		Workflow:            scriptWorkflow,
		Sleeper:             builder.Sleeper,
		DirectoryController: builder.DirectoryController,
		Identity: gitrepo.CommitIdentity{
			AuthorName:  configuration.AuthorName,
			AuthorEmail: configuration.AuthorEmail,
		},
	})
	if orchestratorError != nil {
		return orchestratorError
	}

	outcomes, runError := orchestrator.Run(command.Context(), RunOptions{
		Repositories: repositories,
		Delay:        time.Duration(configuration.DelaySeconds * float64(time.Second)),
		DryRun:       configuration.DryRun,
	})
	writeOutcomes(command, outcomes)
	return runError
}

func (builder *ProposeCommandBuilder) resolveConfiguration() ProposeConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultProposeConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *ProposeCommandBuilder) buildShellExecutor(logger *zap.Logger) (*execshell.ShellExecutor, error) {
	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner)
	if executorError != nil {
		return nil, executorError
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		shellExecutor.RegisterObserver(ui.NewConsoleCommandEventLogger(logger, false))
	}
	return shellExecutor, nil
}

func (builder *ProposeCommandBuilder) resolveRepositoryClient() (RepositoryClient, error) {
	if builder.RepositoryClient != nil {
		return builder.RepositoryClient, nil
	}
	token, tokenFound := githubauth.ResolveToken(builder.EnvironmentVariables)
	if !tokenFound {
		return nil, errors.New(missingTokenMessageConstant)
	}
	return githubapi.NewClient(githubapi.ClientOptions{Token: token})
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func applyStringFlag(command *cobra.Command, flagName string, target *string) {
	if !command.Flags().Changed(flagName) {
		return
	}
	if flagValue, flagError := command.Flags().GetString(flagName); flagError == nil {
		*target = flagValue
	}
}

func applyStringArrayFlag(command *cobra.Command, flagName string, target *[]string) {
	if !command.Flags().Changed(flagName) {
		return
	}
	if flagValues, flagError := command.Flags().GetStringArray(flagName); flagError == nil {
		*target = flagValues
	}
}

func applyFloatFlag(command *cobra.Command, flagName string, target *float64) {
	if !command.Flags().Changed(flagName) {
		return
	}
	if flagValue, flagError := command.Flags().GetFloat64(flagName); flagError == nil {
		*target = flagValue
	}
}

func applyBoolFlag(command *cobra.Command, flagName string, target *bool) {
	if !command.Flags().Changed(flagName) {
		return
	}
	if flagValue, flagError := command.Flags().GetBool(flagName); flagError == nil {
		*target = flagValue
	}
}

func writeOutcomes(command *cobra.Command, outcomes []RepositoryOutcome) {
	for _, outcome := range outcomes {
		switch outcome.Code {
		case OutcomePullRequestOpened:
			fmt.Fprintf(command.OutOrStdout(), outcomeOpenedTemplateConstant, outcome.RepositoryName, outcome.PullRequestURL)
		case OutcomeIssueOpened:
			fmt.Fprintf(command.OutOrStdout(), outcomeOpenedTemplateConstant, outcome.RepositoryName, outcome.IssueURL)
		case OutcomeDryRunSucceeded:
			fmt.Fprintf(command.OutOrStdout(), outcomeDryRunTemplateConstant, outcome.RepositoryName)
		case OutcomeSkippedBranchExists:
			fmt.Fprintf(command.OutOrStdout(), outcomeBranchExistsTemplateConstant, outcome.RepositoryName)
		case OutcomeSkippedMutationDeclined:
			fmt.Fprintf(command.OutOrStdout(), outcomeDeclinedTemplateConstant, outcome.RepositoryName)
		default:
			fmt.Fprintf(command.OutOrStdout(), outcomeFailedTemplateConstant, outcome.RepositoryName, string(outcome.Code))
		}
	}
}
