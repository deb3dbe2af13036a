package batch

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/astrofrog/batchpr/internal/githubapi"
	"github.com/astrofrog/batchpr/internal/githubauth"
)

const (
	issuesCommandUseConstant              = "issues [owner/name ...]"
	issuesCommandShortDescriptionConstant = "Open the same issue on many repositories"
	issuesCommandLongDescriptionConstant  = "issues resolves each repository and opens an issue with the configured title and body. Failures are reported per repository and never stop the run."
	issueTitleFlagDescriptionConstant     = "Issue title"
	issueBodyFlagDescriptionConstant      = "Issue body"
)

// IssuesCommandBuilder assembles the issues command. The collaborator fields
// exist for tests; production wiring leaves them nil.
type IssuesCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() IssuesConfiguration
	IssueClient           IssueClient
	Sleeper               Sleeper
	EnvironmentVariables  map[string]string
}

// Build constructs the issues command.
func (builder *IssuesCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   issuesCommandUseConstant,
		Short: issuesCommandShortDescriptionConstant,
		Long:  issuesCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	command.Flags().String(titleFlagNameConstant, "", issueTitleFlagDescriptionConstant)
	command.Flags().String(bodyFlagNameConstant, "", issueBodyFlagDescriptionConstant)
	command.Flags().Float64(delayFlagNameConstant, defaultDelaySecondsConstant, delayFlagDescriptionConstant)

	return command, nil
}

func (builder *IssuesCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	applyStringFlag(command, titleFlagNameConstant, &configuration.Title)
	applyStringFlag(command, bodyFlagNameConstant, &configuration.Body)
	applyFloatFlag(command, delayFlagNameConstant, &configuration.DelaySeconds)

	repositories := arguments
	if len(repositories) == 0 {
		repositories = configuration.Repositories
	}
	if len(repositories) == 0 {
		return errors.New(missingRepositoriesMessageConstant)
	}

	issueClient, clientError := builder.resolveIssueClient()
	if clientError != nil {
		return clientError
	}

	orchestrator, orchestratorError := NewIssueOrchestrator(IssueDependencies{
		Logger:  resolveLogger(builder.LoggerProvider),
		Client:  issueClient,
		Sleeper: builder.Sleeper,
	})
	if orchestratorError != nil {
		return orchestratorError
	}

	outcomes, runError := orchestrator.Run(command.Context(), IssueRunOptions{
		Repositories: repositories,
		Delay:        time.Duration(configuration.DelaySeconds * float64(time.Second)),
		Title:        configuration.Title,
		Body:         configuration.Body,
	})
	writeOutcomes(command, outcomes)
	return runError
}

func (builder *IssuesCommandBuilder) resolveConfiguration() IssuesConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultIssuesConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *IssuesCommandBuilder) resolveIssueClient() (IssueClient, error) {
	if builder.IssueClient != nil {
		return builder.IssueClient, nil
	}
	token, tokenFound := githubauth.ResolveToken(builder.EnvironmentVariables)
	if !tokenFound {
		return nil, errors.New(missingTokenMessageConstant)
	}
	return githubapi.NewClient(githubapi.ClientOptions{Token: token})
}
