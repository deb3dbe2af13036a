package batch

import "strings"

const (
	proposeConfigurationKeySuffixConstant   = ".propose"
	issuesConfigurationKeySuffixConstant    = ".issues"
	repositoriesConfigurationKeyConstant    = ".repositories"
	branchConfigurationKeyConstant          = ".branch"
	messageConfigurationKeyConstant         = ".message"
	titleConfigurationKeyConstant           = ".title"
	bodyConfigurationKeyConstant            = ".body"
	scriptConfigurationKeyConstant          = ".script"
	scriptArgumentsConfigurationKeyConstant = ".script_args"
	delayConfigurationKeyConstant           = ".delay"
	dryRunConfigurationKeyConstant          = ".dry_run"
	authorNameConfigurationKeyConstant      = ".author_name"
	authorEmailConfigurationKeyConstant     = ".author_email"
	defaultDelaySecondsConstant             = 2.0
)

// ProposeConfiguration captures persisted configuration for the propose command.
type ProposeConfiguration struct {
	Repositories    []string `mapstructure:"repositories"`
	BranchName      string   `mapstructure:"branch"`
	CommitMessage   string   `mapstructure:"message"`
	Title           string   `mapstructure:"title"`
	Body            string   `mapstructure:"body"`
	ScriptPath      string   `mapstructure:"script"`
	ScriptArguments []string `mapstructure:"script_args"`
	DelaySeconds    float64  `mapstructure:"delay"`
	DryRun          bool     `mapstructure:"dry_run"`
	AuthorName      string   `mapstructure:"author_name"`
	AuthorEmail     string   `mapstructure:"author_email"`
}

// IssuesConfiguration captures persisted configuration for the issues command.
type IssuesConfiguration struct {
	Repositories []string `mapstructure:"repositories"`
	Title        string   `mapstructure:"title"`
	Body         string   `mapstructure:"body"`
	DelaySeconds float64  `mapstructure:"delay"`
}

// DefaultProposeConfiguration returns baseline values for the propose command.
func DefaultProposeConfiguration() ProposeConfiguration {
	return ProposeConfiguration{DelaySeconds: defaultDelaySecondsConstant}
}

// DefaultIssuesConfiguration returns baseline values for the issues command.
func DefaultIssuesConfiguration() IssuesConfiguration {
	return IssuesConfiguration{DelaySeconds: defaultDelaySecondsConstant}
}

// Sanitize trims configured values and removes empty repository entries.
func (configuration ProposeConfiguration) Sanitize() ProposeConfiguration {
	sanitized := configuration
	sanitized.Repositories = sanitizeRepositoryList(configuration.Repositories)
	sanitized.BranchName = strings.TrimSpace(configuration.BranchName)
	sanitized.CommitMessage = strings.TrimSpace(configuration.CommitMessage)
	sanitized.Title = strings.TrimSpace(configuration.Title)
	sanitized.ScriptPath = strings.TrimSpace(configuration.ScriptPath)
	sanitized.AuthorName = strings.TrimSpace(configuration.AuthorName)
	sanitized.AuthorEmail = strings.TrimSpace(configuration.AuthorEmail)
	return sanitized
}

// Sanitize trims configured values and removes empty repository entries.
func (configuration IssuesConfiguration) Sanitize() IssuesConfiguration {
	sanitized := configuration
	sanitized.Repositories = sanitizeRepositoryList(configuration.Repositories)
	sanitized.Title = strings.TrimSpace(configuration.Title)
	return sanitized
}

// DefaultConfigurationValues exposes the baseline values keyed for the
// configuration loader under the provided tools key.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	proposeKey := configurationKey + proposeConfigurationKeySuffixConstant
	issuesKey := configurationKey + issuesConfigurationKeySuffixConstant
	proposeDefaults := DefaultProposeConfiguration()
	issuesDefaults := DefaultIssuesConfiguration()
	return map[string]any{
		proposeKey + repositoriesConfigurationKeyConstant:    proposeDefaults.Repositories,
		proposeKey + branchConfigurationKeyConstant:          proposeDefaults.BranchName,
		proposeKey + messageConfigurationKeyConstant:         proposeDefaults.CommitMessage,
		proposeKey + titleConfigurationKeyConstant:           proposeDefaults.Title,
		proposeKey + bodyConfigurationKeyConstant:            proposeDefaults.Body,
		proposeKey + scriptConfigurationKeyConstant:          proposeDefaults.ScriptPath,
		proposeKey + scriptArgumentsConfigurationKeyConstant: proposeDefaults.ScriptArguments,
		proposeKey + delayConfigurationKeyConstant:           proposeDefaults.DelaySeconds,
		proposeKey + dryRunConfigurationKeyConstant:          proposeDefaults.DryRun,
		proposeKey + authorNameConfigurationKeyConstant:      proposeDefaults.AuthorName,
		proposeKey + authorEmailConfigurationKeyConstant:     proposeDefaults.AuthorEmail,
		issuesKey + repositoriesConfigurationKeyConstant:     issuesDefaults.Repositories,
		issuesKey + titleConfigurationKeyConstant:            issuesDefaults.Title,
		issuesKey + bodyConfigurationKeyConstant:             issuesDefaults.Body,
		issuesKey + delayConfigurationKeyConstant:            issuesDefaults.DelaySeconds,
	}
}

func sanitizeRepositoryList(repositories []string) []string {
	sanitized := make([]string, 0, len(repositories))
	for _, repositoryName := range repositories {
		trimmedRepositoryName := strings.TrimSpace(repositoryName)
		if len(trimmedRepositoryName) > 0 {
			sanitized = append(sanitized, trimmedRepositoryName)
		}
	}
	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}
