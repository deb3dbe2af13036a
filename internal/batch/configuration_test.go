package batch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astrofrog/batchpr/internal/batch"
)

const configurationKeyConstant = "tools.batchpr"

func TestDefaultConfigurationValuesUseProvidedKey(testInstance *testing.T) {
	defaultValues := batch.DefaultConfigurationValues(configurationKeyConstant)

	require.Equal(testInstance, 2.0, defaultValues[configurationKeyConstant+".propose.delay"])
	require.Equal(testInstance, 2.0, defaultValues[configurationKeyConstant+".issues.delay"])
	require.Equal(testInstance, false, defaultValues[configurationKeyConstant+".propose.dry_run"])
	require.Contains(testInstance, defaultValues, configurationKeyConstant+".propose.branch")
	require.Contains(testInstance, defaultValues, configurationKeyConstant+".propose.script")
	require.Contains(testInstance, defaultValues, configurationKeyConstant+".propose.script_args")
	require.Contains(testInstance, defaultValues, configurationKeyConstant+".issues.title")
}

func TestProposeConfigurationSanitizeTrimsValues(testInstance *testing.T) {
	configuration := batch.ProposeConfiguration{
		Repositories:  []string{" octo/first ", "", "octo/second"},
		BranchName:    " update-configuration ",
		CommitMessage: " message ",
		Title:         " title ",
		ScriptPath:    " /usr/local/bin/apply-change ",
		AuthorName:    " Batch Author ",
		AuthorEmail:   " batch@example.org ",
	}

	sanitized := configuration.Sanitize()
	require.Equal(testInstance, []string{"octo/first", "octo/second"}, sanitized.Repositories)
	require.Equal(testInstance, "update-configuration", sanitized.BranchName)
	require.Equal(testInstance, "message", sanitized.CommitMessage)
	require.Equal(testInstance, "title", sanitized.Title)
	require.Equal(testInstance, "/usr/local/bin/apply-change", sanitized.ScriptPath)
	require.Equal(testInstance, "Batch Author", sanitized.AuthorName)
	require.Equal(testInstance, "batch@example.org", sanitized.AuthorEmail)
}

func TestIssuesConfigurationSanitizeDropsBlankRepositories(testInstance *testing.T) {
	configuration := batch.IssuesConfiguration{
		Repositories: []string{"   ", ""},
		Title:        " title ",
	}

	sanitized := configuration.Sanitize()
	require.Nil(testInstance, sanitized.Repositories)
	require.Equal(testInstance, "title", sanitized.Title)
}
