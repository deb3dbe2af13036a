package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	expectedDelaySecondsConstant     = 2.0
)

type readmeApplicationConfiguration struct {
	Common readmeCommonConfiguration `yaml:"common"`
	Tools  readmeToolsConfiguration  `yaml:"tools"`
}

type readmeCommonConfiguration struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type readmeToolsConfiguration struct {
	Propose readmeProposeConfiguration `yaml:"propose"`
	Issues  readmeIssuesConfiguration  `yaml:"issues"`
}

type readmeProposeConfiguration struct {
	Repositories []string `yaml:"repositories"`
	Branch       string   `yaml:"branch"`
	Message      string   `yaml:"message"`
	Title        string   `yaml:"title"`
	Body         string   `yaml:"body"`
	Script       string   `yaml:"script"`
	ScriptArgs   []string `yaml:"script_args"`
	Delay        float64  `yaml:"delay"`
	DryRun       bool     `yaml:"dry_run"`
	AuthorName   string   `yaml:"author_name"`
	AuthorEmail  string   `yaml:"author_email"`
}

type readmeIssuesConfiguration struct {
	Repositories []string `yaml:"repositories"`
	Title        string   `yaml:"title"`
	Body         string   `yaml:"body"`
	Delay        float64  `yaml:"delay"`
}

func TestReadmeConfigurationExampleParses(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	var applicationConfiguration readmeApplicationConfiguration
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &applicationConfiguration))

	require.Equal(testInstance, "info", applicationConfiguration.Common.LogLevel)
	require.Equal(testInstance, "structured", applicationConfiguration.Common.LogFormat)

	proposeConfiguration := applicationConfiguration.Tools.Propose
	require.NotEmpty(testInstance, proposeConfiguration.Repositories)
	require.NotEmpty(testInstance, proposeConfiguration.Branch)
	require.NotEmpty(testInstance, proposeConfiguration.Message)
	require.NotEmpty(testInstance, proposeConfiguration.Title)
	require.NotEmpty(testInstance, proposeConfiguration.Script)
	require.NotEmpty(testInstance, proposeConfiguration.ScriptArgs)
	require.Equal(testInstance, expectedDelaySecondsConstant, proposeConfiguration.Delay)
	require.False(testInstance, proposeConfiguration.DryRun)

	issuesConfiguration := applicationConfiguration.Tools.Issues
	require.NotEmpty(testInstance, issuesConfiguration.Repositories)
	require.NotEmpty(testInstance, issuesConfiguration.Title)
	require.Equal(testInstance, expectedDelaySecondsConstant, issuesConfiguration.Delay)
}
