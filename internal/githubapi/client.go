package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	githubsdk "github.com/google/go-github/v68/github"
)

const (
	accessTokenMissingMessageConstant    = "github access token not configured"
	repositoryNameMalformedTemplate      = "repository name %q is not in owner/name form"
	defaultRawContentBaseURLConstant     = "https://raw.githubusercontent.com"
	repositoryFullNameSeparatorConstant  = "/"
	repositoryFullNamePartCountConstant  = 2
	pullRequestKindConstant              = "pull request"
	issueKindConstant                    = "issue"
	rawContentPathTemplateConstant       = "%s/%s/%s/%s"
	apiBaseURLTrailingSlashConstant      = "/"
	apiBaseURLParseFailureTemplate       = "failed to parse api base url %q: %w"
	rawContentProbeFailureTemplate       = "failed to probe %s: %w"
	authenticatedUserLabelConstant       = "authenticated user"
	cloneURLParseFailureTemplateConstant = "failed to parse clone url %q: %w"
)

// ErrAccessTokenNotConfigured indicates the client was built without a token.
var ErrAccessTokenNotConfigured = errors.New(accessTokenMissingMessageConstant)

// ClientOptions configures a Client. Token is required; the URL overrides
// exist for tests pointed at local HTTP servers.
type ClientOptions struct {
	Token             string
	APIBaseURL        string
	RawContentBaseURL string
	HTTPClient        *http.Client
}

// Client talks to the GitHub REST API and the raw-content host.
type Client struct {
	apiClient         *githubsdk.Client
	httpClient        *http.Client
	rawContentBaseURL string
	token             string
}

// NewClient validates the options and returns a ready Client.
func NewClient(options ClientOptions) (*Client, error) {
	if len(strings.TrimSpace(options.Token)) == 0 {
		return nil, ErrAccessTokenNotConfigured
	}

	apiClient := githubsdk.NewClient(options.HTTPClient).WithAuthToken(options.Token)
	if len(options.APIBaseURL) > 0 {
		parsedBaseURL, parseError := url.Parse(options.APIBaseURL)
		if parseError != nil {
			return nil, fmt.Errorf(apiBaseURLParseFailureTemplate, options.APIBaseURL, parseError)
		}
		if !strings.HasSuffix(parsedBaseURL.Path, apiBaseURLTrailingSlashConstant) {
			parsedBaseURL.Path += apiBaseURLTrailingSlashConstant
		}
		apiClient.BaseURL = parsedBaseURL
	}

	rawContentBaseURL := options.RawContentBaseURL
	if len(rawContentBaseURL) == 0 {
		rawContentBaseURL = defaultRawContentBaseURLConstant
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		apiClient:         apiClient,
		httpClient:        httpClient,
		rawContentBaseURL: strings.TrimSuffix(rawContentBaseURL, apiBaseURLTrailingSlashConstant),
		token:             options.Token,
	}, nil
}

// GetRepository resolves the metadata for an owner/name repository.
func (client *Client) GetRepository(executionContext context.Context, fullName string) (Repository, error) {
	ownerName, repositoryName, splitError := splitFullName(fullName)
	if splitError != nil {
		return Repository{}, &RepositoryLookupError{FullName: fullName, Cause: splitError}
	}

	repositoryData, _, lookupError := client.apiClient.Repositories.Get(executionContext, ownerName, repositoryName)
	if lookupError != nil {
		return Repository{}, &RepositoryLookupError{FullName: fullName, Cause: lookupError}
	}
	return repositoryFromSDK(repositoryData), nil
}

// GetAuthenticatedUser resolves the account behind the configured token.
func (client *Client) GetAuthenticatedUser(executionContext context.Context) (Account, error) {
	userData, _, lookupError := client.apiClient.Users.Get(executionContext, "")
	if lookupError != nil {
		return Account{}, &RepositoryLookupError{FullName: authenticatedUserLabelConstant, Cause: lookupError}
	}
	return Account{Login: userData.GetLogin()}, nil
}

// EnsureFork returns a pushable copy of the repository for the account. A
// repository the account already owns is returned unchanged without any fork
// call. Fork creation is asynchronous on the hosting side; an accepted
// response still yields usable fork coordinates.
func (client *Client) EnsureFork(executionContext context.Context, repository Repository, account Account) (Repository, error) {
	if repository.Owner == account.Login {
		return repository, nil
	}

	forkData, _, forkError := client.apiClient.Repositories.CreateFork(executionContext, repository.Owner, repository.Name, &githubsdk.RepositoryCreateForkOptions{})
	if forkError != nil {
		acceptedError := &githubsdk.AcceptedError{}
		if !errors.As(forkError, &acceptedError) {
			return Repository{}, &ForkCreationError{FullName: repository.FullName, Cause: forkError}
		}
	}
	if forkData != nil && len(forkData.GetFullName()) > 0 {
		return repositoryFromSDK(forkData), nil
	}
	return deriveForkCoordinates(repository, account), nil
}

// OpenPullRequest opens a draft pull request against the repository's default
// branch from the provided head reference (owner:branch form for forks).
func (client *Client) OpenPullRequest(executionContext context.Context, repository Repository, headReference string, title string, body string) (PullRequest, error) {
	draft := true
	newPullRequest := &githubsdk.NewPullRequest{
		Title: &title,
		Head:  &headReference,
		Base:  &repository.DefaultBranch,
		Body:  &body,
		Draft: &draft,
	}

	createdPullRequest, _, creationError := client.apiClient.PullRequests.Create(executionContext, repository.Owner, repository.Name, newPullRequest)
	if creationError != nil {
		return PullRequest{}, &RequestCreationError{Kind: pullRequestKindConstant, FullName: repository.FullName, Cause: creationError}
	}
	return PullRequest{Number: createdPullRequest.GetNumber(), HTMLURL: createdPullRequest.GetHTMLURL()}, nil
}

// OpenIssue opens an issue on the repository.
func (client *Client) OpenIssue(executionContext context.Context, repository Repository, title string, body string) (Issue, error) {
	issueRequest := &githubsdk.IssueRequest{Title: &title, Body: &body}

	createdIssue, _, creationError := client.apiClient.Issues.Create(executionContext, repository.Owner, repository.Name, issueRequest)
	if creationError != nil {
		return Issue{}, &RequestCreationError{Kind: issueKindConstant, FullName: repository.FullName, Cause: creationError}
	}
	return Issue{Number: createdIssue.GetNumber(), HTMLURL: createdIssue.GetHTMLURL()}, nil
}

// CheckFileExists reports whether a file is present on a branch by probing the
// raw-content host. Only an HTTP 200 counts as present.
func (client *Client) CheckFileExists(executionContext context.Context, fullName string, branchName string, filePath string) (bool, error) {
	probeURL := fmt.Sprintf(rawContentPathTemplateConstant, client.rawContentBaseURL, fullName, branchName, filePath)
	probeRequest, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, probeURL, nil)
	if requestError != nil {
		return false, fmt.Errorf(rawContentProbeFailureTemplate, probeURL, requestError)
	}

	probeResponse, probeError := client.httpClient.Do(probeRequest)
	if probeError != nil {
		return false, fmt.Errorf(rawContentProbeFailureTemplate, probeURL, probeError)
	}
	defer func() {
		_ = probeResponse.Body.Close()
	}()
	return probeResponse.StatusCode == http.StatusOK, nil
}

// AuthenticatedCloneURL embeds the account login and token into the
// repository's clone URL so pushes need no credential prompts.
func (client *Client) AuthenticatedCloneURL(repository Repository, login string) (string, error) {
	parsedCloneURL, parseError := url.Parse(repository.CloneURL)
	if parseError != nil {
		return "", fmt.Errorf(cloneURLParseFailureTemplateConstant, repository.CloneURL, parseError)
	}
	parsedCloneURL.User = url.UserPassword(login, client.token)
	return parsedCloneURL.String(), nil
}

func splitFullName(fullName string) (string, string, error) {
	nameParts := strings.Split(fullName, repositoryFullNameSeparatorConstant)
	if len(nameParts) != repositoryFullNamePartCountConstant || len(nameParts[0]) == 0 || len(nameParts[1]) == 0 {
		return "", "", fmt.Errorf(repositoryNameMalformedTemplate, fullName)
	}
	return nameParts[0], nameParts[1], nil
}

func repositoryFromSDK(repositoryData *githubsdk.Repository) Repository {
	return Repository{
		Owner:         repositoryData.GetOwner().GetLogin(),
		Name:          repositoryData.GetName(),
		FullName:      repositoryData.GetFullName(),
		DefaultBranch: repositoryData.GetDefaultBranch(),
		CloneURL:      repositoryData.GetCloneURL(),
		HTMLURL:       repositoryData.GetHTMLURL(),
	}
}

func deriveForkCoordinates(repository Repository, account Account) Repository {
	forkFullName := account.Login + repositoryFullNameSeparatorConstant + repository.Name
	forkCloneURL := strings.Replace(repository.CloneURL, repository.FullName, forkFullName, 1)
	forkHTMLURL := strings.Replace(repository.HTMLURL, repository.FullName, forkFullName, 1)
	return Repository{
		Owner:         account.Login,
		Name:          repository.Name,
		FullName:      forkFullName,
		DefaultBranch: repository.DefaultBranch,
		CloneURL:      forkCloneURL,
		HTMLURL:       forkHTMLURL,
	}
}
