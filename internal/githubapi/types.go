package githubapi

// Repository describes the hosting metadata the workflow needs for one
// repository: its coordinates, default branch, and clone location.
type Repository struct {
	Owner         string
	Name          string
	FullName      string
	DefaultBranch string
	CloneURL      string
	HTMLURL       string
}

// Account identifies the authenticated user on the hosting service.
type Account struct {
	Login string
}

// PullRequest carries the identifiers of an opened pull request.
type PullRequest struct {
	Number  int
	HTMLURL string
}

// Issue carries the identifiers of an opened issue.
type Issue struct {
	Number  int
	HTMLURL string
}
