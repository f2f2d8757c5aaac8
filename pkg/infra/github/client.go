package github

import (
	"context"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnote/pkg/domain/interfaces"
	"github.com/m-mizutani/relnote/pkg/domain/types"
)

type client struct {
	githubClient *github.Client
}

// NewClient creates a GitHub client authenticated with a personal access
// token. The token is injected here once at startup and never read from
// ambient state elsewhere.
func NewClient(token string) interfaces.ReleaseClient {
	return &client{
		githubClient: github.NewClient(nil).WithAuthToken(token),
	}
}

// NewAppClient creates a GitHub client with App installation authentication
func NewAppClient(appID, installationID int64, privateKey []byte) (interfaces.ReleaseClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return &client{
		githubClient: github.NewClient(&http.Client{Transport: itr}),
	}, nil
}

// GetLatestRelease fetches metadata of the most recent published release
func (c *client) GetLatestRelease(ctx context.Context, org, repo string) (*github.RepositoryRelease, error) {
	release, resp, err := c.githubClient.Repositories.GetLatestRelease(ctx, org, repo)
	if err != nil {
		return nil, wrapAPIError(err, resp, org, repo, "latest")
	}
	return release, nil
}

// GetReleaseByTag fetches metadata of the release published under tag
func (c *client) GetReleaseByTag(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
	release, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, org, repo, tag)
	if err != nil {
		return nil, wrapAPIError(err, resp, org, repo, tag)
	}
	return release, nil
}

// wrapAPIError tags upstream failures so handlers can map them to status
// codes without inspecting go-github types
func wrapAPIError(err error, resp *github.Response, org, repo, tag string) error {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return goerr.Wrap(err, "release not found",
			goerr.T(types.TagNotFound),
			goerr.V("org", org),
			goerr.V("repo", repo),
			goerr.V("tag", tag),
		)
	}

	return goerr.Wrap(err, "GitHub API request failed",
		goerr.T(types.TagUpstream),
		goerr.V("org", org),
		goerr.V("repo", repo),
		goerr.V("tag", tag),
	)
}
