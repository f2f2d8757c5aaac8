package interfaces

import (
	"context"

	"github.com/google/go-github/v75/github"
)

// ReleaseClient defines operations for fetching release metadata from GitHub
type ReleaseClient interface {
	// GetLatestRelease fetches metadata of the most recent published release
	GetLatestRelease(ctx context.Context, org, repo string) (*github.RepositoryRelease, error)

	// GetReleaseByTag fetches metadata of the release published under tag
	GetReleaseByTag(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error)
}
