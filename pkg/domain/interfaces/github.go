package interfaces

import (
	"context"
	"os"

	"github.com/google/go-github/v75/github"
)

// GitHubClient defines the release operations porter needs from the GitHub API
type GitHubClient interface {
	// GetReleaseByTag resolves the release published under the given tag
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, error)

	// ListReleaseAssets returns all assets already attached to the release
	ListReleaseAssets(ctx context.Context, owner, repo string, releaseID int64) ([]*github.ReleaseAsset, error)

	// UploadReleaseAsset attaches the file to the release as a new asset
	UploadReleaseAsset(ctx context.Context, owner, repo string, releaseID int64, opts *github.UploadOptions, file *os.File) (*github.ReleaseAsset, error)
}
