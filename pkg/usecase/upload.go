package usecase

import (
	"context"
	"os"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/porter/pkg/domain/interfaces"
	"github.com/m-mizutani/porter/pkg/domain/model"
	"github.com/m-mizutani/porter/pkg/domain/types"
	"github.com/m-mizutani/porter/pkg/utils/safe"
)

// assetContentType is the media type every uploaded asset is tagged with
const assetContentType = "application/octet-stream"

type uploadUseCase struct {
	githubClient interfaces.GitHubClient
}

// NewUpload creates a new instance of UploadUseCase
func NewUpload(githubClient interfaces.GitHubClient) interfaces.UploadUseCase {
	return &uploadUseCase{
		githubClient: githubClient,
	}
}

// UploadAssets reads the checkout's VERSION file, resolves the release
// published under that tag, and uploads every regular file under
// <binaryDir>/bin/rel as a release asset. The first failed upload aborts
// the run.
func (uc *uploadUseCase) UploadAssets(ctx context.Context, req *model.UploadRequest) (*model.UploadReport, error) {
	logger := ctxlog.From(ctx)

	version, err := ReadVersion(req.RepoDir)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting asset upload",
		"repository", req.Target.String(),
		"tag", version,
		"dry_run", req.DryRun,
		"skip_existing", req.SkipExisting,
	)

	release, err := uc.githubClient.GetReleaseByTag(ctx, req.Target.Owner, req.Target.Repo, version)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve release for tag",
			goerr.V("repository", req.Target.String()),
			goerr.V("tag", version),
			goerr.T(types.ErrTagLookup),
		)
	}
	releaseID := release.GetID()

	logger.Info("Resolved release",
		"repository", req.Target.String(),
		"tag", version,
		"release_id", releaseID,
	)

	assets, err := CollectAssets(req.BinaryDir)
	if err != nil {
		return nil, err
	}

	report := &model.UploadReport{
		Tag:       version,
		ReleaseID: releaseID,
		Planned:   assets,
	}

	var existing map[string]bool
	if req.SkipExisting {
		if existing, err = uc.existingAssetNames(ctx, req.Target, releaseID); err != nil {
			return nil, err
		}
	}

	for _, asset := range assets {
		if existing[asset.Name] {
			logger.Info("Skipping asset already on release",
				"name", asset.Name,
				"release_id", releaseID,
			)
			report.Skipped++
			continue
		}

		if req.DryRun {
			logger.Info("Dry run, would upload asset",
				"name", asset.Name,
				"path", asset.Path,
				"size_bytes", asset.Size,
			)
			continue
		}

		if err := uc.uploadOne(ctx, req.Target, releaseID, asset); err != nil {
			return nil, err
		}
		report.Uploaded++

		logger.Info("Uploaded asset",
			"name", asset.Name,
			"size_bytes", asset.Size,
			"release_id", releaseID,
		)
	}

	logger.Info("Completed asset upload",
		"repository", req.Target.String(),
		"tag", version,
		"planned", len(report.Planned),
		"uploaded", report.Uploaded,
		"skipped", report.Skipped,
	)

	return report, nil
}

// uploadOne streams a single file to the release
func (uc *uploadUseCase) uploadOne(ctx context.Context, target model.Target, releaseID int64, asset model.Asset) error {
	file, err := os.Open(asset.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to open asset file",
			goerr.V("path", asset.Path),
			goerr.T(types.ErrTagUpload),
		)
	}
	defer safe.Close(ctx, file)

	opts := &github.UploadOptions{
		Name:      asset.Name,
		MediaType: assetContentType,
	}
	if _, err := uc.githubClient.UploadReleaseAsset(ctx, target.Owner, target.Repo, releaseID, opts, file); err != nil {
		return goerr.Wrap(err, "failed to upload asset",
			goerr.V("name", asset.Name),
			goerr.V("release_id", releaseID),
			goerr.T(types.ErrTagUpload),
		)
	}

	return nil
}

// existingAssetNames collects the names already attached to the release
func (uc *uploadUseCase) existingAssetNames(ctx context.Context, target model.Target, releaseID int64) (map[string]bool, error) {
	assets, err := uc.githubClient.ListReleaseAssets(ctx, target.Owner, target.Repo, releaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list existing release assets",
			goerr.V("repository", target.String()),
			goerr.V("release_id", releaseID),
			goerr.T(types.ErrTagLookup),
		)
	}

	names := make(map[string]bool, len(assets))
	for _, asset := range assets {
		names[asset.GetName()] = true
	}

	return names, nil
}
