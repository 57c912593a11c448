package cli

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/porter/pkg/cli/config"
	"github.com/m-mizutani/porter/pkg/domain/model"
	"github.com/m-mizutani/porter/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdUpload() *cli.Command {
	var (
		sourceCfg config.Source
		githubCfg config.GitHub
	)

	flags := append(sourceCfg.Flags(), githubCfg.Flags()...)

	return &cli.Command{
		Name:    "upload",
		Aliases: []string{"u"},
		Usage:   "Upload build outputs as assets of the release named by the VERSION file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// One session ID per run so parallel CI jobs stay apart in logs
			logger := ctxlog.From(ctx).With(slog.String("session", uuid.NewString()))
			ctx = ctxlog.With(ctx, logger)

			target, err := model.ParseRepository(sourceCfg.Repository)
			if err != nil {
				return err
			}

			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			uploadUC := usecase.NewUpload(githubClient)

			report, err := uploadUC.UploadAssets(ctx, &model.UploadRequest{
				Target:       target,
				RepoDir:      sourceCfg.RepoDir,
				BinaryDir:    sourceCfg.BinaryDir,
				DryRun:       sourceCfg.DryRun,
				SkipExisting: sourceCfg.SkipExisting,
			})
			if err != nil {
				return err
			}

			logger.Info("Release assets updated",
				slog.String("repository", target.String()),
				slog.String("tag", report.Tag),
				slog.Int64("release_id", report.ReleaseID),
				slog.Int("planned", len(report.Planned)),
				slog.Int("uploaded", report.Uploaded),
				slog.Int("skipped", report.Skipped),
			)

			return nil
		},
	}
}
