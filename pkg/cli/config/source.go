package config

import "github.com/urfave/cli/v3"

// Source holds the CI pipeline inputs: which repository to publish to and
// where the checkout and build outputs live on disk.
type Source struct {
	Repository   string
	RepoDir      string
	BinaryDir    string
	DryRun       bool
	SkipExisting bool
}

// Flags returns CLI flags for pipeline source configuration
func (c *Source) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository that owns the release, as <owner>/<name>",
			Required:    true,
			Destination: &c.Repository,
			Sources:     cli.EnvVars("SOURCE_GITHUB_REPO_OWNER_AND_NAME"),
		},
		&cli.StringFlag{
			Name:        "repo-dir",
			Usage:       "Repository checkout directory containing the VERSION file",
			Required:    true,
			Destination: &c.RepoDir,
			Sources:     cli.EnvVars("MAIN_REPO_DIR"),
		},
		&cli.StringFlag{
			Name:        "binary-dir",
			Usage:       "Build output directory containing bin/rel",
			Required:    true,
			Destination: &c.BinaryDir,
			Sources:     cli.EnvVars("BINARY"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Resolve the release and list assets without uploading",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("PORTER_DRY_RUN"),
		},
		&cli.BoolFlag{
			Name:        "skip-existing",
			Usage:       "Skip assets already attached to the release",
			Destination: &c.SkipExisting,
			Sources:     cli.EnvVars("PORTER_SKIP_EXISTING"),
		},
	}
}
