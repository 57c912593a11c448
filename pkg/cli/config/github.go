package config

import (
	"net/url"
	"os"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/porter/pkg/domain/interfaces"
	"github.com/m-mizutani/porter/pkg/domain/types"
	githubinfra "github.com/m-mizutani/porter/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API access configuration
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          string
	InstallationID string
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	BaseURL        string
	UploadURL      string
	ConfigFile     string
	ThrottleRPS    float64
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for API access",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GITHUB_TOKEN", "GITHUB_OAUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("GITHUB_APP_ID"),
		},
		&cli.StringFlag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to GitHub App private key file",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("GITHUB_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub Enterprise API base URL",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-upload-url",
			Usage:       "GitHub Enterprise upload URL, defaults to the API base URL",
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("GITHUB_UPLOAD_URL"),
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to YAML file with per-host credentials",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("PORTER_CONFIG"),
		},
		&cli.FloatFlag{
			Name:        "github-throttle",
			Usage:       "Max GitHub API requests per second, 0 disables throttling",
			Destination: &c.ThrottleRPS,
			Sources:     cli.EnvVars("PORTER_GITHUB_THROTTLE"),
		},
	}
}

// NewClient builds a GitHub API client from the configuration. GitHub App
// credentials win over a token; with neither the client stays anonymous.
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option

	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}
	if c.UploadURL != "" {
		opts = append(opts, githubinfra.WithUploadURL(c.UploadURL))
	}
	if c.ThrottleRPS > 0 {
		opts = append(opts, githubinfra.WithThrottle(c.ThrottleRPS))
	}

	switch {
	case c.AppID != "":
		appID, err := strconv.ParseInt(c.AppID, 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub App ID",
				goerr.V("app_id", c.AppID),
				goerr.T(types.ErrTagConfig),
			)
		}
		installationID, err := strconv.ParseInt(c.InstallationID, 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub App installation ID",
				goerr.V("installation_id", c.InstallationID),
				goerr.T(types.ErrTagConfig),
			)
		}
		key, err := c.privateKey()
		if err != nil {
			return nil, err
		}
		opts = append(opts, githubinfra.WithAppAuth(appID, installationID, key))

	default:
		token, err := c.resolveToken()
		if err != nil {
			return nil, err
		}
		if token != "" {
			opts = append(opts, githubinfra.WithToken(token))
		}
	}

	return githubinfra.New(opts...)
}

func (c *GitHub) privateKey() ([]byte, error) {
	if c.PrivateKey != "" {
		return []byte(c.PrivateKey), nil
	}
	if c.PrivateKeyFile == "" {
		return nil, goerr.New("GitHub App auth requires a private key or key file",
			goerr.T(types.ErrTagConfig),
		)
	}

	raw, err := os.ReadFile(c.PrivateKeyFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key file",
			goerr.V("path", c.PrivateKeyFile),
			goerr.T(types.ErrTagConfig),
		)
	}

	return raw, nil
}

// resolveToken returns the token flag when set, otherwise looks up the
// credentials file entry for the API host
func (c *GitHub) resolveToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	if c.ConfigFile == "" {
		return "", nil
	}

	file, err := LoadFile(c.ConfigFile)
	if err != nil {
		return "", err
	}

	return file.TokenForHost(c.apiHost()), nil
}

// apiHost returns the host name credentials are registered under
func (c *GitHub) apiHost() string {
	if c.BaseURL == "" {
		return "github.com"
	}
	if u, err := url.Parse(c.BaseURL); err == nil && u.Host != "" {
		return u.Host
	}

	return c.BaseURL
}
