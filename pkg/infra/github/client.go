package github

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/porter/pkg/domain/interfaces"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

type client struct {
	githubClient *github.Client
}

type config struct {
	token          string
	appID          int64
	installationID int64
	privateKey     []byte
	baseURL        string
	uploadURL      string
	throttleRPS    float64
	base           http.RoundTripper
}

// Option configures the GitHub API client
type Option func(*config)

// WithToken authenticates requests with a personal access or OAuth token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithAppAuth authenticates requests as a GitHub App installation
func WithAppAuth(appID, installationID int64, privateKey []byte) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

// WithBaseURL points the client at a GitHub Enterprise API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithUploadURL overrides the asset upload endpoint. Defaults to the base URL
// when only WithBaseURL is given.
func WithUploadURL(uploadURL string) Option {
	return func(c *config) {
		c.uploadURL = uploadURL
	}
}

// WithThrottle caps outgoing API requests at rps requests per second
func WithThrottle(rps float64) Option {
	return func(c *config) {
		c.throttleRPS = rps
	}
}

// WithTransport replaces the base HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.base = rt
	}
}

// New creates a GitHub API client. Without an auth option the client stays
// anonymous, which is enough to look up releases on public repositories but
// not to upload assets.
func New(opts ...Option) (interfaces.GitHubClient, error) {
	cfg := &config{
		base: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	transport := cfg.base
	if cfg.throttleRPS > 0 {
		transport = withRateLimit(transport, rate.NewLimiter(rate.Limit(cfg.throttleRPS), 1))
	}
	transport = withRequestLogging(transport)

	switch {
	case cfg.appID != 0:
		itr, err := ghinstallation.New(transport, cfg.appID, cfg.installationID, cfg.privateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
		}
		transport = itr

	case cfg.token != "":
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.token}),
			Base:   transport,
		}
	}

	githubClient := github.NewClient(&http.Client{Transport: transport})
	if cfg.baseURL != "" {
		uploadURL := cfg.uploadURL
		if uploadURL == "" {
			uploadURL = cfg.baseURL
		}
		var err error
		githubClient, err = githubClient.WithEnterpriseURLs(cfg.baseURL, uploadURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URLs: %w", err)
		}
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// withRateLimit delays each request until the limiter grants a slot
func withRateLimit(next http.RoundTripper, limiter *rate.Limiter) roundTripperFunc {
	return func(r *http.Request) (*http.Response, error) {
		if err := limiter.Wait(r.Context()); err != nil {
			return nil, err
		}
		return next.RoundTrip(r)
	}
}

// withRequestLogging emits a debug log per API request
func withRequestLogging(next http.RoundTripper) roundTripperFunc {
	return func(r *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(r)

		logger := ctxlog.From(r.Context())
		if err != nil {
			logger.Debug("GitHub API request failed",
				"method", r.Method,
				"url", r.URL.String(),
				"error", err,
			)
			return resp, err
		}
		logger.Debug("GitHub API request",
			"method", r.Method,
			"url", r.URL.String(),
			"status", resp.StatusCode,
		)

		return resp, err
	}
}

// GetReleaseByTag resolves the release published under the given tag
func (c *client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, error) {
	release, _, err := c.githubClient.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to get release %s/%s@%s: %w", owner, repo, tag, err)
	}

	return release, nil
}

// ListReleaseAssets returns all assets attached to the release, following
// pagination until the last page.
func (c *client) ListReleaseAssets(ctx context.Context, owner, repo string, releaseID int64) ([]*github.ReleaseAsset, error) {
	var assets []*github.ReleaseAsset

	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := c.githubClient.Repositories.ListReleaseAssets(ctx, owner, repo, releaseID, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list assets of release %d in %s/%s: %w", releaseID, owner, repo, err)
		}
		assets = append(assets, page...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return assets, nil
}

// UploadReleaseAsset attaches the file to the release as a new asset
func (c *client) UploadReleaseAsset(ctx context.Context, owner, repo string, releaseID int64, opts *github.UploadOptions, file *os.File) (*github.ReleaseAsset, error) {
	asset, _, err := c.githubClient.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID, opts, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset %s to release %d in %s/%s: %w", opts.Name, releaseID, owner, repo, err)
	}

	return asset, nil
}
