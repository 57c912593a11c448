package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/porter/pkg/cli"
	"github.com/m-mizutani/porter/pkg/infra/github/githubtest"
)

// setupWorkspace builds a repository checkout and a build output directory
// the way the CI pipeline lays them out
func setupWorkspace(t *testing.T, version string, binaries map[string]string) (string, string) {
	t.Helper()

	repoDir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(repoDir, "VERSION"), []byte(version), 0o644))

	binaryDir := t.TempDir()
	relDir := filepath.Join(binaryDir, "bin", "rel")
	gt.NoError(t, os.MkdirAll(relDir, 0o755))
	for name, content := range binaries {
		path := filepath.Join(relDir, name)
		gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		gt.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	}

	return repoDir, binaryDir
}

func setupEnv(t *testing.T, srv *githubtest.Server, repoDir, binaryDir string) {
	t.Helper()

	t.Setenv("SOURCE_GITHUB_REPO_OWNER_AND_NAME", "m-mizutani/porter")
	t.Setenv("MAIN_REPO_DIR", repoDir)
	t.Setenv("BINARY", binaryDir)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_API_URL", srv.URL)
	t.Setenv("PORTER_LOG_FORMAT", "json")
}

func TestRun_Upload(t *testing.T) {
	srv := githubtest.New()
	defer srv.Close()
	srv.RequireToken("test-token")
	releaseID := srv.AddRelease("m-mizutani", "porter", "1.2.3")

	repoDir, binaryDir := setupWorkspace(t, "1.2.3\n", map[string]string{
		filepath.Join("linux", "app"):       "linux binary",
		filepath.Join("windows", "app.exe"): "windows binary",
	})
	setupEnv(t, srv, repoDir, binaryDir)

	err := cli.Run(context.Background(), []string{"porter", "upload"})
	gt.NoError(t, err)

	uploads := srv.Uploads()
	gt.Value(t, len(uploads)).Equal(2)
	gt.Value(t, uploads[0].Name).Equal("app")
	gt.Value(t, string(uploads[0].Body)).Equal("linux binary")
	gt.Value(t, uploads[1].Name).Equal("app.exe")
	gt.Value(t, string(uploads[1].Body)).Equal("windows binary")
	for _, up := range uploads {
		gt.Value(t, up.ContentType).Equal("application/octet-stream")
		gt.Value(t, up.ReleaseID).Equal(releaseID)
	}
}

func TestRun_MissingRequiredFlags(t *testing.T) {
	srv := githubtest.New()
	defer srv.Close()

	repoDir, binaryDir := setupWorkspace(t, "1.2.3", map[string]string{"app": "binary"})

	// SOURCE_GITHUB_REPO_OWNER_AND_NAME deliberately not set
	t.Setenv("MAIN_REPO_DIR", repoDir)
	t.Setenv("BINARY", binaryDir)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_API_URL", srv.URL)
	t.Setenv("PORTER_LOG_FORMAT", "json")

	err := cli.Run(context.Background(), []string{"porter", "upload"})
	gt.Error(t, err)
	gt.Value(t, srv.Requests()).Equal(0)
}

func TestRun_InvalidRepository(t *testing.T) {
	srv := githubtest.New()
	defer srv.Close()

	repoDir, binaryDir := setupWorkspace(t, "1.2.3", map[string]string{"app": "binary"})
	setupEnv(t, srv, repoDir, binaryDir)
	t.Setenv("SOURCE_GITHUB_REPO_OWNER_AND_NAME", "not-a-repository")

	err := cli.Run(context.Background(), []string{"porter", "upload"})
	gt.Error(t, err)

	// Configuration errors must fail before any API request
	gt.Value(t, srv.Requests()).Equal(0)
}

func TestRun_MissingVersionFile(t *testing.T) {
	srv := githubtest.New()
	defer srv.Close()
	srv.AddRelease("m-mizutani", "porter", "1.2.3")

	repoDir := t.TempDir() // no VERSION file
	binaryDir := t.TempDir()
	setupEnv(t, srv, repoDir, binaryDir)

	err := cli.Run(context.Background(), []string{"porter", "upload"})
	gt.Error(t, err)
	gt.Value(t, srv.Requests()).Equal(0)
}

func TestRun_DryRun(t *testing.T) {
	srv := githubtest.New()
	defer srv.Close()
	srv.RequireToken("test-token")
	srv.AddRelease("m-mizutani", "porter", "1.2.3")

	repoDir, binaryDir := setupWorkspace(t, "1.2.3", map[string]string{"app": "binary"})
	setupEnv(t, srv, repoDir, binaryDir)
	t.Setenv("PORTER_DRY_RUN", "true")

	err := cli.Run(context.Background(), []string{"porter", "upload"})
	gt.NoError(t, err)

	// The release lookup happens, the upload does not
	gt.Number(t, srv.Requests()).Greater(0)
	gt.Value(t, len(srv.Uploads())).Equal(0)
}

func TestRun_UnknownLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"porter", "--log-level", "nope", "upload"})
	gt.Error(t, err)
}
