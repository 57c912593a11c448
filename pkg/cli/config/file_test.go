package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/porter/pkg/cli/config"
)

func TestLoadFile(t *testing.T) {
	t.Run("parses credentials per host", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `credentials:
  - host: github.com
    username: ci-bot
    oauthToken: token-dotcom
  - host: ghe.example.com
    oauthToken: token-ghe
`
		gt.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		file, err := config.LoadFile(path)
		gt.NoError(t, err)
		gt.Value(t, len(file.Credentials)).Equal(2)
		gt.Value(t, file.Credentials[0].Username).Equal("ci-bot")
		gt.Value(t, file.TokenForHost("github.com")).Equal("token-dotcom")
		gt.Value(t, file.TokenForHost("ghe.example.com")).Equal("token-ghe")
		gt.Value(t, file.TokenForHost("unknown.example.com")).Equal("")
	})

	t.Run("entry without a token", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		gt.NoError(t, os.WriteFile(path, []byte("credentials:\n  - host: github.com\n    username: ci-bot\n"), 0o600))

		file, err := config.LoadFile(path)
		gt.NoError(t, err)
		gt.Value(t, file.TokenForHost("github.com")).Equal("")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		gt.Error(t, err)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		gt.NoError(t, os.WriteFile(path, []byte("credentials: {{nope"), 0o600))

		_, err := config.LoadFile(path)
		gt.Error(t, err)
	})
}
