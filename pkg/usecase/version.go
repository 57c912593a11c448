package usecase

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/porter/pkg/domain/types"
)

// VersionFileName is the file in the repository checkout that names the
// release tag to upload to.
const VersionFileName = "VERSION"

// ReadVersion reads the release tag from the VERSION file in the repository
// checkout. Surrounding whitespace is stripped so a trailing newline does not
// leak into the tag.
func ReadVersion(repoDir string) (string, error) {
	path := filepath.Join(repoDir, VersionFileName)

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read VERSION file",
			goerr.V("path", path),
			goerr.T(types.ErrTagVersion),
		)
	}

	version := strings.TrimSpace(string(raw))
	if version == "" {
		return "", goerr.New("VERSION file is empty",
			goerr.V("path", path),
			goerr.T(types.ErrTagVersion),
		)
	}

	return version, nil
}
