package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/porter/pkg/domain/types"
)

// Target identifies the repository whose release receives the assets
type Target struct {
	Owner string // Repository owner
	Repo  string // Repository name
}

// String returns the target as "<owner>/<name>"
func (t Target) String() string {
	return t.Owner + "/" + t.Repo
}

// ParseRepository splits a "<owner>/<name>" string into a Target. Anything
// other than exactly two non-empty segments is a configuration error.
func ParseRepository(s string) (Target, error) {
	owner, repo, found := strings.Cut(s, "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return Target{}, goerr.New("repository must be \"<owner>/<name>\"",
			goerr.V("repository", s),
			goerr.T(types.ErrTagConfig),
		)
	}

	return Target{Owner: owner, Repo: repo}, nil
}
