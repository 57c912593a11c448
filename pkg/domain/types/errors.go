package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures by pipeline stage. Configuration and
// version-file errors are raised before any network call; lookup and
// upload errors come from the GitHub API and abort the run.
var (
	ErrTagConfig  = goerr.NewTag("config")
	ErrTagVersion = goerr.NewTag("version_file")
	ErrTagLookup  = goerr.NewTag("release_lookup")
	ErrTagUpload  = goerr.NewTag("asset_upload")
)
