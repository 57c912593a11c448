package model

// UploadRequest carries everything the upload use case needs to publish
// the build outputs of one repository to its release.
type UploadRequest struct {
	Target       Target // Repository that owns the release
	RepoDir      string // Checkout directory holding the VERSION file
	BinaryDir    string // Build output directory holding bin/rel
	DryRun       bool   // Resolve and plan only, no uploads
	SkipExisting bool   // Skip assets already present on the release
}

// UploadReport summarizes what an upload run did.
type UploadReport struct {
	Tag       string  // Release tag resolved from the VERSION file
	ReleaseID int64   // GitHub release ID the assets went to
	Planned   []Asset // Assets discovered under bin/rel
	Uploaded  int     // Number of assets actually uploaded
	Skipped   int     // Number of assets skipped as already present
}
