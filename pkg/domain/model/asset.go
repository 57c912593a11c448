package model

// Asset is a single file staged for upload to a release.
type Asset struct {
	Name string // File name used as the asset name on the release
	Path string // Absolute or working-directory relative path on disk
	Size int64  // File size in bytes
}
