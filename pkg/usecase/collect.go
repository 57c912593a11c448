package usecase

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/porter/pkg/domain/model"
	"github.com/m-mizutani/porter/pkg/domain/types"
)

// CollectAssets walks <binaryDir>/bin/rel and returns every regular file as
// an upload candidate. The asset name is the file's base name even for files
// in subdirectories. A missing or non-directory root yields no assets,
// matching builds that produced nothing to publish.
func CollectAssets(binaryDir string) ([]model.Asset, error) {
	root := filepath.Join(binaryDir, "bin", "rel")

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to stat release binary directory",
			goerr.V("dir", root),
			goerr.T(types.ErrTagUpload),
		)
	}
	if !info.IsDir() {
		return nil, nil
	}

	var assets []model.Asset
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		assets = append(assets, model.Asset{
			Name: d.Name(),
			Path: path,
			Size: info.Size(),
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, goerr.Wrap(err, "failed to walk release binary directory",
			goerr.V("dir", root),
			goerr.T(types.ErrTagUpload),
		)
	}

	return assets, nil
}
