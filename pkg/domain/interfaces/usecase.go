package interfaces

import (
	"context"

	"github.com/m-mizutani/porter/pkg/domain/model"
)

// UploadUseCase defines the asset upload flow
type UploadUseCase interface {
	// UploadAssets resolves the release for the checkout's VERSION and
	// uploads every staged binary to it
	UploadAssets(ctx context.Context, req *model.UploadRequest) (*model.UploadReport, error)
}
