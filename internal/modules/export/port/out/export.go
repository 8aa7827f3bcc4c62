package out

import (
	"context"

	"tempo/internal/modules/export/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Render(ctx context.Context, manifest domain.Manifest, req domain.RenderRequest) (domain.RenderResult, error)
}
