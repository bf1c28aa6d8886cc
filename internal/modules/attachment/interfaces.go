package attachment

import (
	"context"
	"io"

	"hoaxify/internal/domain"
	"hoaxify/internal/storage"
)

type RepositoryInterface interface {
	Create(ctx context.Context, a *domain.FileAttachment) error
	GetByFilename(ctx context.Context, filename string) (*domain.FileAttachment, error)
}

// BlobStore is where uploaded bytes live.
type BlobStore interface {
	Write(ctx context.Context, key string, r io.Reader) (int64, error)
	Delete(ctx context.Context, key string) (storage.DeleteResult, error)
	Path(key string) (string, error)
}
