package hoax

import (
	"context"

	"hoaxify/internal/domain"
	"hoaxify/internal/storage"
)

type RepositoryInterface interface {
	Create(ctx context.Context, h *domain.Hoax, attachmentID *int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Hoax, error)
	List(ctx context.Context, userID *int64, page, size int) ([]domain.Hoax, int64, error)
	Delete(ctx context.Context, id int64) error
}

type BlobDeleter interface {
	Delete(ctx context.Context, key string) (storage.DeleteResult, error)
}
