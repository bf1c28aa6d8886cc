package hoax

import (
	"context"
	"errors"
	"fmt"
	"log"

	"hoaxify/internal/domain"
	"hoaxify/internal/repository"
)

type Service struct {
	repo  RepositoryInterface
	blobs BlobDeleter
}

func NewService(repo RepositoryInterface, blobs BlobDeleter) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// Create saves a hoax for userID. A referenced attachment is claimed in the
// same transaction; if it can no longer be claimed the hoax is saved without it.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*domain.Hoax, error) {
	h := &domain.Hoax{Content: req.Content, UserID: userID}

	var attachmentID *int64
	if req.FileAttachment != nil {
		attachmentID = &req.FileAttachment.ID
	}

	claimed, err := s.repo.Create(ctx, h, attachmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create hoax: %w", err)
	}
	if attachmentID != nil && !claimed {
		log.Printf("hoax attachment not claimed hoax_id=%d attachment_id=%d", h.ID, *attachmentID)
	}

	return s.repo.GetByID(ctx, h.ID)
}

// List returns a page of hoaxes, optionally restricted to one author.
func (s *Service) List(ctx context.Context, userID *int64, q ListQuery) (*Page, error) {
	q = q.Normalize()
	hoaxes, total, err := s.repo.List(ctx, userID, q.Page, q.Size)
	if err != nil {
		return nil, err
	}
	if hoaxes == nil {
		hoaxes = []domain.Hoax{}
	}
	return &Page{
		Content:       hoaxes,
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: total,
		TotalPages:    int((total + int64(q.Size) - 1) / int64(q.Size)),
	}, nil
}

// Delete removes the hoax if it belongs to userID. The attachment blob goes
// first; if it cannot be removed the rows are kept so the delete can be retried.
func (s *Service) Delete(ctx context.Context, userID, hoaxID int64) error {
	h, err := s.repo.GetByID(ctx, hoaxID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHoaxNotFound
		}
		return err
	}
	if h.UserID != userID {
		return ErrNotOwner
	}

	if h.FileAttachment != nil {
		if res, err := s.blobs.Delete(ctx, h.FileAttachment.Filename); !res.Removed() {
			return fmt.Errorf("failed to delete attachment %s: %w", h.FileAttachment.Filename, err)
		}
	}

	if err := s.repo.Delete(ctx, hoaxID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHoaxNotFound
		}
		return err
	}
	return nil
}
