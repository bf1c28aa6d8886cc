package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"hoaxify/internal/domain"
	"hoaxify/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxFileSize = 5 * 1024 * 1024 // 5 MB

	sniffLen = 3072
)

// Service stores uploaded attachments. An upload is not tied to a hoax yet:
// the row stays orphaned until a hoax claims it, and the attachment sweep
// reclaims it if that never happens.
type Service struct {
	repo  RepositoryInterface
	blobs BlobStore
	now   func() time.Time
}

func NewService(repo RepositoryInterface, blobs BlobStore) *Service {
	return &Service{
		repo:  repo,
		blobs: blobs,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Save writes the blob first and then its metadata row. If the row cannot be
// stored the blob is removed again.
func (s *Service) Save(ctx context.Context, r io.Reader, size int64) (*domain.FileAttachment, error) {
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrEmptyFile
	}

	mtype := mimetype.Detect(head)
	fileType, _, _ := strings.Cut(mtype.String(), ";")
	filename := uuid.NewString() + mtype.Extension()

	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), MaxFileSize+1)
	written, err := s.blobs.Write(ctx, filename, body)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if written > MaxFileSize {
		s.discard(ctx, filename)
		return nil, ErrFileTooLarge
	}

	att := &domain.FileAttachment{
		Filename:   filename,
		UploadDate: s.now(),
		FileType:   &fileType,
	}
	if err := s.repo.Create(ctx, att); err != nil {
		s.discard(ctx, filename)
		return nil, fmt.Errorf("failed to save attachment record: %w", err)
	}
	return att, nil
}

// Locate returns the on-disk path of an attachment that still has a
// metadata row. Blobs without a row are never served.
func (s *Service) Locate(ctx context.Context, filename string) (string, *domain.FileAttachment, error) {
	att, err := s.repo.GetByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAttachmentNotFound
		}
		return "", nil, err
	}
	path, err := s.blobs.Path(att.Filename)
	if err != nil {
		return "", nil, ErrAttachmentNotFound
	}
	return path, att, nil
}

func (s *Service) discard(ctx context.Context, filename string) {
	res, err := s.blobs.Delete(context.WithoutCancel(ctx), filename)
	if err != nil {
		log.Printf("attachment discard failed filename=%s result=%s err=%v", filename, res, err)
	}
}
