package repository

import (
	"context"
	"errors"
	"time"

	"hoaxify/internal/domain"

	"gorm.io/gorm"
)

// DefaultReservationLease is how long a sweep reservation blocks claims.
// It must comfortably exceed the time a sweep needs to remove one blob.
const DefaultReservationLease = 10 * time.Minute

// AttachmentRepository provides DB access for file attachment metadata.
//
// Every state change that matters to the sweep is a single conditional
// statement, so concurrent claims and sweeps serialise on the row itself.
type AttachmentRepository struct {
	db    *gorm.DB
	lease time.Duration
	now   func() time.Time
}

func NewAttachmentRepository(db *gorm.DB, lease time.Duration) *AttachmentRepository {
	if lease <= 0 {
		lease = DefaultReservationLease
	}
	return &AttachmentRepository{db: db, lease: lease, now: func() time.Time { return time.Now().UTC() }}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *domain.FileAttachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*domain.FileAttachment, error) {
	var a domain.FileAttachment
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) GetByFilename(ctx context.Context, filename string) (*domain.FileAttachment, error) {
	var a domain.FileAttachment
	err := r.db.WithContext(ctx).Where("filename = ?", filename).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListCandidates returns unclaimed attachments uploaded before cutoff.
// The result is a snapshot; callers must not act on it without a conditional write.
func (r *AttachmentRepository) ListCandidates(ctx context.Context, cutoff time.Time) ([]domain.FileAttachment, error) {
	var out []domain.FileAttachment
	err := r.db.WithContext(ctx).
		Where("hoax_id IS NULL AND upload_date < ?", cutoff.UTC()).
		Order("id").
		Find(&out).Error
	return out, err
}

// Reserve marks an unclaimed attachment as being reclaimed. It returns false
// if the row is claimed, gone, or held by another live reservation.
func (r *AttachmentRepository) Reserve(ctx context.Context, id int64) (bool, error) {
	now := r.now()
	res := r.db.WithContext(ctx).Model(&domain.FileAttachment{}).
		Where("id = ? AND hoax_id IS NULL", id).
		Where("(reserved_at IS NULL OR reserved_at < ?)", now.Add(-r.lease)).
		Update("reserved_at", now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release drops a reservation so the attachment can be claimed again.
func (r *AttachmentRepository) Release(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.FileAttachment{}).
		Where("id = ? AND hoax_id IS NULL", id).
		Update("reserved_at", nil).Error
}

// DeleteIfUnclaimed removes the row only while no hoax references it.
// It returns false when nothing was deleted.
func (r *AttachmentRepository) DeleteIfUnclaimed(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND hoax_id IS NULL", id).
		Delete(&domain.FileAttachment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Claim attaches an unclaimed, unreserved attachment to a hoax. A reserved
// row is refused even after its lease ran out: its blob may already be gone,
// so only the sweep may finish it.
func (r *AttachmentRepository) Claim(ctx context.Context, id, hoaxID int64) (bool, error) {
	return claimAttachment(r.db.WithContext(ctx), id, hoaxID)
}

// DeleteByHoax removes the attachment rows owned by a hoax.
func (r *AttachmentRepository) DeleteByHoax(ctx context.Context, hoaxID int64) error {
	return r.db.WithContext(ctx).Where("hoax_id = ?", hoaxID).Delete(&domain.FileAttachment{}).Error
}

func claimAttachment(db *gorm.DB, id, hoaxID int64) (bool, error) {
	res := db.Model(&domain.FileAttachment{}).
		Where("id = ? AND hoax_id IS NULL AND reserved_at IS NULL", id).
		Update("hoax_id", hoaxID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
