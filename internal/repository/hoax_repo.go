package repository

import (
	"context"
	"errors"

	"hoaxify/internal/domain"

	"gorm.io/gorm"
)

type HoaxRepository struct {
	db *gorm.DB
}

func NewHoaxRepository(db *gorm.DB) *HoaxRepository {
	return &HoaxRepository{db: db}
}

// Create saves the hoax and, if attachmentID is set, claims that attachment
// in the same transaction. claimed is false when the attachment was missing,
// already claimed, or reserved by the sweep; the hoax is saved regardless.
func (r *HoaxRepository) Create(ctx context.Context, h *domain.Hoax, attachmentID *int64) (claimed bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "FileAttachment").Create(h).Error; err != nil {
			return err
		}
		if attachmentID == nil {
			return nil
		}
		ok, err := claimAttachment(tx, *attachmentID, h.ID)
		if err != nil {
			return err
		}
		claimed = ok
		return nil
	})
	return claimed, err
}

func (r *HoaxRepository) GetByID(ctx context.Context, id int64) (*domain.Hoax, error) {
	var h domain.Hoax
	err := r.db.WithContext(ctx).Preload("FileAttachment").First(&h, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns one page of hoaxes, newest first. A non-nil userID restricts
// the page to that author.
func (r *HoaxRepository) List(ctx context.Context, userID *int64, page, size int) ([]domain.Hoax, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Hoax{})
		if userID != nil {
			q = q.Where("user_id = ?", *userID)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var hoaxes []domain.Hoax
	err := scope().Preload("User").Preload("FileAttachment").
		Order("id DESC").
		Limit(size).
		Offset(page * size).
		Find(&hoaxes).Error
	if err != nil {
		return nil, 0, err
	}
	return hoaxes, total, nil
}

// Delete removes a hoax together with its attachment rows.
func (r *HoaxRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hoax_id = ?", id).Delete(&domain.FileAttachment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Hoax{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
