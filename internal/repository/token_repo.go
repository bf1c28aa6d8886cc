package repository

import (
	"context"
	"errors"
	"time"

	"hoaxify/internal/domain"

	"gorm.io/gorm"
)

// TokenRepository provides DB access for login tokens.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, t *domain.Token) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*domain.Token, error) {
	var t domain.Token
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Touch slides the expiry of a still-valid token to now+ttl.
// An expired token is left alone so it cannot be revived under the sweep.
func (r *TokenRepository) Touch(ctx context.Context, tokenID string, now time.Time, ttl time.Duration) (bool, error) {
	now = now.UTC()
	res := r.db.WithContext(ctx).Model(&domain.Token{}).
		Where("token_id = ? AND expires_at > ?", tokenID, now).
		Updates(map[string]any{"expires_at": now.Add(ttl), "last_used_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteByTokenID revokes a token (logout).
func (r *TokenRepository) DeleteByTokenID(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&domain.Token{}).Error
}

func (r *TokenRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Token, error) {
	var out []domain.Token
	err := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Order("id").
		Find(&out).Error
	return out, err
}

// DeleteExpired removes the token only if it is still expired at now.
func (r *TokenRepository) DeleteExpired(ctx context.Context, id int64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND expires_at <= ?", id, now.UTC()).
		Delete(&domain.Token{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
