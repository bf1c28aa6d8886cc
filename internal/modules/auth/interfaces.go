package auth

import (
	"context"
	"time"

	"hoaxify/internal/domain"
)

// UserRepositoryInterface — only the methods auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenRepositoryInterface — storage for login tokens
type TokenRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Token) error
	DeleteByTokenID(ctx context.Context, tokenID string) error
}

type tokenSigner interface {
	GenerateToken(userID int64, tokenID string, issuedAt time.Time) (string, error)
}
