package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"hoaxify/internal/domain"
	"hoaxify/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service contains the business logic for registration and login tokens.
type Service struct {
	users    UserRepositoryInterface
	tokens   TokenRepositoryInterface
	signer   tokenSigner
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(users UserRepositoryInterface, tokens TokenRepositoryInterface, signer tokenSigner, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		signer:   signer,
		tokenTTL: tokenTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if !isStrongPassword(req.Password) {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a new token that is valid for
// tokenTTL after its last use.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Inactive {
		return nil, ErrAccountInactive
	}

	now := s.now()
	tokenID := uuid.NewString()
	if err := s.tokens.Create(ctx, &domain.Token{
		TokenID:    tokenID,
		UserID:     user.ID,
		ExpiresAt:  now.Add(s.tokenTTL),
		LastUsedAt: now,
	}); err != nil {
		return nil, err
	}

	signed, err := s.signer.GenerateToken(user.ID, tokenID, now)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{ID: user.ID, Username: user.Username, Image: user.Image, Token: signed}, nil
}

// Logout revokes the token immediately instead of waiting for the sweep.
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	return s.tokens.DeleteByTokenID(ctx, tokenID)
}

func isStrongPassword(p string) bool {
	var upper, lower, digit bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
