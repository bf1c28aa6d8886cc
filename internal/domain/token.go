package domain

import "time"

// Token is an issued, revocable login credential.
//
// TokenID is the jti carried inside the signed JWT handed to the client.
// The row is the authority on validity: a token is valid iff now < ExpiresAt.
// ExpiresAt slides forward each time the token is used.
type Token struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	TokenID    string    `json:"-" gorm:"size:36;uniqueIndex;not null"`
	UserID     int64     `json:"user_id" gorm:"index;not null"`
	User       User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"index;not null"`
	LastUsedAt time.Time `json:"last_used_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Token) TableName() string { return "tokens" }

func (t *Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
