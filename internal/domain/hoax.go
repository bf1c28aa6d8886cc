package domain

import "time"

// Hoax is a short post written by a user. It may own at most one file attachment.
type Hoax struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UserID    int64     `json:"-" gorm:"index;not null"`
	CreatedAt time.Time `json:"timestamp" gorm:"index"`

	User           *User           `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FileAttachment *FileAttachment `json:"fileAttachment,omitempty" gorm:"foreignKey:HoaxID"`
}

func (Hoax) TableName() string { return "hoaxes" }
