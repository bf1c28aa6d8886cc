package domain

import "time"

// FileAttachment is the metadata row of an uploaded blob.
//
// Upload and post creation are separate requests, so a row starts orphaned
// (HoaxID == nil) and is claimed later when a hoax references it. A claimed
// row is never reclaimed by the attachment sweep.
//
// ReservedAt is set by the sweep while it removes the blob. A reserved row
// can no longer be claimed; only an explicit release after a failed blob
// delete makes it claimable again.
type FileAttachment struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	Filename   string     `json:"filename" gorm:"size:64;uniqueIndex;not null"`
	UploadDate time.Time  `json:"uploadDate" gorm:"index;not null"`
	FileType   *string    `json:"fileType,omitempty" gorm:"size:128"`
	HoaxID     *int64     `json:"-" gorm:"index"`
	ReservedAt *time.Time `json:"-" gorm:"index"`
}

func (FileAttachment) TableName() string { return "file_attachments" }

func (a *FileAttachment) IsClaimed() bool {
	return a.HoaxID != nil
}
