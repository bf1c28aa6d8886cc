package hoax

import "hoaxify/internal/domain"

const (
	DefaultPageSize = 10
	MaxPageSize     = 10
)

type AttachmentRef struct {
	ID int64 `json:"id"`
}

type CreateRequest struct {
	Content        string         `json:"content" validate:"required,min=10,max=5000"`
	FileAttachment *AttachmentRef `json:"fileAttachment"`
}

type ListQuery struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

// Normalize clamps the query to a valid page.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

type Page struct {
	Content       []domain.Hoax `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
}
