package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hoaxify/internal/domain"
)

func TestAttachmentEligible(t *testing.T) {
	uploaded := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	hoaxID := int64(7)

	tests := []struct {
		name   string
		hoaxID *int64
		now    time.Time
		want   bool
	}{
		{"younger than retention", nil, uploaded.Add(23 * time.Hour), false},
		{"exactly at retention", nil, uploaded.Add(24 * time.Hour), false},
		{"one nanosecond past retention", nil, uploaded.Add(24*time.Hour + time.Nanosecond), true},
		{"one second past retention", nil, uploaded.Add(24*time.Hour + time.Second), true},
		{"claimed and old", &hoaxID, uploaded.Add(48 * time.Hour), false},
		{"claimed and young", &hoaxID, uploaded.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &domain.FileAttachment{UploadDate: uploaded, HoaxID: tt.hoaxID}
			assert.Equal(t, tt.want, AttachmentEligible(a, tt.now, DefaultRetention))
		})
	}
}

func TestAttachmentEligible_CustomRetention(t *testing.T) {
	uploaded := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	a := &domain.FileAttachment{UploadDate: uploaded}

	assert.False(t, AttachmentEligible(a, uploaded.Add(time.Minute), time.Minute))
	assert.True(t, AttachmentEligible(a, uploaded.Add(time.Minute+time.Millisecond), time.Minute))
}

func TestTokenEligible(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	assert.False(t, TokenEligible(expiry, expiry.Add(-time.Nanosecond)))
	assert.True(t, TokenEligible(expiry, expiry), "expiry is exclusive")
	assert.True(t, TokenEligible(expiry, expiry.Add(time.Second)))
}
