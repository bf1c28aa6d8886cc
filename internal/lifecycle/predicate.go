package lifecycle

import (
	"time"

	"hoaxify/internal/domain"
)

// DefaultRetention is how long an unclaimed attachment is kept.
const DefaultRetention = 24 * time.Hour

// AttachmentEligible reports whether an attachment may be reclaimed at now.
// Age must be strictly greater than retention; a row exactly at the boundary stays.
func AttachmentEligible(a *domain.FileAttachment, now time.Time, retention time.Duration) bool {
	if a.IsClaimed() {
		return false
	}
	return now.Sub(a.UploadDate) > retention
}

// TokenEligible reports whether a token with the given expiry may be deleted at now.
func TokenEligible(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}
