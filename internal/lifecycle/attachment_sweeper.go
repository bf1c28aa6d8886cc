package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hoaxify/internal/domain"
	"hoaxify/internal/storage"
)

// AttachmentStore is the metadata side of the attachment sweep.
type AttachmentStore interface {
	ListCandidates(ctx context.Context, cutoff time.Time) ([]domain.FileAttachment, error)
	Reserve(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) error
	DeleteIfUnclaimed(ctx context.Context, id int64) (bool, error)
}

// BlobDeleter removes the file behind an attachment.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) (storage.DeleteResult, error)
}

type AttachmentSweeperConfig struct {
	Retention   time.Duration
	CallTimeout time.Duration
	Clock       Clock
}

// AttachmentSweeper reclaims attachments that were uploaded but never used
// by a hoax within the retention window.
//
// Per candidate the order is: reserve the row, delete the blob, delete the
// row. A crash in between leaves at worst a reserved row whose blob is gone.
// Claims never take a reserved row, so it stays orphaned until a later pass
// takes the reservation over after the lease, gets NotFound from the blob
// delete and removes the row.
type AttachmentSweeper struct {
	store     AttachmentStore
	blobs     BlobDeleter
	retention time.Duration
	timeout   time.Duration
	clock     Clock
}

func NewAttachmentSweeper(store AttachmentStore, blobs BlobDeleter, cfg AttachmentSweeperConfig) *AttachmentSweeper {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &AttachmentSweeper{
		store:     store,
		blobs:     blobs,
		retention: cfg.Retention,
		timeout:   cfg.CallTimeout,
		clock:     cfg.Clock,
	}
}

func (s *AttachmentSweeper) Kind() Kind { return KindAttachments }

// Run performs one pass. It never panics on adapter errors and never returns
// them; everything that went wrong is in the report.
func (s *AttachmentSweeper) Run(ctx context.Context) *Report {
	now := s.clock.Now()
	report := &Report{Kind: KindAttachments, StartedAt: now}
	defer func() { report.FinishedAt = s.clock.Now() }()

	listCtx, cancel := withTimeout(ctx, s.timeout)
	candidates, err := s.store.ListCandidates(listCtx, now.Add(-s.retention))
	cancel()
	if err != nil {
		report.Err = fmt.Errorf("%w: list attachments: %w", ErrStoreUnavailable, err)
		return report
	}

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			report.Err = err
			return report
		}
		a := &candidates[i]
		report.Scanned++

		if !AttachmentEligible(a, now, s.retention) {
			report.Skipped++
			continue
		}

		deleted, err := s.reclaim(ctx, a)
		switch {
		case err != nil:
			report.fail(a.Filename, err)
		case deleted:
			report.Deleted = append(report.Deleted, a.Filename)
		default:
			report.Raced++
		}
	}
	return report
}

// reclaim removes one attachment. deleted is false with a nil error when a
// claim got there first.
func (s *AttachmentSweeper) reclaim(ctx context.Context, a *domain.FileAttachment) (deleted bool, err error) {
	reserved, err := s.call(ctx, func(ctx context.Context) (bool, error) {
		return s.store.Reserve(ctx, a.ID)
	})
	if err != nil {
		return false, fmt.Errorf("reserve attachment %d: %w", a.ID, err)
	}
	if !reserved {
		return false, nil
	}

	blobCtx, cancel := withTimeout(ctx, s.timeout)
	res, err := s.blobs.Delete(blobCtx, a.Filename)
	cancel()
	if !res.Removed() {
		if err == nil {
			err = fmt.Errorf("unexpected delete result %s", res)
		}
		// A delete that may still be running keeps the reservation, so no
		// hoax can claim a row whose blob is about to vanish. A later pass
		// takes the reservation over once the lease runs out.
		if !deleteInFlight(res, err) {
			s.release(ctx, a)
		}
		return false, fmt.Errorf("%w: delete blob: %w", ErrResourceBusy, err)
	}

	deleted, err = s.call(ctx, func(ctx context.Context) (bool, error) {
		return s.store.DeleteIfUnclaimed(ctx, a.ID)
	})
	if err != nil {
		return false, fmt.Errorf("delete attachment %d: %w", a.ID, err)
	}
	return deleted, nil
}

func (s *AttachmentSweeper) release(ctx context.Context, a *domain.FileAttachment) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.Release(ctx, a.ID); err != nil {
		// The lease runs out on its own; the row becomes claimable again then.
		log.Printf("sweep_release_failed kind=%s id=%d error=%q", KindAttachments, a.ID, err)
	}
}

func deleteInFlight(res storage.DeleteResult, err error) bool {
	return res == storage.Pending ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

func (s *AttachmentSweeper) call(ctx context.Context, fn func(context.Context) (bool, error)) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
