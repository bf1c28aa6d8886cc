package lifecycle

import (
	"context"
	"fmt"
	"time"

	"hoaxify/internal/domain"
)

// TokenStore is the metadata side of the token sweep.
type TokenStore interface {
	ListExpired(ctx context.Context, now time.Time) ([]domain.Token, error)
	DeleteExpired(ctx context.Context, id int64, now time.Time) (bool, error)
}

type TokenSweeperConfig struct {
	CallTimeout time.Duration
	Clock       Clock
}

// TokenSweeper deletes expired login tokens. Deleting the row is the whole
// revocation; there is no external resource.
type TokenSweeper struct {
	store   TokenStore
	timeout time.Duration
	clock   Clock
}

func NewTokenSweeper(store TokenStore, cfg TokenSweeperConfig) *TokenSweeper {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &TokenSweeper{store: store, timeout: cfg.CallTimeout, clock: cfg.Clock}
}

func (s *TokenSweeper) Kind() Kind { return KindTokens }

func (s *TokenSweeper) Run(ctx context.Context) *Report {
	now := s.clock.Now()
	report := &Report{Kind: KindTokens, StartedAt: now}
	defer func() { report.FinishedAt = s.clock.Now() }()

	listCtx, cancel := withTimeout(ctx, s.timeout)
	tokens, err := s.store.ListExpired(listCtx, now)
	cancel()
	if err != nil {
		report.Err = fmt.Errorf("%w: list tokens: %w", ErrStoreUnavailable, err)
		return report
	}

	for i := range tokens {
		if err := ctx.Err(); err != nil {
			report.Err = err
			return report
		}
		t := &tokens[i]
		report.Scanned++

		if !TokenEligible(t.ExpiresAt, now) {
			report.Skipped++
			continue
		}

		key := fmt.Sprintf("token:%d", t.ID)
		delCtx, cancel := withTimeout(ctx, s.timeout)
		deleted, err := s.store.DeleteExpired(delCtx, t.ID, now)
		cancel()
		switch {
		case err != nil:
			report.fail(key, err)
		case deleted:
			report.Deleted = append(report.Deleted, key)
		default:
			// Refreshed or logged out meanwhile.
			report.Raced++
		}
	}
	return report
}
