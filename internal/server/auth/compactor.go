package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/usersauth/internal/server/storage"
)

// Compactor periodically drops revocations whose tokens have expired anyway
type Compactor struct {
	store    storage.RevocationStorage
	clock    func() time.Time
	logger   *slog.Logger
	interval time.Duration
}

// NewCompactor creates a compactor; a non-positive interval disables Run
func NewCompactor(store storage.RevocationStorage, interval time.Duration, opts ...Option) *Compactor {
	o := newOptions(opts)

	return &Compactor{
		store:    store,
		interval: interval,
		clock:    o.clock,
		logger:   o.logger,
	}
}

// RunOnce deletes expired revocations and returns how many were removed
func (c *Compactor) RunOnce(ctx context.Context) (int, error) {
	deleted, err := c.store.DeleteExpiredRevocations(ctx, c.clock())
	if err != nil {
		return 0, fmt.Errorf("failed to compact revocations: %w", err)
	}
	return deleted, nil
}

// Run compacts on every tick until ctx is cancelled
func (c *Compactor) Run(ctx context.Context) {
	if c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := c.RunOnce(ctx)
			if err != nil {
				c.logger.ErrorContext(ctx, "revocation compaction failed", slog.Any("error", err))
				continue
			}
			if deleted > 0 {
				c.logger.InfoContext(ctx, "revocations compacted", slog.Int("deleted", deleted))
			}
		}
	}
}
