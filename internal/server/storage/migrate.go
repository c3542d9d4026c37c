package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// Migrate применяет все новые миграции из fsys.
// Provider создается на каждый вызов, поэтому sqlite и postgres не делят
// глобальное состояние goose; каждая примененная миграция пишется в logger.
func Migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS, logger *slog.Logger) error {
	provider, err := goose.NewProvider(dialect, db, fsys,
		goose.WithSlog(logger),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	for _, result := range results {
		logger.InfoContext(ctx, "migration applied",
			slog.String("dialect", string(dialect)),
			slog.String("source", result.Source.Path),
			slog.Int64("version", result.Source.Version),
			slog.Duration("duration", result.Duration),
		)
	}

	return nil
}
