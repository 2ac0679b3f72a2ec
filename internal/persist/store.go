package persist

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

import (
	"context"

	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/config"
)

// Store keeps Settings per profile.
type Store interface {
	LoadSettings(ctx context.Context, profile string) (*Settings, error)
	SaveSettings(ctx context.Context, profile string, s *Settings, frames uint64) error
	Close()
}

// Opener connects a Store.
type Opener func(ctx context.Context) (Store, error)

// PostgresOpener connects to PostgreSQL and applies pending migrations.
func PostgresOpener(cfg config.DatabaseConfig, log *zap.Logger) Opener {
	return func(ctx context.Context) (Store, error) {
		db, err := NewDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return NewSettingsRepo(db), nil
	}
}
