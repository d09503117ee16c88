package database

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/octobees/company-profiler/internal/config"
	"github.com/octobees/company-profiler/internal/repository"
)

// OpenProfileStore connects the store selected by STORE_DRIVER and returns it
// with a func that releases the underlying handle.
func OpenProfileStore(ctx context.Context, cfg *config.Config) (repository.ProfilesRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPGXProfilesRepository(pool), pool.Close, nil
	case config.StoreDriverSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteProfilesRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, eris.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
