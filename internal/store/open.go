package store

import (
	"context"
	"fmt"

	"github.com/Alijeyrad/dentalcenter/config"
	"github.com/Alijeyrad/dentalcenter/pkg/database"
	redispkg "github.com/Alijeyrad/dentalcenter/pkg/redis"
)

// Open connects the backend selected by cfg.Driver and runs its schema
// migration when it has one.
func Open(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Driver {
	case config.DriverSQLite, "":
		db, oerr := database.OpenSQLiteFromCentral(cfg.SQLite)
		if oerr != nil {
			return nil, oerr
		}
		backend = NewSQLiteBackend(db)
	case config.DriverPostgres:
		db, oerr := database.OpenPostgresFromCentral(cfg.Postgres)
		if oerr != nil {
			return nil, oerr
		}
		backend = NewPostgresBackend(db)
	case config.DriverRedis:
		rdb, oerr := redispkg.NewRedisFromCentral(cfg.Redis)
		if oerr != nil {
			return nil, oerr
		}
		backend = NewRedisBackend(rdb)
	case config.DriverMemory:
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if m, ok := backend.(Migrator); ok {
		if err = m.Migrate(ctx); err != nil {
			backend.Close()
			return nil, err
		}
	}
	return backend, nil
}
