// Package storage selecciona el almacén clave-valor según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/internal/domain/repository"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/memstore"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/postgres"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/redisstore"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/sqlitestore"
	"github.com/jhoicas/conversion-pro/pkg/config"
)

// Drivers soportados.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Open abre el almacén configurado. close libera el almacén y, en postgres,
// también el pool.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.KVStore, func(), error) {
	switch cfg.Store.Driver {
	case DriverMemory:
		s := memstore.New()
		return s, func() { _ = s.Close() }, nil

	case DriverSQLite, "":
		s, err := sqlitestore.Open(ctx, cfg.Store.SQLitePath, log, sqlitestore.Options{})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		s := postgres.NewKVStore(pool, log)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrar kv_store: %w", err)
		}
		return s, func() { _ = s.Close(); pool.Close() }, nil

	case DriverRedis:
		s, err := redisstore.Dial(ctx, cfg.Redis.URL, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("STORE_DRIVER %q no soportado (memory, sqlite, postgres, redis)", cfg.Store.Driver)
}
