package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conversion-pro/internal/infrastructure/storage"
	"github.com/jhoicas/conversion-pro/pkg/config"
)

func roundTrip(t *testing.T, cfg *config.Config) {
	t.Helper()
	ctx := context.Background()
	s, closeFn, err := storage.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, s.Set(ctx, "k", "v"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestOpen_Memoria(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Driver = storage.DriverMemory
	roundTrip(t, cfg)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Driver = storage.DriverSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "cp.db")
	roundTrip(t, cfg)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	cfg.Store.Driver = storage.DriverRedis
	cfg.Redis.URL = "redis://" + mr.Addr() + "/0"
	roundTrip(t, cfg)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Driver = "mongo"
	_, _, err := storage.Open(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "no soportado")
}
