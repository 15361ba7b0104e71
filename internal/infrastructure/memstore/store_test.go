package memstore_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/conversion-pro/internal/domain/repository"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/memstore"
)

func TestStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	defer s.Close()

	_, ok, err := s.Get(ctx, repository.KeyEntries)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, repository.KeyEntries, "[]"))
	v, ok, _ := s.Get(ctx, repository.KeyEntries)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.Remove(ctx, repository.KeyEntries))
	_, ok, _ = s.Get(ctx, repository.KeyEntries)
	assert.False(t, ok)
}

func TestStore_SoloNotificaEscriturasDeOtrasVistas(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	b := memstore.NewBackend()
	tabA, tabB := b.Open(), b.Open()

	var gotA, gotB atomic.Int32
	_, err := tabA.Subscribe(ctx, func(string) { gotA.Add(1) })
	require.NoError(t, err)
	_, err = tabB.Subscribe(ctx, func(key string) {
		if key == repository.KeyEntries {
			gotB.Add(1)
		}
	})
	require.NoError(t, err)

	require.NoError(t, tabA.Set(ctx, repository.KeyEntries, "[]"))

	require.Eventually(t, func() bool { return gotB.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), gotA.Load())

	v, ok, _ := tabB.Get(ctx, repository.KeyEntries)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, tabA.Close())
	require.NoError(t, tabB.Close())
}
