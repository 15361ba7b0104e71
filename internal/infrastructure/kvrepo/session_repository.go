package kvrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepository)(nil)

// SessionRepository usuario actual bajo repository.KeySession.
type SessionRepository struct {
	store repository.KVStore
	log   zerolog.Logger
}

// NewSessionRepository construye el repositorio.
func NewSessionRepository(store repository.KVStore, log zerolog.Logger) *SessionRepository {
	return &SessionRepository{store: store, log: log}
}

// Load devuelve el usuario guardado o nil. Una sesión corrupta equivale a no
// tener sesión.
func (r *SessionRepository) Load(ctx context.Context) (*entity.User, error) {
	raw, ok, err := r.store.Get(ctx, repository.KeySession)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var u entity.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" || !u.Role.Valid() {
		r.log.Warn().Err(err).Str("key", repository.KeySession).Msg("sesión corrupta, se ignora")
		return nil, nil
	}
	return &u, nil
}

// Save guarda el usuario.
func (r *SessionRepository) Save(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.Set(ctx, repository.KeySession, string(b)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear borra la sesión.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, repository.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
