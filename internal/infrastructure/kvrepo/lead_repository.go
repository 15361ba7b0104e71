// Package kvrepo serializa la colección de leads y la sesión como JSON sobre
// un repository.KVStore. Datos corruptos se registran y se tratan como vacíos.
package kvrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepository)(nil)

// LeadRepository colección completa bajo repository.KeyEntries.
type LeadRepository struct {
	store repository.KVStore
	log   zerolog.Logger
}

// NewLeadRepository construye el repositorio.
func NewLeadRepository(store repository.KVStore, log zerolog.Logger) *LeadRepository {
	return &LeadRepository{store: store, log: log}
}

// Load lee la colección. Ausente o corrupta devuelve una colección vacía.
func (r *LeadRepository) Load(ctx context.Context) ([]entity.Lead, error) {
	raw, ok, err := r.store.Get(ctx, repository.KeyEntries)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	if !ok || raw == "" {
		return []entity.Lead{}, nil
	}
	var leads []entity.Lead
	if err := json.Unmarshal([]byte(raw), &leads); err != nil {
		r.log.Warn().Err(err).Str("key", repository.KeyEntries).Msg("colección corrupta, se ignora")
		return []entity.Lead{}, nil
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}

// ReplaceAll reescribe la colección entera.
func (r *LeadRepository) ReplaceAll(ctx context.Context, leads []entity.Lead) error {
	if leads == nil {
		leads = []entity.Lead{}
	}
	b, err := json.Marshal(leads)
	if err != nil {
		return fmt.Errorf("encode leads: %w", err)
	}
	if err := r.store.Set(ctx, repository.KeyEntries, string(b)); err != nil {
		return fmt.Errorf("replace leads: %w", err)
	}
	return nil
}

// OnChange invoca fn cuando otro contexto modifica la colección.
func (r *LeadRepository) OnChange(ctx context.Context, fn func()) (func(), error) {
	return r.store.Subscribe(ctx, func(key string) {
		if key == repository.KeyEntries {
			fn()
		}
	})
}
